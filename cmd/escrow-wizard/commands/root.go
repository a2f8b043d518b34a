package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"escrow-wizard/internal/common/config"
	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/observability"
	"escrow-wizard/internal/render"
	"escrow-wizard/pkg/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the dependency graph shared by subcommands.
type app struct {
	cfg    *config.Config
	zap    *zap.Logger
	log    logger.Logger
	reg    *registry.WizardRegistry
	obs    *observability.Observability
	errs   *apperrors.ErrorHandler
	styles render.Styles
	out    io.Writer
	format string
}

// errRejected is returned after the rejection has already been printed.
var errRejected = errors.New("operation rejected")

func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errRejected) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	root := &cobra.Command{
		Use:           "escrow-wizard",
		Short:         "Create and fund escrow transactions from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				a.cfg, err = config.LoadFromFile(configPath)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			if logLevel != "" {
				a.cfg.Logging.Level = logLevel
			}
			if logFormat != "" {
				a.cfg.Logging.Format = logFormat
			}

			a.zap = logger.New(a.cfg.Logging.Level, a.cfg.Logging.Format)
			a.log = logger.NewZapAdapter(a.zap).WithFields(map[string]interface{}{
				"app":     a.cfg.App.Name,
				"command": cmd.Name(),
			})
			a.errs = apperrors.NewErrorHandler(a.log)

			a.reg, err = registry.LoadOrDefault(a.cfg.Registry.Path)
			if err != nil {
				return fmt.Errorf("load wizard registry: %w", err)
			}

			if a.cfg.Metrics.Enabled {
				a.obs = observability.New(a.cfg.Metrics.ServiceName, a.log)
			}

			switch a.format {
			case render.FormatText, render.FormatJSON, render.FormatYAML:
			default:
				return fmt.Errorf("unsupported output format %q", a.format)
			}
			a.styles = render.DefaultStyles()
			a.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.obs.Shutdown()
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./configs/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "console or json")
	root.PersistentFlags().StringVarP(&a.format, "output", "o", render.FormatText, "text, json or yaml")

	root.AddCommand(createCmd(a), feesCmd(a), onboardCmd(a))
	return root
}

// emit writes v in the selected structured format, or text otherwise.
func (a *app) emit(text string, v interface{}) error {
	if a.format == render.FormatText {
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(a.out, text)
		return err
	}
	return render.Encode(a.out, a.format, v)
}

// reject prints the feedback for a rejected operation and returns
// errRejected so the process exits non-zero.
func (a *app) reject(operation string, err error) error {
	fb := a.errs.Handle(operation, err)
	if a.format == render.FormatText {
		fmt.Fprintln(a.out, a.styles.Error.Render(fb.Message))
		if len(fb.Fields) > 0 {
			fmt.Fprintln(a.out, render.FieldErrors(a.styles, err))
		}
	} else {
		_ = render.Encode(a.out, a.format, fb)
	}
	return errRejected
}
