// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"

	"escrow-wizard/internal/common/validation"
	"escrow-wizard/pkg/registry"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:   "registry-updater",
		Short: "Maintain the wizard registry file",
		Example: `  registry-updater export --path configs/wizards.json
  registry-updater update --path configs/wizards.json --wizard escrow-create --step review --field label --value "Confirm"
  registry-updater validate --path configs/wizards.json`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", "configs/wizards.json", "path to registry file")

	root.AddCommand(
		&cobra.Command{
			Use:   "export",
			Short: "Write the built-in registry to --path as a starting point",
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := registry.Default()
				if err != nil {
					return err
				}
				if err := reg.Save(registryPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d wizards to %s\n", len(reg.Wizards), registryPath)
				return nil
			},
		},
		updateCmd(&registryPath),
		&cobra.Command{
			Use:   "validate",
			Short: "Check the registry structure and compile every step schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := validateRegistry(registryPath)
				if err != nil {
					return fmt.Errorf("registry validation failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d steps.\n", n)
				return nil
			},
		},
	)
	return root
}

func updateCmd(registryPath *string) *cobra.Command {
	var wizardID, step, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a step's label or description",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.UpdateStep(wizardID, step, field, value); err != nil {
				return err
			}
			if err := reg.Save(*registryPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s/%s, field %s to %s\n", wizardID, step, field, value)
			return nil
		},
	}
	cmd.Flags().StringVar(&wizardID, "wizard", "", "wizard id, e.g. escrow-create")
	cmd.Flags().StringVar(&step, "step", "", "step key, e.g. review")
	cmd.Flags().StringVar(&field, "field", "", "label or description")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	for _, name := range []string{"wizard", "step", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// validateRegistry loads the file and compiles every step's input schema.
// It returns the number of steps checked.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, err
	}
	if len(reg.Wizards) == 0 {
		return 0, fmt.Errorf("registry contains no wizards")
	}

	n := 0
	for _, w := range reg.Wizards {
		if w.DisplayName == "" {
			return n, fmt.Errorf("wizard %s missing required field: displayName", w.ID)
		}
		for _, s := range w.Steps {
			if s.Label == "" {
				return n, fmt.Errorf("wizard %s step %s missing required field: label", w.ID, s.Key)
			}
			if _, err := validation.CompileSchema(s.InputSchema); err != nil {
				return n, fmt.Errorf("wizard %s step %s: %w", w.ID, s.Key, err)
			}
			n++
		}
	}
	return n, nil
}
