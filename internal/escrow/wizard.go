// Package escrow implements the escrow creation wizard: service details,
// milestones, review and funding.
package escrow

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"escrow-wizard/internal/common/config"
	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/metrics"
	"escrow-wizard/internal/common/observability"
	"escrow-wizard/internal/common/validation"
	"escrow-wizard/internal/escrow/fees"
	"escrow-wizard/internal/escrow/ledger"
	"escrow-wizard/internal/models"
	"escrow-wizard/internal/payment"
	"escrow-wizard/internal/wizard"
	"escrow-wizard/pkg/registry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Step keys, as named in the wizard registry.
const (
	StepServiceDetails = "service-details"
	StepMilestones     = "milestones"
	StepReview         = "review"
	StepFundEscrow     = "fund-escrow"
)

// Review is everything the Review step shows.
type Review struct {
	Details    models.ServiceDetails   `json:"details"`
	Milestones []models.Milestone      `json:"milestones"`
	Summary    models.FinancialSummary `json:"summary"`
	FeeRate    string                  `json:"feeRatePercent"`
	Currency   string                  `json:"currency"`
}

// Wizard is one escrow creation flow. Like the controller it is driven by a
// single user session; only the payment completion runs concurrently and it
// is owned by the simulator.
type Wizard struct {
	details    models.ServiceDetails
	categories []string
	currency   string

	ctrl     *wizard.Controller
	ledger   *ledger.Ledger
	fees     *fees.Calculator
	payment  *payment.Simulator
	fundForm *validation.Schema

	obs      *observability.Observability
	logger   logger.Logger
	disposed bool
}

type Option func(*options)

type options struct {
	obs        *observability.Observability
	ledgerOpts []ledger.Option
	payOpts    []payment.Option
	delay      *time.Duration
}

func WithObservability(o *observability.Observability) Option {
	return func(opts *options) { opts.obs = o }
}

func WithLedgerOptions(o ...ledger.Option) Option {
	return func(opts *options) { opts.ledgerOpts = append(opts.ledgerOpts, o...) }
}

func WithPaymentOptions(o ...payment.Option) Option {
	return func(opts *options) { opts.payOpts = append(opts.payOpts, o...) }
}

// WithPaymentDelay overrides escrow.payment_delay_ms.
func WithPaymentDelay(d time.Duration) Option {
	return func(opts *options) { opts.delay = &d }
}

// New starts a draft seeded with the configured milestone.
func New(cfg config.EscrowConfig, reg *registry.WizardRegistry, log logger.Logger, opts ...Option) (*Wizard, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	def, err := reg.Wizard(registry.EscrowWizardID)
	if err != nil {
		return nil, err
	}
	calc, err := fees.NewCalculator(cfg.PlatformFeeRate)
	if err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	schemas := make(map[string]*validation.Schema, len(def.Steps))
	for _, sd := range def.Steps {
		s, err := validation.CompileSchema(sd.InputSchema)
		if err != nil {
			return nil, err
		}
		schemas[sd.Key] = s
	}

	log = log.WithFields(map[string]interface{}{"wizard": registry.EscrowWizardID})

	delay := cfg.PaymentDelay()
	if o.delay != nil {
		delay = *o.delay
	}

	var seed []models.Milestone
	if cfg.SeedMilestone.Title != "" || cfg.SeedMilestone.Amount > 0 {
		seed = append(seed, models.Milestone{Title: cfg.SeedMilestone.Title, Amount: cfg.SeedMilestone.Amount})
	}

	w := &Wizard{
		details:    models.ServiceDetails{Provider: models.DefaultProvider},
		categories: cfg.Categories,
		currency:   cfg.Currency,
		ledger:     ledger.New(log, seed, o.ledgerOpts...),
		fees:       calc,
		fundForm:   schemas[StepFundEscrow],
		obs:        o.obs,
		logger:     log,
	}
	if len(w.categories) == 0 {
		w.categories = config.DefaultCategories
	}

	payOpts := append([]payment.Option{payment.WithOnComplete(w.onFunded)}, o.payOpts...)
	w.payment = payment.NewSimulator(delay, log, payOpts...)

	w.ctrl, err = wizard.FromDefinition(def, map[string]wizard.CheckFunc{
		StepServiceDetails: wizard.Chain(
			wizard.SchemaCheck(schemas[StepServiceDetails], func() interface{} { return w.details }),
			w.checkDetails,
		),
		StepMilestones: wizard.Chain(
			wizard.SchemaCheck(schemas[StepMilestones], func() interface{} {
				return map[string]interface{}{"milestones": w.ledger.Milestones()}
			}),
			w.checkMilestones,
		),
		StepReview: wizard.SchemaCheck(schemas[StepReview], func() interface{} { return w.Review() }),
	}, nil, log)
	if err != nil {
		return nil, err
	}

	metrics.WizardsActive.WithLabelValues(registry.EscrowWizardID).Inc()
	log.Info("escrow draft started", map[string]interface{}{"milestones": w.ledger.Len()})
	return w, nil
}

// checkDetails holds the Service Details rules that do not depend on the
// registry schema, which a custom registry may loosen.
func (w *Wizard) checkDetails(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	r.RequireText("title", w.details.Title)
	switch {
	case w.details.Category == "":
		r.Add("category", "is required", "REQUIRED")
	case !slices.Contains(w.categories, w.details.Category):
		r.Add("category", fmt.Sprintf("must be one of %s", strings.Join(w.categories, ", ")), "ENUM")
	}
	if w.details.Deadline != "" && !validation.ValidateDate(w.details.Deadline) {
		r.Add("deadline", "must be a date like 2026-12-31", "FORMAT")
	}
	return r
}

// checkMilestones requires a title and a positive amount on every milestone
// and a total within ledger.MaxAmount.
func (w *Wizard) checkMilestones(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	for i, m := range w.ledger.Milestones() {
		r.RequireText(fmt.Sprintf("milestones[%d].title", i), m.Title)
		if m.Amount < 1 {
			r.Add(fmt.Sprintf("milestones[%d].amount", i), "must be greater than 0", "NUMBER_GTE")
		}
	}
	if w.ledger.Total() > ledger.MaxAmount {
		r.Add("milestones", fmt.Sprintf("total must not exceed %d", ledger.MaxAmount), "NUMBER_LTE")
	}
	return r
}

// ==========================
// Navigation
// ==========================

// Next advances one step. An incomplete step returns STEP_INCOMPLETE with
// field errors and the step does not change.
func (w *Wizard) Next(ctx context.Context) error {
	if err := w.editable("next"); err != nil {
		return err
	}
	start := time.Now()
	err := w.ctrl.Advance(ctx)
	w.record(ctx, "next", start, err)
	return err
}

// Back retreats one step. It is a no-op at the first step and once funding
// has started.
func (w *Wizard) Back() bool {
	if w.editable("back") != nil {
		return false
	}
	return w.ctrl.Retreat()
}

// Step returns the key of the current step.
func (w *Wizard) Step() string { return w.ctrl.Current().Key }

func (w *Wizard) StepIndex() int { return w.ctrl.CurrentIndex() }

func (w *Wizard) Progress() []models.StepView { return w.ctrl.Progress() }

// Validate reports the current step's field errors without navigating.
func (w *Wizard) Validate(ctx context.Context) *validation.ValidationResult {
	return w.ctrl.Validate(ctx)
}

// ==========================
// Service details
// ==========================

func (w *Wizard) Details() models.ServiceDetails { return w.details }

func (w *Wizard) Categories() []string { return slices.Clone(w.categories) }

// SetDetails replaces the form data of the Service Details step. The
// provider is fixed for the draft and is not overwritten.
func (w *Wizard) SetDetails(d models.ServiceDetails) error {
	if err := w.editable("set_details"); err != nil {
		return err
	}
	d.Provider = w.details.Provider
	w.details = d
	return nil
}

// ==========================
// Milestones
// ==========================

func (w *Wizard) Milestones() []models.Milestone { return w.ledger.Milestones() }

func (w *Wizard) AddMilestone() (models.Milestone, error) {
	if err := w.editable("add_milestone"); err != nil {
		return models.Milestone{}, err
	}
	return w.ledger.Add(), nil
}

func (w *Wizard) RemoveMilestone(id string) error {
	if err := w.editable("remove_milestone"); err != nil {
		return err
	}
	return w.ledger.Remove(id)
}

func (w *Wizard) UpdateMilestone(id string, field models.MilestoneField, value interface{}) error {
	if err := w.editable("update_milestone"); err != nil {
		return err
	}
	return w.ledger.Update(id, field, value)
}

// Summary is recomputed from the ledger on every call.
func (w *Wizard) Summary() models.FinancialSummary {
	return w.fees.Summary(w.ledger.Total())
}

func (w *Wizard) Review() Review {
	return Review{
		Details:    w.details,
		Milestones: w.ledger.Milestones(),
		Summary:    w.Summary(),
		FeeRate:    w.fees.Rate().Shift(2).String(),
		Currency:   w.currency,
	}
}

// ==========================
// Funding
// ==========================

// Fund starts the simulated payment of the grand total. It is only available
// on the Fund Escrow step; UPI payments need a UPI id. Calling Fund again
// while the payment is processing returns the same pending payment.
func (w *Wizard) Fund(ctx context.Context, method models.PaymentMethod, upiID string) (*payment.Pending, error) {
	ctx, span := observability.StartSpan(ctx, "escrow.fund",
		attribute.String("method", string(method)),
	)
	defer span.End()
	start := time.Now()

	pending, err := w.fund(ctx, method, upiID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	w.record(ctx, "fund", start, err)
	return pending, err
}

func (w *Wizard) fund(ctx context.Context, method models.PaymentMethod, upiID string) (*payment.Pending, error) {
	if w.disposed {
		return nil, apperrors.NewDisposedError()
	}
	if key := w.Step(); key != StepFundEscrow {
		return nil, apperrors.NewWrongStepError(StepFundEscrow, key)
	}
	if w.payment.Status() != models.PaymentIdle {
		return w.payment.Start(ctx, method, w.Summary().GrandTotal)
	}

	if !method.Valid() {
		return nil, apperrors.NewInvalidPaymentMethodError(fmt.Sprintf("method: %q", method))
	}
	// Milestones stay editable up to here, so the amount is checked again.
	if r := w.checkMilestones(ctx); !r.Valid {
		metrics.WizardAdvanceRejected.WithLabelValues(registry.EscrowWizardID, StepMilestones).Inc()
		return nil, apperrors.NewStepIncompleteError(StepMilestones, r.FieldErrors())
	}
	form := w.fundForm.Validate(map[string]interface{}{"method": method, "upiId": upiID})
	if method == models.MethodUPI && !validation.ValidateUPIID(upiID) {
		form.Add("upiId", "must look like yourname@upi", "PATTERN")
	}
	if !form.Valid {
		metrics.WizardAdvanceRejected.WithLabelValues(registry.EscrowWizardID, StepFundEscrow).Inc()
		return nil, apperrors.NewStepIncompleteError(StepFundEscrow, form.FieldErrors())
	}

	summary := w.Summary()
	w.logger.Info("funding escrow", map[string]interface{}{
		"method":     method,
		"grandTotal": summary.GrandTotal,
		"currency":   w.currency,
	})
	return w.payment.Start(ctx, method, summary.GrandTotal)
}

func (w *Wizard) onFunded(result models.PaymentResult) {
	w.logger.Info("escrow funded", map[string]interface{}{
		"transactionId": result.TransactionID,
		"amount":        result.Amount,
	})
	w.obs.RecordOperation(context.Background(), "payment", string(result.Status), result.CompletedAt.Sub(result.StartedAt))
}

// Funded reports whether the payment has succeeded.
func (w *Wizard) Funded() bool {
	return w.payment.Status() == models.PaymentSucceeded
}

// Payment returns the payment state and, once funded, the transaction id.
func (w *Wizard) Payment() (models.PaymentResult, models.PaymentStatus) {
	result, _ := w.payment.Result()
	return result, w.payment.Status()
}

// ==========================
// Lifecycle
// ==========================

// Close disposes the draft. A pending payment is cancelled and later calls
// that would mutate the draft return DISPOSED.
func (w *Wizard) Close() {
	if w.disposed {
		return
	}
	w.disposed = true
	w.payment.Close()
	metrics.WizardsActive.WithLabelValues(registry.EscrowWizardID).Dec()
	w.logger.Info("escrow draft disposed", map[string]interface{}{
		"step":   w.Step(),
		"funded": w.Funded(),
	})
}

func (w *Wizard) editable(operation string) error {
	if w.disposed {
		return apperrors.NewDisposedError()
	}
	if w.payment.Status() != models.PaymentIdle {
		return apperrors.NewPaymentInProgressError(operation)
	}
	return nil
}

func (w *Wizard) record(ctx context.Context, operation string, start time.Time, err error) {
	w.obs.RecordOperation(ctx, operation, metrics.ResultLabel(err), time.Since(start))
}
