// Package onboarding implements the KYC/KYB verification wizard. Document
// checks are simulated: a well-formed number is accepted as verified.
package onboarding

import (
	"context"
	"strings"
	"time"

	"escrow-wizard/internal/common/config"
	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/metrics"
	"escrow-wizard/internal/common/observability"
	"escrow-wizard/internal/common/validation"
	"escrow-wizard/internal/models"
	"escrow-wizard/internal/wizard"
	"escrow-wizard/pkg/registry"

	"go.opentelemetry.io/otel/attribute"
)

const (
	StepIdentity = "identity"
	StepAddress  = "address"
	StepBusiness = "business"
	StepBank     = "bank"
)

// Document names used in logs, metrics and errors.
const (
	DocumentPAN     = "pan"
	DocumentAadhaar = "aadhaar"
	DocumentCompany = "company"
	DocumentBank    = "bank"
)

type Wizard struct {
	identity models.IdentityDetails
	address  models.AddressDetails
	business models.BusinessDetails
	bank     models.BankDetails

	requireBusiness bool
	ctrl            *wizard.Controller
	obs             *observability.Observability
	logger          logger.Logger

	completedAt time.Time
	disposed    bool
}

type Option func(*Wizard)

func WithObservability(o *observability.Observability) Option {
	return func(w *Wizard) { w.obs = o }
}

func New(cfg config.OnboardingConfig, reg *registry.WizardRegistry, log logger.Logger, opts ...Option) (*Wizard, error) {
	def, err := reg.Wizard(registry.OnboardingWizardID)
	if err != nil {
		return nil, err
	}

	schemas := make(map[string]*validation.Schema, len(def.Steps))
	for _, sd := range def.Steps {
		s, err := validation.CompileSchema(sd.InputSchema)
		if err != nil {
			return nil, err
		}
		schemas[sd.Key] = s
	}

	w := &Wizard{
		requireBusiness: cfg.RequireBusiness,
		logger:          log.WithFields(map[string]interface{}{"wizard": registry.OnboardingWizardID}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.ctrl, err = wizard.FromDefinition(def,
		map[string]wizard.CheckFunc{
			StepIdentity: wizard.Chain(
				wizard.SchemaCheck(schemas[StepIdentity], func() interface{} { return w.identity }),
				w.checkIdentity,
			),
			StepAddress: wizard.Chain(
				wizard.SchemaCheck(schemas[StepAddress], func() interface{} { return w.address }),
				w.checkAddress,
			),
			StepBusiness: wizard.Chain(
				wizard.SchemaCheck(schemas[StepBusiness], func() interface{} { return w.business }),
				w.checkBusiness,
			),
			StepBank: wizard.Chain(
				wizard.SchemaCheck(schemas[StepBank], func() interface{} { return w.bank }),
				w.checkBank,
			),
		},
		map[string]func() bool{StepBusiness: w.resetChoice},
		w.logger,
	)
	if err != nil {
		return nil, err
	}

	metrics.WizardsActive.WithLabelValues(registry.OnboardingWizardID).Inc()
	return w, nil
}

// ==========================
// Navigation
// ==========================

func (w *Wizard) Next(ctx context.Context) error {
	if err := w.editable(); err != nil {
		return err
	}
	start := time.Now()
	err := w.ctrl.Advance(ctx)
	w.obs.RecordOperation(ctx, "onboarding.next", metrics.ResultLabel(err), time.Since(start))
	return err
}

// Back retreats one step. On the Business step a made choice is cleared
// first, returning to the individual/company question.
func (w *Wizard) Back() bool {
	if w.editable() != nil {
		return false
	}
	return w.ctrl.Retreat()
}

func (w *Wizard) resetChoice() bool {
	if w.business.IsCompany == nil {
		return false
	}
	w.business = models.BusinessDetails{}
	return true
}

func (w *Wizard) Step() string { return w.ctrl.Current().Key }

func (w *Wizard) StepIndex() int { return w.ctrl.CurrentIndex() }

func (w *Wizard) Progress() []models.StepView { return w.ctrl.Progress() }

func (w *Wizard) Validate(ctx context.Context) *validation.ValidationResult {
	return w.ctrl.Validate(ctx)
}

// ==========================
// Identity
// ==========================

func (w *Wizard) Identity() models.IdentityDetails { return w.identity }

// VerifyPAN checks the PAN format and marks it verified.
func (w *Wizard) VerifyPAN(ctx context.Context, pan string) error {
	return w.verify(ctx, DocumentPAN, func() error {
		if !validation.ValidatePAN(pan) {
			return apperrors.NewVerificationFailedError(DocumentPAN, []apperrors.FieldError{
				{Field: "pan", Message: "must look like ABCDE1234F"},
			})
		}
		w.identity.PAN = validation.NormalizeDocument(pan)
		w.identity.PANVerified = true
		return nil
	})
}

// VerifyAadhaar checks the 12-digit Aadhaar number and marks it verified.
func (w *Wizard) VerifyAadhaar(ctx context.Context, number string) error {
	return w.verify(ctx, DocumentAadhaar, func() error {
		if !validation.ValidateAadhaar(number) {
			return apperrors.NewVerificationFailedError(DocumentAadhaar, []apperrors.FieldError{
				{Field: "aadhaar", Message: "must be a 12-digit Aadhaar number"},
			})
		}
		w.identity.Aadhaar = validation.NormalizeDocument(number)
		w.identity.AadhaarVerified = true
		return nil
	})
}

func (w *Wizard) checkIdentity(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	if !w.identity.PANVerified {
		r.Add("pan", "must be verified", "NOT_VERIFIED")
	}
	if !w.identity.AadhaarVerified {
		r.Add("aadhaar", "must be verified", "NOT_VERIFIED")
	}
	return r
}

// ==========================
// Address
// ==========================

func (w *Wizard) Address() models.AddressDetails { return w.address }

func (w *Wizard) SetAddress(a models.AddressDetails) error {
	if err := w.editable(); err != nil {
		return err
	}
	a.PINCode = strings.TrimSpace(a.PINCode)
	w.address = a
	return nil
}

func (w *Wizard) checkAddress(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	r.RequireText("line1", w.address.Line1)
	r.RequireText("city", w.address.City)
	r.RequireText("state", w.address.State)
	if !validation.ValidatePINCode(w.address.PINCode) {
		r.Add("pinCode", "must be a 6-digit PIN code", "PATTERN")
	}
	return r
}

// ==========================
// Business
// ==========================

func (w *Wizard) Business() models.BusinessDetails { return w.business }

func (w *Wizard) ChooseIndividual() error {
	return w.choose(false)
}

func (w *Wizard) ChooseCompany() error {
	return w.choose(true)
}

func (w *Wizard) choose(company bool) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.business = models.BusinessDetails{IsCompany: &company}
	return nil
}

// SetCompanyDetails records the KYB documents. The individual/company choice
// is kept as made.
func (w *Wizard) SetCompanyDetails(companyPAN, gstin, cin string) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.business.CompanyPAN = validation.NormalizeDocument(companyPAN)
	w.business.GSTIN = validation.NormalizeDocument(gstin)
	w.business.CIN = validation.NormalizeDocument(cin)
	return nil
}

// VerifyCompany checks the KYB documents of a company. It is the counted
// verification; the Business step runs the same rules on advance.
func (w *Wizard) VerifyCompany(ctx context.Context) error {
	return w.verify(ctx, DocumentCompany, func() error {
		if w.business.IsCompany == nil || !*w.business.IsCompany {
			return apperrors.NewVerificationFailedError(DocumentCompany, []apperrors.FieldError{
				{Field: "isCompany", Message: "choose company before verifying KYB documents"},
			})
		}
		if r := w.companyDocuments(); !r.Valid {
			return apperrors.NewVerificationFailedError(DocumentCompany, r.FieldErrors())
		}
		return nil
	})
}

func (w *Wizard) checkBusiness(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	if w.business.IsCompany == nil {
		// The schema reports the missing choice.
		return r
	}
	if !*w.business.IsCompany {
		if w.requireBusiness {
			r.Add("isCompany", "business verification is required", "REQUIRED")
		}
		return r
	}
	return w.companyDocuments()
}

func (w *Wizard) companyDocuments() *validation.ValidationResult {
	r := validation.Ok()
	if !validation.ValidatePAN(w.business.CompanyPAN) {
		r.Add("companyPan", "must look like ABCDE1234F", "PATTERN")
	}
	if !validation.ValidateGSTIN(w.business.GSTIN) {
		r.Add("gstin", "must be a 15-character GSTIN", "PATTERN")
	}
	if !validation.ValidateCIN(w.business.CIN) {
		r.Add("cin", "must be a 21-character CIN", "PATTERN")
	}
	return r
}

// ==========================
// Bank
// ==========================

func (w *Wizard) Bank() models.BankDetails { return w.bank }

// SetBank replaces the bank form. Any earlier verification is cleared.
func (w *Wizard) SetBank(b models.BankDetails) error {
	if err := w.editable(); err != nil {
		return err
	}
	b.Verified = false
	w.bank = b
	return nil
}

// VerifyBank validates the account form and marks it verified.
func (w *Wizard) VerifyBank(ctx context.Context) error {
	return w.verify(ctx, DocumentBank, func() error {
		b := w.bank
		b.AccountNumber = validation.NormalizeDocument(b.AccountNumber)
		b.ConfirmAccountNumber = validation.NormalizeDocument(b.ConfirmAccountNumber)
		b.IFSC = validation.NormalizeDocument(b.IFSC)

		var fields []apperrors.FieldError
		if strings.TrimSpace(b.AccountHolder) == "" {
			fields = append(fields, apperrors.FieldError{Field: "accountHolder", Message: "is required"})
		}
		if !validation.ValidateAccountNumber(b.AccountNumber) {
			fields = append(fields, apperrors.FieldError{Field: "accountNumber", Message: "must be 9 to 18 digits"})
		}
		if b.ConfirmAccountNumber != b.AccountNumber {
			fields = append(fields, apperrors.FieldError{Field: "confirmAccountNumber", Message: "does not match the account number"})
		}
		if !validation.ValidateIFSC(b.IFSC) {
			fields = append(fields, apperrors.FieldError{Field: "ifsc", Message: "must look like HDFC0001234"})
		}
		if len(fields) > 0 {
			return apperrors.NewVerificationFailedError(DocumentBank, fields)
		}

		b.Verified = true
		w.bank = b
		return nil
	})
}

func (w *Wizard) checkBank(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	if !w.bank.Verified {
		r.Add("verified", "bank account must be verified", "NOT_VERIFIED")
	}
	return r
}

// ==========================
// Completion
// ==========================

// Complete finishes onboarding from the Bank step once the account is
// verified.
func (w *Wizard) Complete(ctx context.Context) error {
	if err := w.editable(); err != nil {
		return err
	}
	if key := w.Step(); key != StepBank {
		return apperrors.NewWrongStepError(StepBank, key)
	}
	if !w.bank.Verified {
		return apperrors.NewNotVerifiedError(DocumentBank)
	}
	if result := w.ctrl.Validate(ctx); !result.Valid {
		return apperrors.NewStepIncompleteError(StepBank, result.FieldErrors())
	}

	w.completedAt = time.Now()
	w.logger.Info("onboarding completed", map[string]interface{}{
		"company": w.business.IsCompany != nil && *w.business.IsCompany,
	})
	return nil
}

func (w *Wizard) Completed() bool { return !w.completedAt.IsZero() }

// Status is the badge shown for the account: verified once complete.
func (w *Wizard) Status() models.StatusVariant {
	if w.Completed() {
		return models.StatusVerified
	}
	return models.StatusPending
}

// Close disposes the wizard.
func (w *Wizard) Close() {
	if w.disposed {
		return
	}
	w.disposed = true
	metrics.WizardsActive.WithLabelValues(registry.OnboardingWizardID).Dec()
}

func (w *Wizard) editable() error {
	if w.disposed {
		return apperrors.NewDisposedError()
	}
	if w.Completed() {
		return apperrors.NewTerminalStepError(StepBank)
	}
	return nil
}

func (w *Wizard) verify(ctx context.Context, document string, fn func() error) error {
	if err := w.editable(); err != nil {
		return err
	}
	ctx, span := observability.StartSpan(ctx, "onboarding.verify", attribute.String("document", document))
	defer span.End()
	start := time.Now()

	err := fn()
	metrics.VerificationsTotal.WithLabelValues(document, metrics.ResultLabel(err)).Inc()
	w.obs.RecordOperation(ctx, "onboarding.verify."+document, metrics.ResultLabel(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		w.logger.Debug("verification rejected", map[string]interface{}{
			"document": document,
			"fields":   apperrors.FieldErrorsOf(err),
		})
		return err
	}
	w.logger.Info("document verified", map[string]interface{}{"document": document})
	return nil
}
