package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/escrow"
	"escrow-wizard/internal/models"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Encode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
}

var currencyLocales = map[string]language.Tag{
	"INR": language.MustParse("en-IN"),
}

// Amount formats a whole-unit amount with the currency's symbol and digit
// grouping, e.g. ₹61,500.
func Amount(currency string, amount int64) string {
	tag, ok := currencyLocales[currency]
	if !ok {
		tag = language.English
	}
	digits := message.NewPrinter(tag).Sprintf("%d", amount)
	if sym, ok := currencySymbols[currency]; ok {
		return sym + digits
	}
	return digits + " " + currency
}

// Steps renders the step indicator on one line.
func Steps(s Styles, views []models.StepView) string {
	parts := make([]string, len(views))
	for i, v := range views {
		switch v.State {
		case models.StepCompleted:
			parts[i] = s.Complete.Render("✓ " + v.Label)
		case models.StepCurrent:
			parts[i] = s.Current.Render(fmt.Sprintf("%d %s", v.Index+1, v.Label))
		default:
			parts[i] = s.Muted.Render(fmt.Sprintf("%d %s", v.Index+1, v.Label))
		}
	}
	return strings.Join(parts, s.Muted.Render(" ─ "))
}

// Review renders the Review step: service, milestones and the financial
// summary.
func Review(s Styles, r escrow.Review) string {
	rows := [][2]string{
		{"Service", r.Details.Title},
		{"Category", r.Details.Category},
		{"Provider", fmt.Sprintf("%s, %s", r.Details.Provider.Name, r.Details.Provider.Title)},
	}
	if r.Details.Deadline != "" {
		rows = append(rows, [2]string{"Deadline", r.Details.Deadline})
	}

	var milestones []string
	for i, m := range r.Milestones {
		line := fmt.Sprintf("%d. %s", i+1, m.Title)
		milestones = append(milestones, pair(s, line, Amount(r.Currency, m.Amount), 40))
		if m.Description != "" {
			milestones = append(milestones, s.Muted.Render("   "+m.Description))
		}
	}

	summary := []string{
		pair(s, "Milestone total", Amount(r.Currency, r.Summary.TotalAmount), 40),
		pair(s, "Platform fee ("+r.FeeRate+"%)", Amount(r.Currency, r.Summary.PlatformFee), 40),
		s.Total.Render(pairPlain("Total to fund", Amount(r.Currency, r.Summary.GrandTotal), 40)),
	}

	var details []string
	for _, row := range rows {
		details = append(details, s.Label.Render(fmt.Sprintf("%-9s", row[0]))+" "+s.Value.Render(row[1]))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Review"),
		s.Box.Render(strings.Join(details, "\n")),
		s.Title.Render("Milestones"),
		s.Box.Render(strings.Join(milestones, "\n")),
		s.Box.Render(strings.Join(summary, "\n")),
	)
}

// Summary renders a FinancialSummary on its own, as printed by `fees`.
func Summary(s Styles, currency string, fs models.FinancialSummary) string {
	return s.Box.Render(strings.Join([]string{
		pair(s, "Milestone total", Amount(currency, fs.TotalAmount), 32),
		pair(s, "Platform fee", Amount(currency, fs.PlatformFee), 32),
		s.Total.Render(pairPlain("Total to fund", Amount(currency, fs.GrandTotal), 32)),
	}, "\n"))
}

// Payment renders the payment state with its badge.
func Payment(s Styles, currency string, result models.PaymentResult, status models.PaymentStatus) string {
	switch status {
	case models.PaymentSucceeded:
		return lipgloss.JoinVertical(lipgloss.Left,
			Badge(status.Badge(), "Payment Successful"),
			pair(s, "Amount", Amount(currency, result.Amount), 32),
			pair(s, "Transaction ID", result.TransactionID, 32),
		)
	case models.PaymentProcessing:
		return Badge(status.Badge(), "Processing payment...")
	default:
		return Badge(status.Badge(), "Not funded")
	}
}

// FieldErrors lists the field messages carried by err, or err itself when
// it has none.
func FieldErrors(s Styles, err error) string {
	fields := apperrors.FieldErrorsOf(err)
	if len(fields) == 0 {
		return s.Error.Render(err.Error())
	}
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = s.Error.Render(fmt.Sprintf("• %s %s", f.Field, f.Message))
	}
	return strings.Join(lines, "\n")
}

// Encode writes v as json or yaml. Text output is the caller's job.
func Encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toPlain(v)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// toPlain round-trips through json so yaml keys follow the json tags.
func toPlain(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func pair(s Styles, label, value string, width int) string {
	return s.Label.Render(label) + strings.Repeat(" ", gap(label, value, width)) + s.Value.Render(value)
}

func pairPlain(label, value string, width int) string {
	return label + strings.Repeat(" ", gap(label, value, width)) + value
}

func gap(label, value string, width int) int {
	n := width - lipgloss.Width(label) - lipgloss.Width(value)
	if n < 1 {
		return 1
	}
	return n
}
