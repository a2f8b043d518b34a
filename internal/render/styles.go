// Package render formats wizard state for the terminal: step indicator,
// status badges, the review summary and structured json/yaml output.
package render

import (
	"escrow-wizard/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#101F38")
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6B7280")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
	Destructive = lipgloss.Color("#E53935")
)

// Styles groups the lipgloss styles used by the renderers.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Total    lipgloss.Style
	Box      lipgloss.Style
	Error    lipgloss.Style
	Current  lipgloss.Style
	Complete lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Label:    lipgloss.NewStyle().Foreground(Muted),
		Value:    lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(Muted),
		Total:    lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Error:    lipgloss.NewStyle().Foreground(Destructive),
		Current:  lipgloss.NewStyle().Bold(true).Foreground(Info),
		Complete: lipgloss.NewStyle().Foreground(Accent),
	}
}

var badgeColors = map[models.StatusVariant]lipgloss.Color{
	models.StatusPending:   Warning,
	models.StatusVerified:  Accent,
	models.StatusEscrow:    Info,
	models.StatusCompleted: Accent,
	models.StatusDisputed:  Destructive,
	models.StatusDefault:   Muted,
}

var iconGlyphs = map[models.Icon]string{
	models.IconClock:         "◷",
	models.IconCheck:         "✓",
	models.IconLock:          "⊠",
	models.IconAlertTriangle: "⚠",
	models.IconShield:        "⛨",
}

// Badge renders a status as "<icon> <label>". Unknown statuses render as
// the default badge.
func Badge(status models.StatusVariant, label string) string {
	v := status.Normalize()
	if label == "" {
		label = string(v)
	}
	return lipgloss.NewStyle().
		Foreground(badgeColors[v]).
		Render(iconGlyphs[v.Icon()] + " " + label)
}
