// internal/models/status.go
package models

// StatusVariant is the closed set of status badge variants.
type StatusVariant string

const (
	StatusPending   StatusVariant = "pending"
	StatusVerified  StatusVariant = "verified"
	StatusEscrow    StatusVariant = "escrow"
	StatusCompleted StatusVariant = "completed"
	StatusDisputed  StatusVariant = "disputed"
	StatusDefault   StatusVariant = "default"
)

// Icon names the glyph rendered inside a status badge.
type Icon string

const (
	IconClock         Icon = "clock"
	IconCheck         Icon = "check"
	IconLock          Icon = "lock"
	IconAlertTriangle Icon = "alert-triangle"
	IconShield        Icon = "shield"
)

// Icon returns the badge icon for v. Unknown variants render as default.
func (v StatusVariant) Icon() Icon {
	switch v {
	case StatusPending:
		return IconClock
	case StatusVerified, StatusCompleted:
		return IconCheck
	case StatusEscrow:
		return IconLock
	case StatusDisputed:
		return IconAlertTriangle
	default:
		return IconShield
	}
}

// Normalize maps unknown values to StatusDefault.
func (v StatusVariant) Normalize() StatusVariant {
	switch v {
	case StatusPending, StatusVerified, StatusEscrow, StatusCompleted, StatusDisputed:
		return v
	}
	return StatusDefault
}
