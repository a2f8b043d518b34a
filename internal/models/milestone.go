// internal/models/milestone.go
package models

// Milestone is a named, priced unit of deliverable work within an escrow
// agreement. Amounts are whole currency units.
type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// MilestoneField names an editable milestone field.
type MilestoneField string

const (
	FieldTitle       MilestoneField = "title"
	FieldAmount      MilestoneField = "amount"
	FieldDescription MilestoneField = "description"
)

// Valid reports whether f is one of the editable fields.
func (f MilestoneField) Valid() bool {
	switch f {
	case FieldTitle, FieldAmount, FieldDescription:
		return true
	}
	return false
}

// FinancialSummary is derived from the milestone total and never stored.
type FinancialSummary struct {
	TotalAmount int64 `json:"totalAmount"`
	PlatformFee int64 `json:"platformFee"`
	GrandTotal  int64 `json:"grandTotal"`
}
