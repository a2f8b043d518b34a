// internal/models/step.go
package models

// StepState is how the step indicator renders a step.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

// StepView is one entry of the step indicator.
type StepView struct {
	Index       int       `json:"index"`
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	State       StepState `json:"state"`
}
