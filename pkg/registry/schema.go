// pkg/registry/schema.go
package registry

// WizardRegistry describes every wizard the application can run.
type WizardRegistry struct {
	Version     string             `json:"version"`
	LastUpdated string             `json:"lastUpdated"`
	Wizards     []WizardDefinition `json:"wizards"`
}

type WizardDefinition struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"displayName"`
	Description string           `json:"description"`
	Steps       []StepDefinition `json:"steps"`
	Tags        []string         `json:"tags"`
}

// StepDefinition is one wizard step. InputSchema is a JSON Schema for the
// step's form data.
type StepDefinition struct {
	Key         string                 `json:"key"`
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Terminal    bool                   `json:"terminal,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}
