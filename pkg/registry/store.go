package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Save validates r and writes it to path as indented JSON, stamping
// LastUpdated.
func (r *WizardRegistry) Save(path string) error {
	if err := r.validate(); err != nil {
		return err
	}
	r.LastUpdated = time.Now().UTC().Format(time.DateOnly)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// UpdateStep sets a display field of one step. Only label and description
// are editable; keys and schemas change through the file itself.
func (r *WizardRegistry) UpdateStep(wizardID, stepKey, field, value string) error {
	def, err := r.Wizard(wizardID)
	if err != nil {
		return err
	}
	step, ok := def.Step(stepKey)
	if !ok {
		return fmt.Errorf("wizard %q has no step %q", wizardID, stepKey)
	}
	switch field {
	case "label":
		step.Label = value
	case "description":
		step.Description = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}
