// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	apperrors "escrow-wizard/internal/common/errors"
)

// Wizard identifiers in the default registry.
const (
	EscrowWizardID     = "escrow-create"
	OnboardingWizardID = "onboarding"
)

//go:embed wizards.json
var defaultRegistry []byte

func LoadRegistry(path string) (*WizardRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Default returns the registry compiled into the binary.
func Default() (*WizardRegistry, error) {
	return parse(defaultRegistry)
}

// LoadOrDefault loads path when it is set and falls back to the embedded
// registry otherwise.
func LoadOrDefault(path string) (*WizardRegistry, error) {
	if path == "" {
		return Default()
	}
	return LoadRegistry(path)
}

func parse(data []byte) (*WizardRegistry, error) {
	var reg WizardRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse wizard registry: %w", err)
	}
	if err := reg.validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *WizardRegistry) validate() error {
	seen := make(map[string]bool, len(r.Wizards))
	for _, w := range r.Wizards {
		if w.ID == "" {
			return fmt.Errorf("wizard registry: wizard without id")
		}
		if seen[w.ID] {
			return fmt.Errorf("wizard registry: duplicate wizard %q", w.ID)
		}
		seen[w.ID] = true
		if len(w.Steps) == 0 {
			return fmt.Errorf("wizard registry: wizard %q has no steps", w.ID)
		}
		keys := make(map[string]bool, len(w.Steps))
		for i, s := range w.Steps {
			if s.Key == "" || keys[s.Key] {
				return fmt.Errorf("wizard registry: wizard %q step %d has a missing or duplicate key", w.ID, i)
			}
			keys[s.Key] = true
			if s.Terminal && i != len(w.Steps)-1 {
				return fmt.Errorf("wizard registry: wizard %q terminal step %q is not last", w.ID, s.Key)
			}
		}
	}
	return nil
}

// Wizard returns the definition with the given id.
func (r *WizardRegistry) Wizard(id string) (*WizardDefinition, error) {
	for i := range r.Wizards {
		if r.Wizards[i].ID == id {
			return &r.Wizards[i], nil
		}
	}
	return nil, apperrors.NewRegistryMissingError(id)
}

// Step returns the step with the given key.
func (d *WizardDefinition) Step(key string) (*StepDefinition, bool) {
	for i := range d.Steps {
		if d.Steps[i].Key == key {
			return &d.Steps[i], true
		}
	}
	return nil, false
}
