package registry

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "escrow-wizard/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	escrow, err := reg.Wizard(EscrowWizardID)
	require.NoError(t, err)
	require.Len(t, escrow.Steps, 4)
	assert.Equal(t, []string{"Service Details", "Milestones", "Review", "Fund Escrow"}, labels(escrow))
	assert.True(t, escrow.Steps[3].Terminal)

	onboarding, err := reg.Wizard(OnboardingWizardID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Identity", "Address", "Business", "Bank"}, labels(onboarding))

	step, ok := onboarding.Step("business")
	require.True(t, ok)
	assert.Equal(t, "KYB (Optional)", step.Description)

	_, ok = onboarding.Step("nope")
	assert.False(t, ok)
}

func TestWizard_Missing(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Wizard("marketplace")
	assert.ErrorIs(t, err, apperrors.ErrRegistryMissing)
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"version":"2","wizards":[{"id":"x","steps":[{"key":"a","label":"A"}]}]}`), 0o600))
	reg, err := LoadOrDefault(valid)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"no steps", `{"wizards":[{"id":"x","steps":[]}]}`},
		{"duplicate wizard", `{"wizards":[{"id":"x","steps":[{"key":"a"}]},{"id":"x","steps":[{"key":"a"}]}]}`},
		{"duplicate step", `{"wizards":[{"id":"x","steps":[{"key":"a"},{"key":"a"}]}]}`},
		{"terminal not last", `{"wizards":[{"id":"x","steps":[{"key":"a","terminal":true},{"key":"b"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			_, err := LoadRegistry(path)
			assert.Error(t, err)
		})
	}

	_, err = LoadRegistry(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func labels(d *WizardDefinition) []string {
	out := make([]string, len(d.Steps))
	for i, s := range d.Steps {
		out[i] = s.Label
	}
	return out
}

func TestSaveAndUpdateStep(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	require.NoError(t, reg.UpdateStep(EscrowWizardID, "review", "label", "Confirm"))
	assert.Error(t, reg.UpdateStep(EscrowWizardID, "review", "key", "x"))
	assert.Error(t, reg.UpdateStep(EscrowWizardID, "nope", "label", "x"))
	assert.Error(t, reg.UpdateStep("nope", "review", "label", "x"))

	path := filepath.Join(t.TempDir(), "nested", "wizards.json")
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	def, err := loaded.Wizard(EscrowWizardID)
	require.NoError(t, err)
	step, ok := def.Step("review")
	require.True(t, ok)
	assert.Equal(t, "Confirm", step.Label)
	assert.NotEmpty(t, loaded.LastUpdated)
}
