package wizard

import (
	"context"
	"testing"

	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/validation"
	"escrow-wizard/internal/models"
	"escrow-wizard/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

type gate struct {
	open bool
}

func (g *gate) check(context.Context) *validation.ValidationResult {
	r := validation.Ok()
	if !g.open {
		r.Add("title", "is required", "REQUIRED")
	}
	return r
}

func createTestController(t *testing.T, g *gate) *Controller {
	t.Helper()
	c, err := New("test", []Step{
		{Key: "details", Label: "Details", Check: g.check},
		{Key: "items", Label: "Items"},
		{Key: "review", Label: "Review"},
		{Key: "fund", Label: "Fund"},
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

// ==========================
// Navigation
// ==========================

func TestController_Advance(t *testing.T) {
	tests := []struct {
		name      string
		open      bool
		wantIndex int
		wantCode  apperrors.ErrorCode
	}{
		{name: "complete step advances", open: true, wantIndex: 1},
		{name: "incomplete step is rejected", open: false, wantIndex: 0, wantCode: apperrors.ErrCodeStepIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := createTestController(t, &gate{open: tt.open})
			err := c.Advance(context.Background())
			assert.Equal(t, tt.wantIndex, c.CurrentIndex())
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			fields := apperrors.FieldErrorsOf(err)
			require.Len(t, fields, 1)
			assert.Equal(t, "title", fields[0].Field)
		})
	}
}

func TestController_AdvanceAtTerminal(t *testing.T) {
	c := createTestController(t, &gate{open: true})
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Advance(context.Background()))
	}
	assert.True(t, c.IsTerminal())

	err := c.Advance(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTerminalStep)
	assert.Equal(t, 3, c.CurrentIndex())
}

func TestController_Retreat(t *testing.T) {
	c := createTestController(t, &gate{open: true})

	assert.False(t, c.Retreat(), "retreat at the first step is a no-op")
	assert.Equal(t, 0, c.CurrentIndex())

	require.NoError(t, c.Advance(context.Background()))
	require.NoError(t, c.Advance(context.Background()))
	assert.True(t, c.Retreat())
	assert.Equal(t, 1, c.CurrentIndex())
}

func TestController_RetreatHook(t *testing.T) {
	consumed := true
	c, err := New("hooked", []Step{
		{Key: "a"},
		{Key: "b", OnRetreat: func() bool {
			if consumed {
				consumed = false
				return true
			}
			return false
		}},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)
	require.NoError(t, c.Advance(context.Background()))

	assert.False(t, c.Retreat())
	assert.Equal(t, 1, c.CurrentIndex())

	assert.True(t, c.Retreat())
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestController_NavigationSequence(t *testing.T) {
	g := &gate{}
	c := createTestController(t, g)
	ctx := context.Background()

	assert.Error(t, c.Advance(ctx))
	g.open = true
	assert.NoError(t, c.Advance(ctx))
	assert.NoError(t, c.Advance(ctx))
	c.Retreat()
	g.open = false
	c.Retreat()
	assert.Error(t, c.Advance(ctx))

	assert.Equal(t, 0, c.CurrentIndex())
}

// ==========================
// Progress
// ==========================

func TestController_Progress(t *testing.T) {
	c := createTestController(t, &gate{open: true})
	require.NoError(t, c.Advance(context.Background()))
	require.NoError(t, c.Advance(context.Background()))

	views := c.Progress()
	require.Len(t, views, 4)
	assert.Equal(t, models.StepCompleted, views[0].State)
	assert.Equal(t, models.StepCompleted, views[1].State)
	assert.Equal(t, models.StepCurrent, views[2].State)
	assert.Equal(t, models.StepUpcoming, views[3].State)
	assert.Equal(t, "Review", views[2].Label)
}

// ==========================
// Construction
// ==========================

func TestNew_RequiresSteps(t *testing.T) {
	_, err := New("empty", nil, logger.NewNoOpLogger())
	assert.Error(t, err)
}

func TestFromDefinition(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)
	def, err := reg.Wizard(registry.EscrowWizardID)
	require.NoError(t, err)

	schema, err := validation.CompileSchema(def.Steps[0].InputSchema)
	require.NoError(t, err)

	doc := map[string]interface{}{"title": "", "category": "Consulting"}
	c, err := FromDefinition(def, map[string]CheckFunc{
		"service-details": SchemaCheck(schema, func() interface{} { return doc }),
	}, nil, logger.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "Service Details", c.Current().Label)

	err = c.Advance(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStepIncomplete)

	doc["title"] = "Website redesign"
	assert.NoError(t, c.Advance(context.Background()))
	assert.Equal(t, "milestones", c.Current().Key)
}

func TestChain(t *testing.T) {
	open := &gate{open: true}
	closed := &gate{}

	assert.True(t, Chain(open.check, nil)(context.Background()).Valid)
	r := Chain(open.check, closed.check, closed.check)(context.Background())
	assert.False(t, r.Valid)
	assert.Len(t, r.Errors, 1, "a field is reported once")
}
