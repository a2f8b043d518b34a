// Package wizard sequences the steps of a multi-step form and gates forward
// navigation on each step's completion check.
package wizard

import (
	"context"
	"fmt"

	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/metrics"
	"escrow-wizard/internal/common/observability"
	"escrow-wizard/internal/common/validation"
	"escrow-wizard/internal/models"
	"escrow-wizard/pkg/registry"

	"go.opentelemetry.io/otel/attribute"
)

// CheckFunc is a step's completion predicate.
type CheckFunc func(ctx context.Context) *validation.ValidationResult

// Step is one page of a wizard.
type Step struct {
	Key         string
	Label       string
	Description string
	// Check gates Advance; nil means the step is always complete.
	Check CheckFunc
	// OnRetreat may consume a retreat locally. Returning true keeps the
	// wizard on this step.
	OnRetreat func() bool
}

// Controller owns the current step index of one wizard instance. It is not
// safe for concurrent use; callers serialize user events.
type Controller struct {
	name   string
	steps  []Step
	index  int
	logger logger.Logger
}

func New(name string, steps []Step, log logger.Logger) (*Controller, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("wizard %s: at least one step required", name)
	}
	return &Controller{
		name:   name,
		steps:  steps,
		logger: log.WithFields(map[string]interface{}{"wizard": name}),
	}, nil
}

// FromDefinition builds a controller from a registry definition. checks and
// retreats are keyed by step key; steps without a check are always complete.
func FromDefinition(def *registry.WizardDefinition, checks map[string]CheckFunc, retreats map[string]func() bool, log logger.Logger) (*Controller, error) {
	steps := make([]Step, 0, len(def.Steps))
	for _, sd := range def.Steps {
		steps = append(steps, Step{
			Key:         sd.Key,
			Label:       sd.Label,
			Description: sd.Description,
			Check:       checks[sd.Key],
			OnRetreat:   retreats[sd.Key],
		})
	}
	return New(def.ID, steps, log)
}

// SchemaCheck validates the document returned by doc against schema.
func SchemaCheck(schema *validation.Schema, doc func() interface{}) CheckFunc {
	return func(context.Context) *validation.ValidationResult {
		return schema.Validate(doc())
	}
}

// Chain runs every check and merges their results.
func Chain(checks ...CheckFunc) CheckFunc {
	return func(ctx context.Context) *validation.ValidationResult {
		result := validation.Ok()
		for _, c := range checks {
			if c == nil {
				continue
			}
			result.Merge(c(ctx))
		}
		return result
	}
}

func (c *Controller) Name() string      { return c.name }
func (c *Controller) CurrentIndex() int { return c.index }
func (c *Controller) Len() int          { return len(c.steps) }
func (c *Controller) Current() Step     { return c.steps[c.index] }

// IsTerminal reports whether the current step is the last one.
func (c *Controller) IsTerminal() bool {
	return c.index == len(c.steps)-1
}

// Validate runs the current step's check without moving.
func (c *Controller) Validate(ctx context.Context) *validation.ValidationResult {
	check := c.steps[c.index].Check
	if check == nil {
		return validation.Ok()
	}
	return check(ctx)
}

// Advance moves to the next step if the current one is complete. A rejected
// advance leaves the index unchanged and returns the field errors to show.
func (c *Controller) Advance(ctx context.Context) error {
	step := c.steps[c.index]
	ctx, span := observability.StartSpan(ctx, c.name+".advance",
		attribute.String("wizard", c.name),
		attribute.String("step", step.Key),
	)
	defer span.End()

	if c.IsTerminal() {
		return apperrors.NewTerminalStepError(step.Key)
	}

	if result := c.Validate(ctx); !result.Valid {
		metrics.WizardAdvanceRejected.WithLabelValues(c.name, step.Key).Inc()
		span.SetAttributes(attribute.Int("field_errors", len(result.Errors)))
		c.logger.Debug("advance rejected", map[string]interface{}{
			"step":   step.Key,
			"errors": result.GetErrorMessages(),
		})
		return apperrors.NewStepIncompleteError(step.Key, result.FieldErrors())
	}

	c.index++
	metrics.WizardStepTransitions.WithLabelValues(c.name, "forward").Inc()
	c.logger.Info("step advanced", map[string]interface{}{
		"from": step.Key,
		"to":   c.steps[c.index].Key,
	})
	return nil
}

// Retreat moves to the previous step. It is a no-op at the first step and
// reports whether the index changed.
func (c *Controller) Retreat() bool {
	step := c.steps[c.index]
	if step.OnRetreat != nil && step.OnRetreat() {
		c.logger.Debug("retreat handled by step", map[string]interface{}{"step": step.Key})
		return false
	}
	if c.index == 0 {
		return false
	}

	c.index--
	metrics.WizardStepTransitions.WithLabelValues(c.name, "backward").Inc()
	c.logger.Info("step retreated", map[string]interface{}{
		"from": step.Key,
		"to":   c.steps[c.index].Key,
	})
	return true
}

// Progress returns the step indicator model.
func (c *Controller) Progress() []models.StepView {
	out := make([]models.StepView, len(c.steps))
	for i, s := range c.steps {
		state := models.StepUpcoming
		switch {
		case i < c.index:
			state = models.StepCompleted
		case i == c.index:
			state = models.StepCurrent
		}
		out[i] = models.StepView{
			Index:       i,
			Key:         s.Key,
			Label:       s.Label,
			Description: s.Description,
			State:       state,
		}
	}
	return out
}
