// Package ledger holds the ordered list of milestones of an escrow draft.
package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/metrics"
	"escrow-wizard/internal/models"

	"github.com/google/uuid"
)

// MaxAmount caps one milestone amount. Totals above it are rejected on the
// Milestones step, which keeps total plus a fee of rate <= 1 within int64.
const MaxAmount int64 = 1_000_000_000_000_000

// Ledger is an ordered, never-empty milestone list. Insertion order is
// display order.
type Ledger struct {
	items  []models.Milestone
	newID  func() string
	logger logger.Logger
}

type Option func(*Ledger)

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// New builds a ledger from seed. Seeds without an id get one and amounts
// are clamped like form input; an empty seed list yields a single blank
// milestone.
func New(log logger.Logger, seed []models.Milestone, opts ...Option) *Ledger {
	l := &Ledger{
		newID:  uuid.NewString,
		logger: log,
	}
	for _, opt := range opts {
		opt(l)
	}

	seen := make(map[string]bool, len(seed))
	for _, m := range seed {
		if m.ID == "" || seen[m.ID] {
			m.ID = l.newID()
		}
		m.Amount = CoerceAmount(m.Amount)
		seen[m.ID] = true
		l.items = append(l.items, m)
	}
	if len(l.items) == 0 {
		l.items = append(l.items, models.Milestone{ID: l.newID()})
	}
	return l
}

// Add appends a blank milestone and returns it.
func (l *Ledger) Add() models.Milestone {
	m := models.Milestone{ID: l.newID()}
	l.items = append(l.items, m)

	metrics.MilestoneOperations.WithLabelValues("add", metrics.ResultOK).Inc()
	l.logger.Debug("milestone added", map[string]interface{}{
		"milestoneId": m.ID,
		"count":       len(l.items),
	})
	return m
}

// Remove deletes the milestone with id. Removing the only milestone is
// rejected and leaves the ledger unchanged.
func (l *Ledger) Remove(id string) error {
	idx := l.indexOf(id)
	var err error
	switch {
	case idx < 0:
		err = apperrors.NewMilestoneNotFoundError(id)
	case len(l.items) == 1:
		err = apperrors.NewMilestoneRequiredError(id)
	default:
		l.items = append(l.items[:idx], l.items[idx+1:]...)
	}

	metrics.MilestoneOperations.WithLabelValues("remove", metrics.ResultLabel(err)).Inc()
	if err != nil {
		l.logger.Debug("milestone removal rejected", map[string]interface{}{
			"milestoneId": id,
			"error":       err,
		})
		return err
	}
	l.logger.Debug("milestone removed", map[string]interface{}{
		"milestoneId": id,
		"count":       len(l.items),
	})
	return nil
}

// Update sets one field of the milestone with id. Amount values are coerced
// with CoerceAmount; title and description take the value's string form.
func (l *Ledger) Update(id string, field models.MilestoneField, value interface{}) error {
	err := l.update(id, field, value)
	metrics.MilestoneOperations.WithLabelValues("update", metrics.ResultLabel(err)).Inc()
	return err
}

func (l *Ledger) update(id string, field models.MilestoneField, value interface{}) error {
	if !field.Valid() {
		return apperrors.NewInvalidFieldError(string(field))
	}
	idx := l.indexOf(id)
	if idx < 0 {
		return apperrors.NewMilestoneNotFoundError(id)
	}

	m := &l.items[idx]
	switch field {
	case models.FieldTitle:
		m.Title = stringOf(value)
	case models.FieldDescription:
		m.Description = stringOf(value)
	case models.FieldAmount:
		m.Amount = CoerceAmount(value)
	}
	return nil
}

// Total is the sum of all milestone amounts, saturating at math.MaxInt64.
func (l *Ledger) Total() int64 {
	var total int64
	for _, m := range l.items {
		if total > math.MaxInt64-m.Amount {
			return math.MaxInt64
		}
		total += m.Amount
	}
	return total
}

// Milestones returns a copy of the list in display order.
func (l *Ledger) Milestones() []models.Milestone {
	out := make([]models.Milestone, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int { return len(l.items) }

func (l *Ledger) Get(id string) (models.Milestone, bool) {
	if idx := l.indexOf(id); idx >= 0 {
		return l.items[idx], true
	}
	return models.Milestone{}, false
}

func (l *Ledger) indexOf(id string) int {
	for i, m := range l.items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func stringOf(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return strings.Trim(string(b), `"`)
	}
}

// CoerceAmount converts raw form input into a whole amount in [0, MaxAmount].
// Strings contribute their leading integer ("1500abc" is 1500); anything
// non-numeric becomes 0.
func CoerceAmount(v interface{}) int64 {
	var n int64
	switch a := v.(type) {
	case int:
		n = int64(a)
	case int32:
		n = int64(a)
	case int64:
		n = a
	case uint:
		n = clampUint(uint64(a))
	case uint64:
		n = clampUint(a)
	case float32:
		n = truncFloat(float64(a))
	case float64:
		n = truncFloat(a)
	case json.Number:
		n = leadingInt(a.String())
	case string:
		n = leadingInt(a)
	}
	switch {
	case n < 0:
		return 0
	case n > MaxAmount:
		return MaxAmount
	}
	return n
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func truncFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func leadingInt(s string) int64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	// ParseInt saturates on overflow, which is the value we want.
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return n
}
