package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("m%d", n)
	})
}

func createTestLedger(t *testing.T, seed ...models.Milestone) *Ledger {
	t.Helper()
	return New(logger.NewTestLogger(t), seed, sequentialIDs())
}

// ==========================
// Construction
// ==========================

func TestNew(t *testing.T) {
	t.Run("empty seed yields one blank milestone", func(t *testing.T) {
		l := createTestLedger(t)
		require.Equal(t, 1, l.Len())
		assert.Equal(t, models.Milestone{ID: "m1"}, l.Milestones()[0])
	})

	t.Run("seed ids are kept and missing or duplicate ids filled", func(t *testing.T) {
		l := createTestLedger(t,
			models.Milestone{ID: "1", Title: "Initial Design", Amount: 25000},
			models.Milestone{ID: "1", Title: "Copy"},
			models.Milestone{Title: "No id", Amount: -5},
		)
		ms := l.Milestones()
		require.Len(t, ms, 3)
		assert.Equal(t, "1", ms[0].ID)
		assert.Equal(t, "m1", ms[1].ID)
		assert.Equal(t, "m2", ms[2].ID)
		assert.Equal(t, int64(0), ms[2].Amount)
	})

	t.Run("default generator produces unique ids", func(t *testing.T) {
		l := New(logger.NewNoOpLogger(), nil)
		seen := map[string]bool{l.Milestones()[0].ID: true}
		for i := 0; i < 50; i++ {
			m := l.Add()
			assert.False(t, seen[m.ID])
			seen[m.ID] = true
		}
	})
}

// ==========================
// Add / Remove
// ==========================

func TestLedger_Add(t *testing.T) {
	l := createTestLedger(t, models.Milestone{ID: "1", Title: "Initial Design", Amount: 25000})

	m := l.Add()
	assert.Equal(t, models.Milestone{ID: "m1"}, m)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "m1", l.Milestones()[1].ID, "new milestones go to the end")
	assert.Equal(t, int64(25000), l.Total())
}

func TestLedger_Remove(t *testing.T) {
	tests := []struct {
		name     string
		seed     []models.Milestone
		remove   string
		wantErr  error
		wantMsg  string
		wantLeft []string
	}{
		{
			name:     "removes a middle milestone",
			seed:     []models.Milestone{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			remove:   "b",
			wantLeft: []string{"a", "c"},
		},
		{
			name:     "rejects removing the only milestone",
			seed:     []models.Milestone{{ID: "a", Title: "Only", Amount: 100}},
			remove:   "a",
			wantErr:  apperrors.ErrMilestoneRequired,
			wantMsg:  "at least one milestone required",
			wantLeft: []string{"a"},
		},
		{
			name:     "unknown id",
			seed:     []models.Milestone{{ID: "a"}, {ID: "b"}},
			remove:   "zzz",
			wantErr:  apperrors.ErrMilestoneNotFound,
			wantLeft: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := createTestLedger(t, tt.seed...)
			err := l.Remove(tt.remove)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					se, ok := apperrors.AsStandard(err)
					require.True(t, ok)
					assert.Equal(t, tt.wantMsg, se.Message)
				}
			} else {
				assert.NoError(t, err)
			}

			var ids []string
			for _, m := range l.Milestones() {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantLeft, ids)
		})
	}
}

func TestLedger_AddThenRemoveSequence(t *testing.T) {
	l := createTestLedger(t, models.Milestone{ID: "1", Title: "Initial Design", Amount: 25000})
	added := l.Add()

	require.NoError(t, l.Remove("1"))
	assert.ErrorIs(t, l.Remove(added.ID), apperrors.ErrMilestoneRequired)
	assert.Equal(t, 1, l.Len())
}

// ==========================
// Update
// ==========================

func TestLedger_Update(t *testing.T) {
	l := createTestLedger(t, models.Milestone{ID: "1", Title: "Initial Design", Amount: 25000})

	require.NoError(t, l.Update("1", models.FieldTitle, "Wireframes"))
	require.NoError(t, l.Update("1", models.FieldDescription, "Low fidelity"))
	require.NoError(t, l.Update("1", models.FieldAmount, "30000"))

	m, ok := l.Get("1")
	require.True(t, ok)
	assert.Equal(t, models.Milestone{ID: "1", Title: "Wireframes", Amount: 30000, Description: "Low fidelity"}, m)

	assert.ErrorIs(t, l.Update("nope", models.FieldTitle, "x"), apperrors.ErrMilestoneNotFound)
	assert.ErrorIs(t, l.Update("1", models.MilestoneField("price"), 1), apperrors.ErrInvalidField)

	m, _ = l.Get("1")
	assert.Equal(t, "Wireframes", m.Title, "rejected updates change nothing")
}

func TestLedger_Total(t *testing.T) {
	l := createTestLedger(t, models.Milestone{ID: "1", Title: "Initial Design", Amount: 25000})
	second := l.Add()
	require.NoError(t, l.Update(second.ID, models.FieldTitle, "Build"))
	require.NoError(t, l.Update(second.ID, models.FieldAmount, 35000))

	assert.Equal(t, int64(60000), l.Total())

	require.NoError(t, l.Update(second.ID, models.FieldAmount, "abc"))
	assert.Equal(t, int64(25000), l.Total())
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
	}{
		{in: 1500, want: 1500},
		{in: int64(42), want: 42},
		{in: int32(7), want: 7},
		{in: uint64(math.MaxUint64), want: MaxAmount},
		{in: 1e30, want: MaxAmount},
		{in: 99.9, want: 99},
		{in: math.NaN(), want: 0},
		{in: json.Number("250"), want: 250},
		{in: "1500", want: 1500},
		{in: "  1500abc", want: 1500},
		{in: "+12", want: 12},
		{in: "abc", want: 0},
		{in: "", want: 0},
		{in: "-", want: 0},
		{in: "-300", want: 0},
		{in: -5, want: 0},
		{in: "99999999999999999999", want: MaxAmount},
		{in: "9223372036854775807", want: MaxAmount},
		{in: MaxAmount, want: MaxAmount},
		{in: nil, want: 0},
		{in: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T(%v)", tt.in, tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceAmount(tt.in))
		})
	}
}

func TestLedger_TotalSaturates(t *testing.T) {
	l := createTestLedger(t, models.Milestone{ID: "1", Title: "A", Amount: 1})
	for i := 0; i < 3; i++ {
		m := l.Add()
		require.NoError(t, l.Update(m.ID, models.FieldAmount, "9223372036854775807"))
	}
	assert.Equal(t, 3*MaxAmount+1, l.Total())

	l = createTestLedger(t,
		models.Milestone{ID: "1", Title: "A", Amount: math.MaxInt64},
		models.Milestone{ID: "2", Title: "B", Amount: math.MaxInt64},
	)
	assert.Equal(t, 2*MaxAmount, l.Total(), "seeded amounts are clamped too")

	for int64(l.Len()) <= math.MaxInt64/MaxAmount {
		m := l.Add()
		require.NoError(t, l.Update(m.ID, models.FieldAmount, MaxAmount))
	}
	assert.Equal(t, int64(math.MaxInt64), l.Total())
}

func TestLedger_MilestonesIsACopy(t *testing.T) {
	l := createTestLedger(t, models.Milestone{ID: "1", Title: "Initial Design", Amount: 25000})
	ms := l.Milestones()
	ms[0].Amount = 1
	assert.Equal(t, int64(25000), l.Total())
}
