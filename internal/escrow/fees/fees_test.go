package fees

import (
	"math"
	"testing"

	"escrow-wizard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  models.FinancialSummary
	}{
		{name: "zero", total: 0, want: models.FinancialSummary{}},
		{name: "single seed milestone", total: 25000, want: models.FinancialSummary{TotalAmount: 25000, PlatformFee: 625, GrandTotal: 25625}},
		{name: "two milestones", total: 60000, want: models.FinancialSummary{TotalAmount: 60000, PlatformFee: 1500, GrandTotal: 61500}},
		{name: "half rounds up", total: 60, want: models.FinancialSummary{TotalAmount: 60, PlatformFee: 2, GrandTotal: 62}},
		{name: "below half rounds down", total: 19, want: models.FinancialSummary{TotalAmount: 19, PlatformFee: 0, GrandTotal: 19}},
		{name: "exactly half of one", total: 20, want: models.FinancialSummary{TotalAmount: 20, PlatformFee: 1, GrandTotal: 21}},
		{name: "above half", total: 101, want: models.FinancialSummary{TotalAmount: 101, PlatformFee: 3, GrandTotal: 104}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSummary(tt.total)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.TotalAmount+got.PlatformFee, got.GrandTotal)
		})
	}
}

func TestNewCalculator(t *testing.T) {
	c, err := NewCalculator("0.05")
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.Fee(1000))
	assert.Equal(t, "0.05", c.Rate().String())

	c, err = NewCalculator("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Fee(1_000_000))

	for _, bad := range []string{"", "abc", "-0.1", "1.5"} {
		_, err := NewCalculator(bad)
		assert.Error(t, err, bad)
	}
}

func TestFee_LargeTotalsStayExact(t *testing.T) {
	// 2.5% of 123456789 is 3086419.725
	assert.Equal(t, int64(3086420), ComputeSummary(123456789).PlatformFee)
}

func TestSummary_NeverWraps(t *testing.T) {
	s := ComputeSummary(math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), s.TotalAmount)
	assert.Positive(t, s.PlatformFee)
	assert.Equal(t, int64(math.MaxInt64), s.GrandTotal)

	assert.Equal(t, models.FinancialSummary{}, ComputeSummary(-2))

	full, err := NewCalculator("1")
	require.NoError(t, err)
	// The largest total the Milestones step accepts, at the highest rate.
	assert.Equal(t, int64(2_000_000_000_000_000), full.Summary(1_000_000_000_000_000).GrandTotal)
}
