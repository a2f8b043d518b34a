// Package fees derives the platform fee and grand total from a milestone
// total.
package fees

import (
	"fmt"
	"math"

	"escrow-wizard/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultRate is the platform fee rate, 2.5%.
var DefaultRate = decimal.RequireFromString("0.025")

// Calculator applies a fixed fee rate.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator parses rate, e.g. "0.025". The rate must lie in [0, 1].
func NewCalculator(rate string) (*Calculator, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid fee rate %q: %w", rate, err)
	}
	if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("fee rate %s out of range [0, 1]", r)
	}
	return &Calculator{rate: r}, nil
}

func (c *Calculator) Rate() decimal.Decimal { return c.rate }

// Fee is total * rate rounded half away from zero to a whole unit.
func (c *Calculator) Fee(total int64) int64 {
	return decimal.NewFromInt(total).Mul(c.rate).Round(0).IntPart()
}

// Summary returns total, fee and their sum. A negative total is treated as
// 0 and the grand total saturates at math.MaxInt64.
func (c *Calculator) Summary(total int64) models.FinancialSummary {
	if total < 0 {
		total = 0
	}
	fee := c.Fee(total)
	grand := int64(math.MaxInt64)
	if total <= math.MaxInt64-fee {
		grand = total + fee
	}
	return models.FinancialSummary{
		TotalAmount: total,
		PlatformFee: fee,
		GrandTotal:  grand,
	}
}

var defaultCalculator = &Calculator{rate: DefaultRate}

// ComputeSummary uses the default 2.5% rate.
func ComputeSummary(total int64) models.FinancialSummary {
	return defaultCalculator.Summary(total)
}
