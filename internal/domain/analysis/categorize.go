package analysis

import (
	"math"

	"github.com/costreports/costreports/internal/domain/entity"
)

// CategorizationPolicy decides when a cost change counts as "unchanged".
// Report types pin whichever preset they want; the arithmetic around it is
// shared.
type CategorizationPolicy int

const (
	// PolicyThreshold treats any change whose absolute percentage stays
	// under the minimal-change threshold as unchanged.
	PolicyThreshold CategorizationPolicy = iota
	// PolicyExactZero additionally treats an exactly-zero raw change as
	// unchanged even when the percentage rule would not fire (it never
	// does for zero change, but the preset also guards first==last==0
	// bookkeeping paths explicitly).
	PolicyExactZero
)

// Categorizer computes percent change between two boundary costs and
// assigns a change category under a threshold policy.
type Categorizer struct {
	// ThresholdPct is the minimal-change threshold in percent (default 5).
	ThresholdPct float64
	// HighPct is the severity threshold for increases (default 20).
	HighPct float64
	Policy  CategorizationPolicy
}

// NewCategorizer returns a categorizer with the default 5%/20% thresholds
// and the given policy.
func NewCategorizer(policy CategorizationPolicy) *Categorizer {
	return &Categorizer{ThresholdPct: 5, HighPct: 20, Policy: policy}
}

// PercentChange computes the relative change between two costs.
// A service appearing from zero counts as a 100% increase; two zero costs
// count as no change. Never divides by zero.
func (c *Categorizer) PercentChange(firstCost, lastCost float64) float64 {
	switch {
	case firstCost > 0:
		return (lastCost - firstCost) / firstCost * 100
	case lastCost > 0:
		return 100
	}
	return 0
}

// Categorize returns the percent change and category for a first/last
// month cost pair. Callers with fewer than two months of data must not
// call this; they mark the service unchanged with an insufficient-data
// reason instead.
func (c *Categorizer) Categorize(firstCost, lastCost float64) (float64, entity.ChangeCategory) {
	pct := c.PercentChange(firstCost, lastCost)
	change := lastCost - firstCost

	unchanged := math.Abs(pct) < c.ThresholdPct
	if c.Policy == PolicyExactZero {
		unchanged = unchanged || change == 0
	}

	switch {
	case unchanged:
		return pct, entity.CategoryUnchanged
	case change > 0:
		return pct, entity.CategoryIncreased
	}
	return pct, entity.CategoryDecreased
}

// HighSeverity reports whether an increase crosses the high-change
// threshold. Affects presentation emphasis only.
func (c *Categorizer) HighSeverity(pct float64) bool {
	return pct > c.HighPct
}
