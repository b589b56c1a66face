package entity

// ChangeCategory classifies how a service's cost moved between the first
// and last month of the comparison window.
type ChangeCategory string

const (
	CategoryIncreased ChangeCategory = "increased"
	CategoryDecreased ChangeCategory = "decreased"
	CategoryUnchanged ChangeCategory = "unchanged"
)

// ServiceComparison is the per-service result of the comparison: boundary
// month costs, the derived change, the category, and the generated
// narrative strings. Computed once and never mutated afterwards.
type ServiceComparison struct {
	Service        string         `json:"service"`
	FirstMonthCost float64        `json:"first_month_cost"`
	LastMonthCost  float64        `json:"last_month_cost"`
	AbsoluteChange float64        `json:"absolute_change"`
	PercentChange  float64        `json:"percent_change"`
	Category       ChangeCategory `json:"category"`
	// HighSeverity marks increases above the high-change threshold (>20%
	// by default). It selects presentation emphasis, not the category.
	HighSeverity bool `json:"high_severity,omitempty"`

	// MonthTotals is aligned with the analyzed month list; months with no
	// records for this service contribute 0.
	MonthTotals  []float64 `json:"month_totals"`
	ServiceTotal float64   `json:"service_total"`

	// Comparison is the multi-line per-month breakdown text; Reason is the
	// short explanation of the change; Insights are the ranked key-driver
	// and anomaly lines. All plain UTF-8 with embedded newlines.
	Comparison string   `json:"comparison"`
	Reason     string   `json:"reason"`
	Insights   []string `json:"insights,omitempty"`
}

// UsageTypeChange tracks one usage type's movement between the boundary
// months of a comparison. Built on demand for narrative generation.
type UsageTypeChange struct {
	UsageType   string  `json:"usage_type"`
	FirstCost   float64 `json:"first_cost"`
	LastCost    float64 `json:"last_cost"`
	FirstUsage  float64 `json:"first_usage"`
	LastUsage   float64 `json:"last_usage"`
	Delta       float64 `json:"delta"`
	Explanation string  `json:"explanation"`
	// CommitmentRelated flags Savings Plan / Reserved Instance coverage
	// shifts, which are kept in the insight ranking even at near-zero
	// delta because they explain cost disappearing.
	CommitmentRelated bool `json:"commitment_related,omitempty"`
}
