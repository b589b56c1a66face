package entity

// RegionCost is one row of the region ranking: per-month costs aligned
// with the analyzed month list plus the window total.
type RegionCost struct {
	Region     string    `json:"region"`
	MonthCosts []float64 `json:"month_costs"`
	Total      float64   `json:"total"`
}

// AnalysisResult is the complete, self-contained output of one analysis
// run. It holds plain data and display-ready text only; rendering into a
// document format is the report assembler's job.
type AnalysisResult struct {
	ClientName string   `json:"client_name"`
	Months     []string `json:"months"`      // YYYY-MM, ascending
	MonthNames []string `json:"month_names"` // "September 2025", aligned with Months

	// Service buckets. AllServices is sorted by window total descending;
	// the category buckets preserve that ordering.
	AllServices []ServiceComparison `json:"all_services"`
	Increased   []ServiceComparison `json:"increased"`
	Decreased   []ServiceComparison `json:"decreased"`
	Unchanged   []ServiceComparison `json:"unchanged"`

	// Regions is ranked by window total descending.
	Regions []RegionCost `json:"regions"`

	// GrandTotals is the per-month sum across all services, aligned with
	// Months; GrandTotal is the whole-window sum.
	GrandTotals []float64 `json:"grand_totals"`
	GrandTotal  float64   `json:"grand_total"`

	TotalComparison string `json:"total_comparison"`
	TotalReason     string `json:"total_reason"`

	// ProjectedNextMonth is a linear run-rate projection of the month
	// following the window, derived from the average month-over-month
	// delta of the grand totals. Zero when fewer than two months.
	ProjectedNextMonth float64 `json:"projected_next_month,omitempty"`

	// BudgetBreaches lists budgets whose actual spend exceeds their limit.
	BudgetBreaches []string `json:"budget_breaches,omitempty"`
}

// ServicesFor returns the bucket matching the given category.
func (r *AnalysisResult) ServicesFor(category ChangeCategory) []ServiceComparison {
	switch category {
	case CategoryIncreased:
		return r.Increased
	case CategoryDecreased:
		return r.Decreased
	case CategoryUnchanged:
		return r.Unchanged
	}
	return r.AllServices
}
