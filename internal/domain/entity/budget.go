package entity

// BudgetInfo holds the limit and spend figures of one AWS budget.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast,omitempty"`
}

// Breached reports whether actual spend exceeds the budget limit.
func (b BudgetInfo) Breached() bool {
	return b.Limit > 0 && b.Actual > b.Limit
}
