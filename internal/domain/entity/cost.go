package entity

// CostRecord is one raw billing line as returned by the fetch layer:
// a (service, usage type) pair for a single calendar month. Records are
// produced once per fetch and never mutated.
type CostRecord struct {
	Service   string  `json:"service"`
	UsageType string  `json:"usage_type"`
	Month     string  `json:"month"` // YYYY-MM
	Cost      float64 `json:"cost"`
	Usage     float64 `json:"usage"`
}

// RegionCostRecord is one raw per-region cost line for a single month.
// Regions carry no usage-type breakdown.
type RegionCostRecord struct {
	Region string  `json:"region"`
	Month  string  `json:"month"`
	Cost   float64 `json:"cost"`
}

// UsageDetail is one retained breakdown line inside a service/month bucket.
type UsageDetail struct {
	UsageType string  `json:"usage_type"`
	Cost      float64 `json:"cost"`
	Usage     float64 `json:"usage"`
}

// MonthData holds the aggregated cost of one service for one month.
// Total always equals the sum of Details costs; Details preserves the
// order records were appended in, which keeps breakdown output stable.
type MonthData struct {
	Total   float64       `json:"total"`
	Details []UsageDetail `json:"details"`
}

// ServiceMonthData maps month (YYYY-MM) to that month's aggregated data
// for a single service.
type ServiceMonthData map[string]*MonthData

// RegionMonthCost maps region -> month -> cost.
type RegionMonthCost map[string]map[string]float64
