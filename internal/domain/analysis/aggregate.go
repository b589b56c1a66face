package analysis

import (
	"github.com/costreports/costreports/internal/domain/entity"
)

// InclusionPolicy gates which raw records enter a service/month bucket.
type InclusionPolicy int

const (
	// IncludeCostOnly keeps records with a positive cost.
	IncludeCostOnly InclusionPolicy = iota
	// IncludeCostOrComputeUsage also keeps zero-cost compute records with
	// positive usage hours, so commitment-discounted instances stay
	// visible in breakdowns and coverage insights.
	IncludeCostOrComputeUsage
)

// Aggregator folds raw records into per-service and per-region monthly
// buckets. Totals are order-independent multiset sums; detail ordering
// follows input order, which keeps downstream top-N selection stable.
type Aggregator struct {
	classifier *Classifier
	policy     InclusionPolicy
}

// NewAggregator builds an aggregator using the given classifier for the
// compute-usage inclusion rule.
func NewAggregator(classifier *Classifier, policy InclusionPolicy) *Aggregator {
	return &Aggregator{classifier: classifier, policy: policy}
}

// include applies the record inclusion policy.
func (a *Aggregator) include(rec entity.CostRecord) bool {
	if rec.Cost > 0 {
		return true
	}
	if a.policy == IncludeCostOrComputeUsage {
		return rec.Usage > 0 && a.classifier.IsComputeUsageType(rec.UsageType)
	}
	return false
}

// AggregateServices folds raw records into service -> month buckets.
func (a *Aggregator) AggregateServices(records []entity.CostRecord) map[string]entity.ServiceMonthData {
	services := make(map[string]entity.ServiceMonthData)
	for _, rec := range records {
		if !a.include(rec) {
			continue
		}
		months, ok := services[rec.Service]
		if !ok {
			months = make(entity.ServiceMonthData)
			services[rec.Service] = months
		}
		md, ok := months[rec.Month]
		if !ok {
			md = &entity.MonthData{}
			months[rec.Month] = md
		}
		md.Total += rec.Cost
		md.Details = append(md.Details, entity.UsageDetail{
			UsageType: rec.UsageType,
			Cost:      rec.Cost,
			Usage:     rec.Usage,
		})
	}
	return services
}

// AggregateRegions sums positive-cost region records per region and month.
func (a *Aggregator) AggregateRegions(records []entity.RegionCostRecord) entity.RegionMonthCost {
	regions := make(entity.RegionMonthCost)
	for _, rec := range records {
		if rec.Cost <= 0 {
			continue
		}
		months, ok := regions[rec.Region]
		if !ok {
			months = make(map[string]float64)
			regions[rec.Region] = months
		}
		months[rec.Month] += rec.Cost
	}
	return regions
}
