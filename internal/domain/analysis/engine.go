package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/costreports/costreports/internal/domain/entity"
)

// Config carries every tunable of the analysis engine. Zero values are
// replaced by the defaults in DefaultConfig, so callers only set what
// they want to override.
type Config struct {
	// Markers is the ordered compute-marker table; nil means the default.
	Markers []ComputeMarker

	CategorizationPolicy CategorizationPolicy
	InclusionPolicy      InclusionPolicy

	// MinimalChangePct and HighChangePct are the categorization
	// thresholds (5 and 20).
	MinimalChangePct float64
	HighChangePct    float64
	// MinSignificantCost is the smallest cost worth a breakdown line (0.01).
	MinSignificantCost float64
	// RateEpsilon and UsageDeltaPct tune the hourly-compute explanation
	// rules (0.001 and 10).
	RateEpsilon   float64
	UsageDeltaPct float64

	// MaxInsights, MaxBreakdownLines and MaxNewRemoved cap the generated
	// narrative (4, 5 and 2). NewRemovedMinCost gates appeared/removed
	// usage types ($1).
	MaxInsights       int
	MaxBreakdownLines int
	MaxNewRemoved     int
	NewRemovedMinCost float64
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		Markers:              DefaultComputeMarkers(),
		CategorizationPolicy: PolicyThreshold,
		InclusionPolicy:      IncludeCostOrComputeUsage,
		MinimalChangePct:     5,
		HighChangePct:        20,
		MinSignificantCost:   0.01,
		RateEpsilon:          0.001,
		UsageDeltaPct:        10,
		MaxInsights:          4,
		MaxBreakdownLines:    5,
		MaxNewRemoved:        2,
		NewRemovedMinCost:    1,
	}
}

// AnalysisInput is everything one analysis run consumes. Months must be
// ascending YYYY-MM; records outside those months are ignored by the
// upstream fetch, not re-filtered here.
type AnalysisInput struct {
	ClientName    string
	Months        []string
	Records       []entity.CostRecord
	RegionRecords []entity.RegionCostRecord
	Budgets       []entity.BudgetInfo
}

// Engine runs the full pipeline: aggregation, categorization, narrative
// and insight generation. Pure and deterministic; all AWS access happens
// before Analyze is called.
type Engine struct {
	cfg Config

	classifier  *Classifier
	categorizer *Categorizer
	aggregator  *Aggregator
	insights    *InsightGenerator
	narrator    *Narrator
}

// NewEngine wires an engine from the given config, filling unset fields
// with the defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Markers == nil {
		cfg.Markers = def.Markers
	}
	if cfg.MinimalChangePct == 0 {
		cfg.MinimalChangePct = def.MinimalChangePct
	}
	if cfg.HighChangePct == 0 {
		cfg.HighChangePct = def.HighChangePct
	}
	if cfg.MinSignificantCost == 0 {
		cfg.MinSignificantCost = def.MinSignificantCost
	}
	if cfg.RateEpsilon == 0 {
		cfg.RateEpsilon = def.RateEpsilon
	}
	if cfg.UsageDeltaPct == 0 {
		cfg.UsageDeltaPct = def.UsageDeltaPct
	}
	if cfg.MaxInsights == 0 {
		cfg.MaxInsights = def.MaxInsights
	}
	if cfg.MaxBreakdownLines == 0 {
		cfg.MaxBreakdownLines = def.MaxBreakdownLines
	}
	if cfg.MaxNewRemoved == 0 {
		cfg.MaxNewRemoved = def.MaxNewRemoved
	}
	if cfg.NewRemovedMinCost == 0 {
		cfg.NewRemovedMinCost = def.NewRemovedMinCost
	}

	classifier := NewClassifier(cfg.Markers)

	categorizer := NewCategorizer(cfg.CategorizationPolicy)
	categorizer.ThresholdPct = cfg.MinimalChangePct
	categorizer.HighPct = cfg.HighChangePct

	explainer := NewExplainer(classifier)
	explainer.RateEpsilon = cfg.RateEpsilon
	explainer.UsageDeltaPct = cfg.UsageDeltaPct

	insights := NewInsightGenerator(classifier, explainer)
	insights.MaxItems = cfg.MaxInsights
	insights.MaxNewRemoved = cfg.MaxNewRemoved
	insights.NewRemovedMinCost = cfg.NewRemovedMinCost

	narrator := NewNarrator(classifier, categorizer)
	narrator.MaxBreakdownLines = cfg.MaxBreakdownLines
	narrator.MinSignificantCost = cfg.MinSignificantCost

	return &Engine{
		cfg:         cfg,
		classifier:  classifier,
		categorizer: categorizer,
		aggregator:  NewAggregator(classifier, cfg.InclusionPolicy),
		insights:    insights,
		narrator:    narrator,
	}
}

// Classifier exposes the engine's usage-type classifier for callers that
// render compute labels outside the result texts.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Analyze runs the full analysis over the given input.
func (e *Engine) Analyze(in AnalysisInput) *entity.AnalysisResult {
	result := &entity.AnalysisResult{
		ClientName: in.ClientName,
		Months:     in.Months,
		MonthNames: monthNames(in.Months),
	}

	services := e.aggregator.AggregateServices(in.Records)
	result.AllServices = e.compareServices(services, in.Months)

	for _, sc := range result.AllServices {
		switch sc.Category {
		case entity.CategoryIncreased:
			result.Increased = append(result.Increased, sc)
		case entity.CategoryDecreased:
			result.Decreased = append(result.Decreased, sc)
		case entity.CategoryUnchanged:
			result.Unchanged = append(result.Unchanged, sc)
		}
	}

	result.GrandTotals = make([]float64, len(in.Months))
	for _, sc := range result.AllServices {
		for i, t := range sc.MonthTotals {
			result.GrandTotals[i] += t
		}
		result.GrandTotal += sc.ServiceTotal
	}

	result.Regions = e.rankRegions(in.RegionRecords, in.Months)

	if len(in.Months) >= 2 {
		first := result.GrandTotals[0]
		last := result.GrandTotals[len(result.GrandTotals)-1]
		result.TotalComparison = e.narrator.TotalSummary(result.MonthNames, result.GrandTotals, result.AllServices)
		result.TotalReason = e.narrator.CostDifference(first, last)
		result.ProjectedNextMonth = projectNextMonth(result.GrandTotals)
	} else {
		result.TotalComparison = "Insufficient data"
		result.TotalReason = "Insufficient data"
	}

	for _, b := range in.Budgets {
		if b.Breached() {
			result.BudgetBreaches = append(result.BudgetBreaches,
				fmt.Sprintf("Budget %s breached: actual %s exceeds limit %s",
					b.Name, FormatUSD(b.Actual), FormatUSD(b.Limit)))
		}
	}

	return result
}

// compareServices builds the per-service comparisons, sorted by window
// total descending with the service name as tie-breaker.
func (e *Engine) compareServices(services map[string]entity.ServiceMonthData, months []string) []entity.ServiceComparison {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	comparisons := make([]entity.ServiceComparison, 0, len(names))
	for _, name := range names {
		data := services[name]

		sc := entity.ServiceComparison{
			Service:     name,
			MonthTotals: make([]float64, len(months)),
		}
		for i, month := range months {
			if md := data[month]; md != nil {
				sc.MonthTotals[i] = md.Total
			}
			sc.ServiceTotal += sc.MonthTotals[i]
		}

		if len(months) < 2 {
			sc.Category = entity.CategoryUnchanged
			sc.Comparison = "Insufficient data"
			sc.Reason = "Insufficient data"
			if len(months) == 1 {
				sc.FirstMonthCost = sc.MonthTotals[0]
				sc.LastMonthCost = sc.MonthTotals[0]
			}
			comparisons = append(comparisons, sc)
			continue
		}

		sc.FirstMonthCost = sc.MonthTotals[0]
		sc.LastMonthCost = sc.MonthTotals[len(months)-1]
		sc.AbsoluteChange = sc.LastMonthCost - sc.FirstMonthCost
		sc.PercentChange, sc.Category = e.categorizer.Categorize(sc.FirstMonthCost, sc.LastMonthCost)
		sc.HighSeverity = sc.Category == entity.CategoryIncreased && e.categorizer.HighSeverity(sc.PercentChange)
		sc.Comparison = e.narrator.ServiceComparison(data, months)
		sc.Reason = e.narrator.CostDifference(sc.FirstMonthCost, sc.LastMonthCost)
		sc.Insights = e.insights.Generate(name, data, months)

		comparisons = append(comparisons, sc)
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		if comparisons[i].ServiceTotal != comparisons[j].ServiceTotal {
			return comparisons[i].ServiceTotal > comparisons[j].ServiceTotal
		}
		return comparisons[i].Service < comparisons[j].Service
	})
	return comparisons
}

// rankRegions folds region records into the ranking, window total
// descending.
func (e *Engine) rankRegions(records []entity.RegionCostRecord, months []string) []entity.RegionCost {
	byRegion := e.aggregator.AggregateRegions(records)

	regions := make([]entity.RegionCost, 0, len(byRegion))
	for name, monthCosts := range byRegion {
		rc := entity.RegionCost{
			Region:     name,
			MonthCosts: make([]float64, len(months)),
		}
		for i, month := range months {
			rc.MonthCosts[i] = monthCosts[month]
			rc.Total += rc.MonthCosts[i]
		}
		regions = append(regions, rc)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Total != regions[j].Total {
			return regions[i].Total > regions[j].Total
		}
		return regions[i].Region < regions[j].Region
	})
	return regions
}

// projectNextMonth extends the grand totals one month forward using the
// average month-over-month delta, clamped at zero.
func projectNextMonth(totals []float64) float64 {
	n := len(totals)
	if n < 2 {
		return 0
	}
	last := totals[n-1]
	projected := last + (last-totals[0])/float64(n-1)
	if projected < 0 {
		return 0
	}
	return projected
}

// monthNames renders YYYY-MM months as "September 2025", falling back to
// the raw value when unparseable.
func monthNames(months []string) []string {
	names := make([]string, len(months))
	for i, m := range months {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			names[i] = m
			continue
		}
		names[i] = fmt.Sprintf("%s %d", t.Month().String(), t.Year())
	}
	return names
}
