package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/costreports/costreports/internal/domain/entity"
)

// InsightGenerator turns the usage-type deltas of one service into a
// ranked, capped list of key-driver and anomaly lines.
type InsightGenerator struct {
	classifier *Classifier
	explainer  *Explainer

	// MaxItems caps the key-driver lines (default 4). Commitment-discount
	// lines are exempt from the cap: they explain cost disappearing, not
	// growing, and would otherwise be ranked out by their tiny deltas.
	MaxItems int
	// MaxNewRemoved caps NEW:/REMOVED: lines per direction (default 2).
	MaxNewRemoved int
	// NewRemovedMinCost is the minimum boundary-month cost for a usage
	// type to count as appeared/disappeared (default $1).
	NewRemovedMinCost float64
	// AnomalyMinCost and AnomalyGrowthPct gate the data-transfer/NAT
	// anomaly line (defaults $10 and 50%).
	AnomalyMinCost   float64
	AnomalyGrowthPct float64
}

// NewInsightGenerator builds a generator with the default caps.
func NewInsightGenerator(classifier *Classifier, explainer *Explainer) *InsightGenerator {
	return &InsightGenerator{
		classifier:        classifier,
		explainer:         explainer,
		MaxItems:          4,
		MaxNewRemoved:     2,
		NewRemovedMinCost: 1,
		AnomalyMinCost:    10,
		AnomalyGrowthPct:  50,
	}
}

// UsageTypeChanges builds the per-usage-type movements between the first
// and last analyzed month, sorted by absolute delta descending. A usage
// type participates when it carried cost in either boundary month, or is
// compute-classified with usage hours in either.
func (g *InsightGenerator) UsageTypeChanges(data entity.ServiceMonthData, months []string) []entity.UsageTypeChange {
	if len(months) < 2 {
		return nil
	}
	first := indexDetails(data[months[0]])
	last := indexDetails(data[months[len(months)-1]])

	keys := make([]string, 0, len(first)+len(last))
	seen := make(map[string]bool)
	for ut := range first {
		keys = append(keys, ut)
		seen[ut] = true
	}
	for ut := range last {
		if !seen[ut] {
			keys = append(keys, ut)
		}
	}
	sort.Strings(keys)

	var changes []entity.UsageTypeChange
	for _, ut := range keys {
		f, l := first[ut], last[ut]
		hasCost := f.Cost > 0 || l.Cost > 0
		hasComputeUsage := (f.Usage > 0 || l.Usage > 0) && g.classifier.IsComputeUsageType(ut)
		if !hasCost && !hasComputeUsage {
			continue
		}
		text, commitment := g.explainer.ExplainChange(ut, f.Cost, f.Usage, l.Cost, l.Usage)
		changes = append(changes, entity.UsageTypeChange{
			UsageType:         ut,
			FirstCost:         f.Cost,
			LastCost:          l.Cost,
			FirstUsage:        f.Usage,
			LastUsage:         l.Usage,
			Delta:             l.Cost - f.Cost,
			Explanation:       text,
			CommitmentRelated: commitment,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return math.Abs(changes[i].Delta) > math.Abs(changes[j].Delta)
	})
	return changes
}

// Generate produces the insight lines for one service: key drivers first,
// then new/removed usage types, commitment coverage, and anomaly lines.
func (g *InsightGenerator) Generate(service string, data entity.ServiceMonthData, months []string) []string {
	if len(months) < 2 {
		return nil
	}
	changes := g.UsageTypeChanges(data, months)

	// Key drivers: top MaxItems by |delta|. Commitment-related entries are
	// exempt from the cap so coverage shifts never get ranked out by their
	// near-zero deltas.
	var lines []string
	kept := 0
	for _, ch := range changes {
		if !ch.CommitmentRelated {
			if kept >= g.MaxItems {
				continue
			}
			kept++
		}
		lines = append(lines, fmt.Sprintf("%s: %s -> %s (%s)",
			ch.UsageType, FormatUSD(ch.FirstCost), FormatUSD(ch.LastCost), ch.Explanation))
	}

	lines = append(lines, g.newRemovedLines(changes)...)
	lines = append(lines, g.coverageLines(data[months[len(months)-1]])...)
	if l := g.anomalyLine(service, changes); l != "" {
		lines = append(lines, l)
	}
	return lines
}

// newRemovedLines flags usage types present in only one boundary month
// above the minimum cost, highest cost first, capped per direction.
func (g *InsightGenerator) newRemovedLines(changes []entity.UsageTypeChange) []string {
	var added, removed []entity.UsageTypeChange
	for _, ch := range changes {
		switch {
		case ch.FirstCost == 0 && ch.FirstUsage == 0 && ch.LastCost > g.NewRemovedMinCost:
			added = append(added, ch)
		case ch.LastCost == 0 && ch.LastUsage == 0 && ch.FirstCost > g.NewRemovedMinCost:
			removed = append(removed, ch)
		}
	}
	sort.SliceStable(added, func(i, j int) bool { return added[i].LastCost > added[j].LastCost })
	sort.SliceStable(removed, func(i, j int) bool { return removed[i].FirstCost > removed[j].FirstCost })

	var lines []string
	for i, ch := range added {
		if i >= g.MaxNewRemoved {
			break
		}
		lines = append(lines, fmt.Sprintf("NEW: %s (%s)", ch.UsageType, FormatUSD(ch.LastCost)))
	}
	for i, ch := range removed {
		if i >= g.MaxNewRemoved {
			break
		}
		lines = append(lines, fmt.Sprintf("REMOVED: %s (%s)", ch.UsageType, FormatUSD(ch.FirstCost)))
	}
	return lines
}

// coverageLines aggregates zero-cost-with-usage compute hours in the last
// month per normalized instance label: commitment discounts make covered
// instances show up exactly like this.
func (g *InsightGenerator) coverageLines(lastMonth *entity.MonthData) []string {
	if lastMonth == nil {
		return nil
	}
	hours := make(map[string]float64)
	for _, d := range lastMonth.Details {
		if d.Cost == 0 && d.Usage > 0 && g.classifier.IsComputeUsageType(d.UsageType) {
			hours[g.classifier.ExtractInstanceLabel(d.UsageType)] += d.Usage
		}
	}
	labels := make([]string, 0, len(hours))
	for label := range hours {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var lines []string
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("%s: %s Hrs covered by commitment discount",
			label, FormatHours(hours[label])))
	}
	return lines
}

// anomalyLine flags a sharp rise in data-transfer/NAT Gateway spend.
func (g *InsightGenerator) anomalyLine(service string, changes []entity.UsageTypeChange) string {
	var firstTransfer, lastTransfer float64
	for _, ch := range changes {
		if containsAny(strings.ToLower(ch.UsageType), transferMarkers) {
			firstTransfer += ch.FirstCost
			lastTransfer += ch.LastCost
		}
	}
	if lastTransfer < g.AnomalyMinCost || lastTransfer <= firstTransfer*(1+g.AnomalyGrowthPct/100) {
		return ""
	}

	var subject string
	switch ClassifyServiceFamily(service) {
	case FamilyTransfer:
		subject = "Data transfer spend"
	case FamilyEC2:
		subject = "NAT Gateway / data transfer spend"
	case FamilyS3, FamilyRDS, FamilyLambda, FamilyCloudWatch, FamilyOther:
		subject = "Data transfer spend for this service"
	}
	return fmt.Sprintf("%s rose from %s to %s", subject, FormatUSD(firstTransfer), FormatUSD(lastTransfer))
}

// indexDetails folds a month's detail lines into per-usage-type sums.
func indexDetails(md *entity.MonthData) map[string]entity.UsageDetail {
	out := make(map[string]entity.UsageDetail)
	if md == nil {
		return out
	}
	for _, d := range md.Details {
		agg := out[d.UsageType]
		agg.UsageType = d.UsageType
		agg.Cost += d.Cost
		agg.Usage += d.Usage
		out[d.UsageType] = agg
	}
	return out
}
