package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/costreports/costreports/internal/domain/entity"
)

// Narrator renders the human-readable report fragments: per-month
// breakdowns, the cost-difference verdict and the grand-total summary.
type Narrator struct {
	classifier  *Classifier
	categorizer *Categorizer

	// MaxBreakdownLines caps the detail lines printed per month (default 5).
	MaxBreakdownLines int
	// MinSignificantCost is the smallest cost worth a breakdown line
	// (default $0.01). Compute lines with usage hours are always kept.
	MinSignificantCost float64
	// MaxTopChanges caps the services listed after "Top changes:" (default 3).
	MaxTopChanges int
}

// NewNarrator builds a narrator with the default limits.
func NewNarrator(classifier *Classifier, categorizer *Categorizer) *Narrator {
	return &Narrator{
		classifier:         classifier,
		categorizer:        categorizer,
		MaxBreakdownLines:  5,
		MinSignificantCost: 0.01,
		MaxTopChanges:      3,
	}
}

// MonthHeading renders a YYYY-MM month as its report section header,
// e.g. "[SEPTEMBER 2025 BREAKDOWN]". Unparseable input is uppercased
// as-is so the section never vanishes.
func (n *Narrator) MonthHeading(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return fmt.Sprintf("[%s BREAKDOWN]", strings.ToUpper(month))
	}
	return fmt.Sprintf("[%s %d BREAKDOWN]", strings.ToUpper(t.Month().String()), t.Year())
}

// MonthBreakdown renders one month's detail lines: compute usage ranked
// by hours first, then everything else by cost, capped at
// MaxBreakdownLines. An empty month yields a single "No usage recorded".
func (n *Narrator) MonthBreakdown(md *entity.MonthData) []string {
	var compute, rest []entity.UsageDetail
	if md != nil {
		for _, d := range md.Details {
			switch {
			case d.Usage > 0 && n.classifier.IsComputeUsageType(d.UsageType):
				compute = append(compute, d)
			case d.Cost >= n.MinSignificantCost:
				rest = append(rest, d)
			}
		}
	}
	sort.SliceStable(compute, func(i, j int) bool { return compute[i].Usage > compute[j].Usage })
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Cost > rest[j].Cost })

	var lines []string
	for _, d := range compute {
		if len(lines) >= n.MaxBreakdownLines {
			break
		}
		rate := 0.0
		if d.Usage > 0 {
			rate = d.Cost / d.Usage
		}
		lines = append(lines, fmt.Sprintf("%s (%s Hrs @ %s): %s",
			n.classifier.ExtractInstanceLabel(d.UsageType),
			FormatHours(d.Usage), FormatRate(rate), FormatDollar(d.Cost)))
	}
	for _, d := range rest {
		if len(lines) >= n.MaxBreakdownLines {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %s", d.UsageType, FormatUSD(d.Cost)))
	}
	if len(lines) == 0 {
		return []string{"No usage recorded"}
	}
	return lines
}

// CostDifference renders the one-line verdict between two boundary costs.
func (n *Narrator) CostDifference(first, last float64) string {
	pct, category := n.categorizer.Categorize(first, last)
	switch category {
	case entity.CategoryIncreased:
		return fmt.Sprintf("Cost increased by %s (%s)", FormatUSD(last-first), FormatPercent(pct))
	case entity.CategoryDecreased:
		return fmt.Sprintf("Cost decreased by %s (%s)", FormatUSD(first-last), FormatPercent(pct))
	}
	return "Minimal Cost Difference"
}

// ServiceComparison renders a service's full narrative: every analyzed
// month's breakdown section followed by the cost-difference section.
func (n *Narrator) ServiceComparison(data entity.ServiceMonthData, months []string) string {
	if len(months) < 2 {
		return "Insufficient data"
	}
	var b strings.Builder
	for _, month := range months {
		b.WriteString(n.MonthHeading(month))
		b.WriteString("\n")
		for _, line := range n.MonthBreakdown(data[month]) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("[COST DIFFERENCE]\n")

	first, last := 0.0, 0.0
	if md := data[months[0]]; md != nil {
		first = md.Total
	}
	if md := data[months[len(months)-1]]; md != nil {
		last = md.Total
	}
	b.WriteString(n.CostDifference(first, last))
	return b.String()
}

// TotalSummary renders the grand-total section: one "Total" line per
// month followed by the verdict with the largest service movers, e.g.
//
//	September 2025 Total: USD 960.00
//	October 2025 Total: USD 1,080.00
//	Cost increased by USD 120.00 (12.5%). Top changes: EC2 (+USD 90.00), S3 (+USD 30.00)
func (n *Narrator) TotalSummary(monthNames []string, totals []float64, services []entity.ServiceComparison) string {
	if len(totals) < 2 || len(monthNames) != len(totals) {
		return "Insufficient data"
	}

	var b strings.Builder
	for i, name := range monthNames {
		b.WriteString(fmt.Sprintf("%s Total: %s\n", name, FormatUSD(totals[i])))
	}

	verdict := n.CostDifference(totals[0], totals[len(totals)-1])

	movers := make([]entity.ServiceComparison, 0, len(services))
	for _, s := range services {
		if s.Category != entity.CategoryUnchanged {
			movers = append(movers, s)
		}
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return abs(movers[i].AbsoluteChange) > abs(movers[j].AbsoluteChange)
	})
	if len(movers) > n.MaxTopChanges {
		movers = movers[:n.MaxTopChanges]
	}
	if len(movers) == 0 {
		b.WriteString(verdict)
		return b.String()
	}

	parts := make([]string, 0, len(movers))
	for _, m := range movers {
		sign := "+"
		if m.AbsoluteChange < 0 {
			sign = "-"
		}
		parts = append(parts, fmt.Sprintf("%s (%s%s)", m.Service, sign, FormatUSD(abs(m.AbsoluteChange))))
	}
	b.WriteString(fmt.Sprintf("%s. Top changes: %s", verdict, strings.Join(parts, ", ")))
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
