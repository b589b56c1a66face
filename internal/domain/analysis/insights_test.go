package analysis

import (
	"strings"
	"testing"

	"github.com/costreports/costreports/internal/domain/entity"
)

func newTestGenerator() *InsightGenerator {
	classifier := NewClassifier(nil)
	return NewInsightGenerator(classifier, NewExplainer(classifier))
}

func monthData(details ...entity.UsageDetail) *entity.MonthData {
	md := &entity.MonthData{}
	for _, d := range details {
		md.Total += d.Cost
		md.Details = append(md.Details, d)
	}
	return md
}

func TestUsageTypeChanges_SortedByAbsoluteDelta(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(
			entity.UsageDetail{UsageType: "BoxUsage:m5.large", Cost: 100, Usage: 720},
			entity.UsageDetail{UsageType: "EBS:VolumeUsage.gp3", Cost: 10},
			entity.UsageDetail{UsageType: "DataTransfer-Out-Bytes", Cost: 5},
		),
		"2025-10": monthData(
			entity.UsageDetail{UsageType: "BoxUsage:m5.large", Cost: 160, Usage: 1100},
			entity.UsageDetail{UsageType: "EBS:VolumeUsage.gp3", Cost: 35},
			entity.UsageDetail{UsageType: "DataTransfer-Out-Bytes", Cost: 6},
		),
	}

	changes := newTestGenerator().UsageTypeChanges(data, []string{"2025-09", "2025-10"})
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if changes[0].UsageType != "BoxUsage:m5.large" {
		t.Errorf("largest delta first, got %q", changes[0].UsageType)
	}
	if changes[1].UsageType != "EBS:VolumeUsage.gp3" {
		t.Errorf("second largest delta, got %q", changes[1].UsageType)
	}
	if changes[0].Delta != 60 {
		t.Errorf("expected delta 60, got %v", changes[0].Delta)
	}
}

func TestGenerate_CapsAtMaxItems(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(
			entity.UsageDetail{UsageType: "UT-A", Cost: 10},
			entity.UsageDetail{UsageType: "UT-B", Cost: 10},
			entity.UsageDetail{UsageType: "UT-C", Cost: 10},
			entity.UsageDetail{UsageType: "UT-D", Cost: 10},
			entity.UsageDetail{UsageType: "UT-E", Cost: 10},
			entity.UsageDetail{UsageType: "UT-F", Cost: 10},
		),
		"2025-10": monthData(
			entity.UsageDetail{UsageType: "UT-A", Cost: 70},
			entity.UsageDetail{UsageType: "UT-B", Cost: 60},
			entity.UsageDetail{UsageType: "UT-C", Cost: 50},
			entity.UsageDetail{UsageType: "UT-D", Cost: 40},
			entity.UsageDetail{UsageType: "UT-E", Cost: 30},
			entity.UsageDetail{UsageType: "UT-F", Cost: 20},
		),
	}

	lines := newTestGenerator().Generate("Amazon Elastic Compute Cloud - Compute", data, []string{"2025-09", "2025-10"})
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "UT-A:") {
		t.Errorf("largest mover first, got %q", lines[0])
	}
}

func TestGenerate_CommitmentLinesSurviveCap(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(
			entity.UsageDetail{UsageType: "UT-A", Cost: 10},
			entity.UsageDetail{UsageType: "UT-B", Cost: 10},
			entity.UsageDetail{UsageType: "UT-C", Cost: 10},
			entity.UsageDetail{UsageType: "UT-D", Cost: 10},
			// Covered instance: cost vanished, hours unchanged. Its delta
			// is tiny next to the movers above.
			entity.UsageDetail{UsageType: "BoxUsage:t3.micro", Cost: 1, Usage: 720},
		),
		"2025-10": monthData(
			entity.UsageDetail{UsageType: "UT-A", Cost: 110},
			entity.UsageDetail{UsageType: "UT-B", Cost: 100},
			entity.UsageDetail{UsageType: "UT-C", Cost: 90},
			entity.UsageDetail{UsageType: "UT-D", Cost: 80},
			entity.UsageDetail{UsageType: "BoxUsage:t3.micro", Cost: 0, Usage: 720},
		),
	}

	lines := newTestGenerator().Generate("Amazon Elastic Compute Cloud - Compute", data, []string{"2025-09", "2025-10"})

	var commitment int
	for _, l := range lines {
		if strings.Contains(l, "commitment discount") {
			commitment++
		}
	}
	if commitment == 0 {
		t.Fatalf("commitment lines must survive the cap, got %v", lines)
	}
}

func TestGenerate_NewAndRemoved(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(
			entity.UsageDetail{UsageType: "Old-Feature", Cost: 25},
			entity.UsageDetail{UsageType: "Tiny-Old", Cost: 0.50},
		),
		"2025-10": monthData(
			entity.UsageDetail{UsageType: "New-Feature", Cost: 40},
			entity.UsageDetail{UsageType: "Tiny-New", Cost: 0.30},
		),
	}

	lines := newTestGenerator().Generate("AWS Config", data, []string{"2025-09", "2025-10"})
	joined := strings.Join(lines, "\n")

	if !strings.Contains(joined, "NEW: New-Feature (USD 40.00)") {
		t.Errorf("missing NEW line in %v", lines)
	}
	if !strings.Contains(joined, "REMOVED: Old-Feature (USD 25.00)") {
		t.Errorf("missing REMOVED line in %v", lines)
	}
	if strings.Contains(joined, "Tiny-Old") && strings.Contains(joined, "REMOVED: Tiny-Old") {
		t.Errorf("sub-dollar usage types must not be flagged: %v", lines)
	}
	if strings.Contains(joined, "NEW: Tiny-New") {
		t.Errorf("sub-dollar usage types must not be flagged: %v", lines)
	}
}

func TestGenerate_CoveragePerInstanceLabel(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(
			entity.UsageDetail{UsageType: "BoxUsage:m5.large", Cost: 30, Usage: 720},
		),
		"2025-10": monthData(
			entity.UsageDetail{UsageType: "BoxUsage:m5.large", Cost: 0, Usage: 500},
			entity.UsageDetail{UsageType: "APN1-BoxUsage:m5.large", Cost: 0, Usage: 220},
		),
	}

	lines := newTestGenerator().Generate("Amazon Elastic Compute Cloud - Compute", data, []string{"2025-09", "2025-10"})
	joined := strings.Join(lines, "\n")

	// Both usage types normalize to the same label, so hours aggregate.
	if !strings.Contains(joined, "m5.large: 720.000 Hrs covered by commitment discount") {
		t.Fatalf("missing aggregated coverage line in %v", lines)
	}
}

func TestGenerate_TransferAnomaly(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(
			entity.UsageDetail{UsageType: "NatGateway-Bytes", Cost: 8},
		),
		"2025-10": monthData(
			entity.UsageDetail{UsageType: "NatGateway-Bytes", Cost: 45},
		),
	}

	lines := newTestGenerator().Generate("Amazon Elastic Compute Cloud - Compute", data, []string{"2025-09", "2025-10"})
	joined := strings.Join(lines, "\n")

	if !strings.Contains(joined, "NAT Gateway / data transfer spend rose from USD 8.00 to USD 45.00") {
		t.Fatalf("missing anomaly line in %v", lines)
	}
}

func TestGenerate_InsufficientMonths(t *testing.T) {
	data := entity.ServiceMonthData{
		"2025-09": monthData(entity.UsageDetail{UsageType: "UT-A", Cost: 10}),
	}
	if lines := newTestGenerator().Generate("AWS Config", data, []string{"2025-09"}); lines != nil {
		t.Fatalf("single month must yield no insights, got %v", lines)
	}
}
