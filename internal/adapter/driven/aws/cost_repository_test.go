package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		month     string
		wantStart string
		wantEnd   string
	}{
		{"2025-09", "2025-09-01", "2025-10-01"},
		{"2025-12", "2025-12-01", "2026-01-01"},
		{"2024-02", "2024-02-01", "2024-03-01"},
	}

	for _, tt := range tests {
		start, end, err := monthWindow(tt.month)
		if err != nil {
			t.Fatalf("monthWindow(%q): %v", tt.month, err)
		}
		if got := start.Format("2006-01-02"); got != tt.wantStart {
			t.Errorf("%s: start = %s, want %s", tt.month, got, tt.wantStart)
		}
		if got := end.Format("2006-01-02"); got != tt.wantEnd {
			t.Errorf("%s: end = %s, want %s", tt.month, got, tt.wantEnd)
		}
	}
}

func TestMonthWindow_Invalid(t *testing.T) {
	for _, month := range []string{"September", "2025-13", "2025/09", ""} {
		if _, _, err := monthWindow(month); err == nil {
			t.Errorf("monthWindow(%q) must fail", month)
		}
	}
}

func TestExcludeTaxFilter(t *testing.T) {
	f := excludeTaxFilter()
	if f.Not == nil || f.Not.Dimensions == nil {
		t.Fatal("expected a Not/Dimensions expression")
	}
	if f.Not.Dimensions.Key != ceTypes.DimensionRecordType {
		t.Errorf("key = %v", f.Not.Dimensions.Key)
	}
	if len(f.Not.Dimensions.Values) != 1 || f.Not.Dimensions.Values[0] != "Tax" {
		t.Errorf("values = %v", f.Not.Dimensions.Values)
	}
}

func TestMetricAmount(t *testing.T) {
	metrics := map[string]ceTypes.MetricValue{
		"NetUnblendedCost": {Amount: aws.String("123.45")},
		"UsageQuantity":    {Amount: aws.String("720")},
		"Broken":           {},
	}

	if got := metricAmount(metrics, "NetUnblendedCost"); got != 123.45 {
		t.Errorf("cost = %v", got)
	}
	if got := metricAmount(metrics, "UsageQuantity"); got != 720 {
		t.Errorf("usage = %v", got)
	}
	if got := metricAmount(metrics, "Broken"); got != 0 {
		t.Errorf("nil amount must read as 0, got %v", got)
	}
	if got := metricAmount(metrics, "Missing"); got != 0 {
		t.Errorf("missing metric must read as 0, got %v", got)
	}
}
