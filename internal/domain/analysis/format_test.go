package analysis

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "USD 0.00"},
		{1234.56, "USD 1,234.56"},
		{1234567.891, "USD 1,234,567.89"},
		{-42.5, "USD -42.50"},
		{999.999, "USD 1,000.00"},
	}
	for _, tt := range tests {
		if got := FormatUSD(tt.v); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatDollarAndHours(t *testing.T) {
	if got := FormatDollar(33.414); got != "$33.41" {
		t.Errorf("FormatDollar = %q", got)
	}
	if got := FormatHours(720); got != "720.000" {
		t.Errorf("FormatHours = %q", got)
	}
	if got := FormatHours(1536.5); got != "1,536.500" {
		t.Errorf("FormatHours = %q", got)
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(0.0464); got != "$0.0464" {
		t.Errorf("FormatRate = %q", got)
	}
	if got := FormatRate(0.12); got != "$0.1200" {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(50); got != "50.0%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(-12.34); got != "12.3%" {
		t.Errorf("FormatPercent should drop the sign, got %q", got)
	}
}
