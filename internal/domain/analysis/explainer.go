package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Marker sets for the non-compute explanation rules. Matched
// case-insensitively against the usage type.
var (
	freeTierMarkers = []string{"free tier", "freetier", "free-tier"}
	storageMarkers  = []string{"timedstorage", "storageusage", "volumeusage", "snapshotusage", "gb-mo", "storage"}
	transferMarkers = []string{"datatransfer", "transfer-bytes", "regional-bytes", "natgateway-bytes", "aws-out-bytes", "aws-in-bytes"}
	requestMarkers  = []string{"requests", "request", "-api", "apirequest", "invocation", "invoke"}
)

// Explainer infers a plain-language cause for one usage type's cost
// movement between two boundary months. Pure and total: it never divides
// by zero and always returns a non-empty string.
type Explainer struct {
	classifier *Classifier
	// RateEpsilon is the minimum effective-rate difference treated as a
	// pricing change rather than float noise (default 0.001).
	RateEpsilon float64
	// UsageDeltaPct is the usage-hours change, as a percentage of the
	// first month's usage, above which hours drive the explanation
	// (default 10).
	UsageDeltaPct float64
}

// NewExplainer builds an explainer with the default thresholds.
func NewExplainer(classifier *Classifier) *Explainer {
	return &Explainer{classifier: classifier, RateEpsilon: 0.001, UsageDeltaPct: 10}
}

// Explain returns the inferred cause for the given cost/usage pair.
func (e *Explainer) Explain(usageType string, firstCost, firstUsage, lastCost, lastUsage float64) string {
	text, _ := e.ExplainChange(usageType, firstCost, firstUsage, lastCost, lastUsage)
	return text
}

// ExplainChange is Explain plus a flag marking commitment-discount
// coverage shifts, which the insight ranking must never drop.
func (e *Explainer) ExplainChange(usageType string, firstCost, firstUsage, lastCost, lastUsage float64) (string, bool) {
	lower := strings.ToLower(usageType)

	// Rule 1: free tier.
	if (firstCost == 0 && lastCost == 0) || containsAny(lower, freeTierMarkers) {
		return "Free tier usage", false
	}

	// Rule 2: hourly compute — compare effective rates, then hours.
	if e.classifier.IsComputeUsageType(usageType) && firstUsage > 0 && lastUsage > 0 {
		firstRate := firstCost / firstUsage
		lastRate := lastCost / lastUsage

		if math.Abs(firstRate-lastRate) > e.RateEpsilon {
			switch {
			case lastCost == 0:
				return "Now covered by Savings Plan/Reserved Instance (commitment discount)", true
			case firstCost == 0:
				return "Commitment discount coverage ended; usage now billed on-demand", true
			case lastRate < firstRate:
				return fmt.Sprintf("Better pricing applied (rate dropped from %s to %s per hour)",
					FormatRate(firstRate), FormatRate(lastRate)), false
			}
			return fmt.Sprintf("Hourly rate increased from %s to %s",
				FormatRate(firstRate), FormatRate(lastRate)), false
		}

		usageDelta := lastUsage - firstUsage
		if math.Abs(usageDelta) > firstUsage*e.UsageDeltaPct/100 {
			if usageDelta > 0 {
				return fmt.Sprintf("Usage hours increased by %s Hrs", FormatHours(usageDelta)), false
			}
			return fmt.Sprintf("Usage hours decreased by %s Hrs", FormatHours(-usageDelta)), false
		}
	}

	// Rules 3-5: storage, data transfer, request volume.
	grew := lastCost > firstCost
	switch {
	case containsAny(lower, storageMarkers):
		if grew {
			return "Storage footprint grew", false
		}
		return "Storage cleanup reduced costs", false
	case containsAny(lower, transferMarkers):
		if grew {
			return "Data transfer volume increased", false
		}
		return "Data transfer volume decreased", false
	case containsAny(lower, requestMarkers):
		if grew {
			return "API request volume increased", false
		}
		return "API request volume decreased", false
	}

	// Rule 6: directional default.
	switch {
	case lastCost > firstCost:
		return "Usage increased", false
	case lastCost < firstCost:
		return "Usage decreased", false
	}
	return "No change", false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
