package analysis

import "strings"

// ComputeMarker maps a usage-type substring to the hourly compute family
// it denotes. Table order is significant: the first matching marker wins.
type ComputeMarker struct {
	Marker string
	Family string
}

// DefaultComputeMarkers covers the instance-hour usage types of EC2, RDS,
// ElastiCache and Redshift. "Node:" must stay last so "NodeUsage:" is
// matched before it.
func DefaultComputeMarkers() []ComputeMarker {
	return []ComputeMarker{
		{"BoxUsage:", "EC2"},
		{"HeavyUsage:", "EC2 Reserved"},
		{"SpotUsage:", "EC2 Spot"},
		{"InstanceUsage:", "RDS"},
		{"Multi-AZUsage:", "RDS Multi-AZ"},
		{"ServerlessUsage:", "RDS Serverless"},
		{"NodeUsage:", "ElastiCache"},
		{"Node:", "Redshift"},
	}
}

// Classifier recognizes hourly compute usage types and extracts normalized
// instance-type labels from them. It is stateless apart from its marker
// table and safe for concurrent use.
type Classifier struct {
	markers []ComputeMarker
}

// NewClassifier builds a classifier over the given ordered marker table.
// A nil table falls back to DefaultComputeMarkers.
func NewClassifier(markers []ComputeMarker) *Classifier {
	if markers == nil {
		markers = DefaultComputeMarkers()
	}
	return &Classifier{markers: markers}
}

// IsComputeUsageType reports whether the usage type denotes an hourly
// compute resource (instance hours, cache node hours, warehouse node hours).
func (c *Classifier) IsComputeUsageType(usageType string) bool {
	_, ok := c.match(usageType)
	return ok
}

// ComputeFamily returns the resource family of a compute usage type
// ("EC2", "RDS Multi-AZ", ...) and whether the usage type is compute at all.
func (c *Classifier) ComputeFamily(usageType string) (string, bool) {
	m, ok := c.match(usageType)
	if !ok {
		return "", false
	}
	return m.Family, true
}

// ExtractInstanceLabel returns the instance-type label embedded in a
// compute usage type: the text between the marker and the next colon,
// e.g. "APN1-BoxUsage:m5.large" -> "m5.large". When the usage type is not
// compute, or the label would be empty, the full usage type is returned
// instead — the result is never empty for non-empty input.
func (c *Classifier) ExtractInstanceLabel(usageType string) string {
	m, ok := c.match(usageType)
	if !ok {
		return usageType
	}
	rest := usageType[strings.Index(usageType, m.Marker)+len(m.Marker):]
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return usageType
	}
	return rest
}

func (c *Classifier) match(usageType string) (ComputeMarker, bool) {
	for _, m := range c.markers {
		if strings.Contains(usageType, m.Marker) {
			return m, true
		}
	}
	return ComputeMarker{}, false
}

// ServiceFamily is a closed classification of provider service names.
// Matching on the enum instead of raw substrings keeps downstream rules
// exhaustive when provider naming drifts.
type ServiceFamily int

const (
	FamilyOther ServiceFamily = iota
	FamilyEC2
	FamilyS3
	FamilyRDS
	FamilyLambda
	FamilyCloudWatch
	FamilyTransfer
)

// String returns a short display name for the family.
func (f ServiceFamily) String() string {
	switch f {
	case FamilyEC2:
		return "EC2"
	case FamilyS3:
		return "S3"
	case FamilyRDS:
		return "RDS"
	case FamilyLambda:
		return "Lambda"
	case FamilyCloudWatch:
		return "CloudWatch"
	case FamilyTransfer:
		return "Data Transfer"
	}
	return "Other"
}

// ClassifyServiceFamily maps a provider service name onto the closed
// ServiceFamily set. Computed once per service; callers switch on the
// result exhaustively.
func ClassifyServiceFamily(service string) ServiceFamily {
	s := strings.ToLower(service)
	switch {
	case strings.Contains(s, "data transfer"):
		return FamilyTransfer
	case strings.Contains(s, "elastic compute cloud"), strings.Contains(s, "ec2"):
		return FamilyEC2
	case strings.Contains(s, "simple storage service"), strings.Contains(s, "s3"):
		return FamilyS3
	case strings.Contains(s, "relational database"), strings.Contains(s, "rds"):
		return FamilyRDS
	case strings.Contains(s, "lambda"):
		return FamilyLambda
	case strings.Contains(s, "cloudwatch"):
		return FamilyCloudWatch
	}
	return FamilyOther
}
