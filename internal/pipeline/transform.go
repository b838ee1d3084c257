package pipeline

import (
	"github.com/couchcryptid/pageview-charts/internal/domain"
)

// OutlierFilter drops observations outside a percentile band of the series.
type OutlierFilter struct {
	lower float64
	upper float64
}

// NewOutlierFilter creates a filter keeping values between the lower and
// upper quantiles, inclusive. Quantiles are checked when the filter is applied.
func NewOutlierFilter(lower, upper float64) *OutlierFilter {
	return &OutlierFilter{lower: lower, upper: upper}
}

// NewDefaultOutlierFilter keeps the [2.5, 97.5] percentile band.
func NewDefaultOutlierFilter() *OutlierFilter {
	return NewOutlierFilter(domain.DefaultLowerQuantile, domain.DefaultUpperQuantile)
}

// Apply returns the retained series and the bounds computed from s.
func (f *OutlierFilter) Apply(s domain.Series) (domain.Series, domain.Bounds, error) {
	return domain.FilterOutliers(s, f.lower, f.upper)
}
