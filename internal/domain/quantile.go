package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Default percentile band used to drop outliers.
const (
	DefaultLowerQuantile = 0.025
	DefaultUpperQuantile = 0.975
)

// ErrInvalidQuantile is returned for quantiles outside [0, 1] or an inverted band.
var ErrInvalidQuantile = errors.New("invalid quantile")

// Bounds is an inclusive value band.
type Bounds struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies inside the band, ends included.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Quantile returns the q-quantile of an ascending slice using linear
// interpolation between the closest ranks. Returns NaN for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// ComputeBounds returns the [lower, upper] quantile band of every value in s.
func ComputeBounds(s Series, lower, upper float64) (Bounds, error) {
	if err := checkQuantiles(lower, upper); err != nil {
		return Bounds{}, err
	}
	if s.Len() == 0 {
		return Bounds{}, ErrEmptySeries
	}

	values := s.Values()
	slices.Sort(values)
	return Bounds{
		Lower: Quantile(values, lower),
		Upper: Quantile(values, upper),
	}, nil
}

// FilterOutliers drops the observations outside the [lower, upper] quantile
// band of s. The band is computed over s itself and returned alongside the
// filtered series.
func FilterOutliers(s Series, lower, upper float64) (Series, Bounds, error) {
	b, err := ComputeBounds(s, lower, upper)
	if err != nil {
		return Series{}, Bounds{}, err
	}
	return s.Within(b), b, nil
}

func checkQuantiles(lower, upper float64) error {
	switch {
	case math.IsNaN(lower) || lower < 0 || lower > 1:
		return fmt.Errorf("%w: lower %v not in [0, 1]", ErrInvalidQuantile, lower)
	case math.IsNaN(upper) || upper < 0 || upper > 1:
		return fmt.Errorf("%w: upper %v not in [0, 1]", ErrInvalidQuantile, upper)
	case lower > upper:
		return fmt.Errorf("%w: lower %v above upper %v", ErrInvalidQuantile, lower, upper)
	}
	return nil
}
