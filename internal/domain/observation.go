package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrEmptySeries is returned when a series has no observations to work with.
	ErrEmptySeries = errors.New("series has no observations")

	// ErrDuplicateDate is returned when two observations share a calendar day.
	ErrDuplicateDate = errors.New("duplicate observation date")
)

// Observation is one day's page-view count.
type Observation struct {
	Date  time.Time
	Value float64
}

// Series is an immutable, date-ordered sequence of observations with unique dates.
type Series struct {
	obs []Observation
}

// NewSeries sorts the observations by date and returns them as a Series.
// Dates are truncated to the calendar day in UTC. The input slice is not modified.
func NewSeries(obs []Observation) (Series, error) {
	if len(obs) == 0 {
		return Series{}, ErrEmptySeries
	}

	sorted := make([]Observation, len(obs))
	for i, o := range obs {
		sorted[i] = Observation{Date: truncateDay(o.Date), Value: o.Value}
	}
	slices.SortStableFunc(sorted, func(a, b Observation) int {
		return a.Date.Compare(b.Date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return Series{}, fmt.Errorf("%w: %s", ErrDuplicateDate, sorted[i].Date.Format(time.DateOnly))
		}
	}
	return Series{obs: sorted}, nil
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.obs)
}

// At returns the i-th observation in date order.
func (s Series) At(i int) Observation {
	return s.obs[i]
}

// Observations returns a copy of the observations in date order.
func (s Series) Observations() []Observation {
	return slices.Clone(s.obs)
}

// Dates returns the observation dates in order.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Date
	}
	return out
}

// Values returns the observation values in date order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Value
	}
	return out
}

// Within returns the observations whose value lies inside b, inclusive.
func (s Series) Within(b Bounds) Series {
	kept := make([]Observation, 0, len(s.obs))
	for _, o := range s.obs {
		if b.Contains(o.Value) {
			kept = append(kept, o)
		}
	}
	return Series{obs: kept}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
