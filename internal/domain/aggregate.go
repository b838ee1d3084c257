package domain

import (
	"slices"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Months lists the calendar months in chronological order.
var Months = [12]time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}

// MonthNames returns the full month names, January first.
func MonthNames() []string {
	out := make([]string, len(Months))
	for i, m := range Months {
		out[i] = m.String()
	}
	return out
}

// MonthAbbrevs returns the three-letter month names, Jan first.
func MonthAbbrevs() []string {
	out := make([]string, len(Months))
	for i, m := range Months {
		out[i] = m.String()[:3]
	}
	return out
}

// MonthlyAverageTable holds the mean value per (year, month). Rows are years
// in ascending order, columns are calendar months January..December.
type MonthlyAverageTable struct {
	Years  []int
	Means  [][12]float64
	Counts [][12]int
}

// Mean returns the average for the given year and month. ok is false when no
// observation fell in that cell.
func (t MonthlyAverageTable) Mean(year int, month time.Month) (mean float64, ok bool) {
	row, found := slices.BinarySearch(t.Years, year)
	if !found {
		return 0, false
	}
	col := int(month) - 1
	if t.Counts[row][col] == 0 {
		return 0, false
	}
	return t.Means[row][col], true
}

// MonthColumn returns the per-year means for one month, in year order. Cells
// without observations are zero.
func (t MonthlyAverageTable) MonthColumn(month time.Month) []float64 {
	col := int(month) - 1
	out := make([]float64, len(t.Years))
	for i := range t.Years {
		out[i] = t.Means[i][col]
	}
	return out
}

// PresentMeans returns every populated cell mean, row by row.
func (t MonthlyAverageTable) PresentMeans() []float64 {
	var out []float64
	for i := range t.Years {
		for j := range Months {
			if t.Counts[i][j] > 0 {
				out = append(out, t.Means[i][j])
			}
		}
	}
	return out
}

// MonthlyAverages groups s by (year, month) and averages each group.
func MonthlyAverages(s Series) MonthlyAverageTable {
	buckets := make(map[int]*[12][]float64)
	for _, o := range s.obs {
		y := o.Date.Year()
		b, ok := buckets[y]
		if !ok {
			b = new([12][]float64)
			buckets[y] = b
		}
		m := int(o.Date.Month()) - 1
		b[m] = append(b[m], o.Value)
	}

	years := make([]int, 0, len(buckets))
	for y := range buckets {
		years = append(years, y)
	}
	slices.Sort(years)

	t := MonthlyAverageTable{
		Years:  years,
		Means:  make([][12]float64, len(years)),
		Counts: make([][12]int, len(years)),
	}
	for i, y := range years {
		for m, values := range buckets[y] {
			if len(values) == 0 {
				continue
			}
			t.Means[i][m] = stat.Mean(values, nil)
			t.Counts[i][m] = len(values)
		}
	}
	return t
}

// Group is a labelled bucket of values.
type Group struct {
	Label  string
	Values []float64
}

// Groups is an ordered list of buckets.
type Groups []Group

// Labels returns the bucket labels in order.
func (g Groups) Labels() []string {
	out := make([]string, len(g))
	for i, grp := range g {
		out[i] = grp.Label
	}
	return out
}

// AllValues returns every value across all buckets, bucket by bucket.
func (g Groups) AllValues() []float64 {
	var out []float64
	for _, grp := range g {
		out = append(out, grp.Values...)
	}
	return out
}

// GroupByYear buckets the values of s by calendar year, years ascending.
func GroupByYear(s Series) Groups {
	var out Groups
	for _, o := range s.obs {
		label := strconv.Itoa(o.Date.Year())
		// s is date-ordered, so a new year always starts a new bucket.
		if n := len(out); n == 0 || out[n-1].Label != label {
			out = append(out, Group{Label: label})
		}
		last := &out[len(out)-1]
		last.Values = append(last.Values, o.Value)
	}
	return out
}

// GroupByMonth buckets the values of s by abbreviated month name across all
// years. The result always has twelve buckets, Jan..Dec; months without
// observations have no values.
func GroupByMonth(s Series) Groups {
	out := make(Groups, len(Months))
	for i, abbr := range MonthAbbrevs() {
		out[i].Label = abbr
	}
	for _, o := range s.obs {
		m := int(o.Date.Month()) - 1
		out[m].Values = append(out[m].Values, o.Value)
	}
	return out
}
