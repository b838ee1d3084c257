// Command validate checks a page-view CSV against the invariants the chart
// pipeline relies on: the file loads cleanly, the percentile band filter keeps
// exactly the in-band values and is stable, the monthly averages match the raw
// observations, and months come out in calendar order.
//
// Usage:
//
//	go run ./cmd/validate -csv fcc-forum-pageviews.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/pageview-charts/internal/adapter/csvfile"
	"github.com/couchcryptid/pageview-charts/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "fcc-forum-pageviews.csv", "path to the page-view CSV")
	lower := flag.Float64("lower", domain.DefaultLowerQuantile, "lower quantile of the retained band")
	upper := flag.Float64("upper", domain.DefaultUpperQuantile, "upper quantile of the retained band")
	flag.Parse()

	os.Exit(run(*csvPath, *lower, *upper))
}

func run(csvPath string, lower, upper float64) int {
	fmt.Println("=== Page View Data Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	series, err := csvfile.NewLoader(csvPath, logger).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	filtered, bounds, err := domain.FilterOutliers(series, lower, upper)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: filter outliers: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateLoad(series),
		validateBand(series, filtered, bounds),
		validateMonthlyAverages(filtered),
		validateCalendarOrder(filtered),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Observations: %d loaded, %d retained, band [%.2f, %.2f]\n",
		series.Len(), filtered.Len(), bounds.Lower, bounds.Upper)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: load ──

func validateLoad(s domain.Series) *phase {
	p := &phase{name: "Phase 1: Load"}
	if s.Len() == 0 {
		p.errorf("series is empty")
		return p
	}
	for i := range s.Len() {
		o := s.At(i)
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			p.errorf("%s: non-finite value %v", o.Date.Format(time.DateOnly), o.Value)
		}
		if o.Value < 0 {
			p.errorf("%s: negative page views %v", o.Date.Format(time.DateOnly), o.Value)
		}
		if i > 0 && !s.At(i - 1).Date.Before(o.Date) {
			p.errorf("%s: not after %s", o.Date.Format(time.DateOnly), s.At(i-1).Date.Format(time.DateOnly))
		}
	}
	return p
}

// ── Phase 2: percentile band ──

func validateBand(all, filtered domain.Series, b domain.Bounds) *phase {
	p := &phase{name: "Phase 2: Percentile band"}
	if b.Lower > b.Upper {
		p.errorf("inverted band [%v, %v]", b.Lower, b.Upper)
	}

	kept := 0
	for _, v := range all.Values() {
		if b.Contains(v) {
			kept++
		}
	}
	if kept != filtered.Len() {
		p.errorf("retained %d observations, %d lie in the band", filtered.Len(), kept)
	}
	for _, o := range filtered.Observations() {
		if !b.Contains(o.Value) {
			p.errorf("%s: retained value %v outside band", o.Date.Format(time.DateOnly), o.Value)
		}
	}

	if again := filtered.Within(b); again.Len() != filtered.Len() {
		p.errorf("refiltering with the same band kept %d of %d", again.Len(), filtered.Len())
	}
	return p
}

// ── Phase 3: monthly averages ──

func validateMonthlyAverages(s domain.Series) *phase {
	p := &phase{name: "Phase 3: Monthly averages"}

	type cell struct {
		year  int
		month time.Month
	}
	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	for _, o := range s.Observations() {
		c := cell{o.Date.Year(), o.Date.Month()}
		sums[c] += o.Value
		counts[c]++
	}

	table := domain.MonthlyAverages(s)
	for c, n := range counts {
		want := sums[c] / float64(n)
		got, ok := table.Mean(c.year, c.month)
		if !ok {
			p.errorf("%d-%02d: missing from table", c.year, c.month)
			continue
		}
		if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			p.errorf("%d-%02d: mean %v, want %v", c.year, c.month, got, want)
		}
	}
	if n := len(table.PresentMeans()); n != len(counts) {
		p.errorf("table has %d populated cells, data has %d", n, len(counts))
	}

	again := domain.MonthlyAverages(s)
	if !slices.Equal(table.PresentMeans(), again.PresentMeans()) {
		p.errorf("monthly averages differ between identical runs")
	}
	return p
}

// ── Phase 4: calendar ordering ──

func validateCalendarOrder(s domain.Series) *phase {
	p := &phase{name: "Phase 4: Calendar ordering"}

	want := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	if got := domain.GroupByMonth(s).Labels(); !slices.Equal(got, want) {
		p.errorf("month groups %v, want %v", got, want)
	}
	if got := domain.MonthNames(); got[0] != "January" || got[11] != "December" {
		p.errorf("month names %v not in calendar order", got)
	}

	table := domain.MonthlyAverages(s)
	if !slices.IsSorted(table.Years) {
		p.errorf("bar chart years %v not ascending", table.Years)
	}
	years := domain.GroupByYear(s).Labels()
	if !slices.IsSorted(years) {
		p.errorf("box plot years %v not ascending", years)
	}
	return p
}
