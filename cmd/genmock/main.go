// Command genmock writes a synthetic daily page-view CSV in the same shape as
// the forum export: a date,value header and one row per day. The series has an
// upward trend, weekly and yearly seasonality, noise and optional spikes, and
// is fully determined by the seed.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out testdata/pageviews.csv \
//	  -start 2016-05-09 -days 1304 -spikes 6 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/pageview-charts/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	start := flag.String("start", "2016-05-09", "first date, YYYY-MM-DD")
	days := flag.Int("days", 1304, "number of daily rows")
	seed := flag.Int64("seed", 42, "random seed")
	spikes := flag.Int("spikes", 6, "number of injected extreme days, half high and half low")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days < 1 {
		return fmt.Errorf("invalid -days: must be positive")
	}
	if *spikes < 0 || *spikes > *days {
		return fmt.Errorf("invalid -spikes: must be 0-%d", *days)
	}

	obs := generate(first, *days, *spikes, rand.New(rand.NewSource(*seed))) //nolint:gosec // reproducible fixtures, not security
	if err := writeCSV(*out, obs); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d rows to %s", len(obs), *out)

	return printStats(obs)
}

// generate produces one observation per day starting at first.
func generate(first time.Time, days, spikes int, rng *rand.Rand) []domain.Observation {
	obs := make([]domain.Observation, days)
	for i := range obs {
		t := float64(i)
		trend := 20000 + 110*t
		yearly := 0.25 * trend * math.Sin(2*math.Pi*(t-60)/365.25)
		weekly := 0.1 * trend * math.Cos(2*math.Pi*t/7)
		noise := rng.NormFloat64() * 0.08 * trend
		obs[i] = domain.Observation{
			Date:  first.AddDate(0, 0, i),
			Value: math.Max(1, math.Round(trend+yearly+weekly+noise)),
		}
	}

	for n, i := range rng.Perm(days)[:spikes] {
		if n%2 == 0 {
			obs[i].Value = math.Round(obs[i].Value * (8 + 4*rng.Float64()))
		} else {
			obs[i].Value = math.Max(1, math.Round(obs[i].Value*0.05))
		}
	}
	return obs
}

func writeCSV(path string, obs []domain.Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "value"}); err != nil {
		return err
	}
	for _, o := range obs {
		row := []string{o.Date.Format(time.DateOnly), strconv.FormatFloat(o.Value, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func printStats(obs []domain.Observation) error {
	s, err := domain.NewSeries(obs)
	if err != nil {
		return err
	}
	filtered, bounds, err := domain.FilterOutliers(s, domain.DefaultLowerQuantile, domain.DefaultUpperQuantile)
	if err != nil {
		return err
	}

	log.Printf("range: %s to %s",
		s.At(0).Date.Format(time.DateOnly), s.At(s.Len()-1).Date.Format(time.DateOnly))
	log.Printf("percentile band: [%.1f, %.1f]", bounds.Lower, bounds.Upper)
	log.Printf("retained: %d of %d", filtered.Len(), s.Len())

	years := domain.GroupByYear(filtered)
	for _, g := range years {
		log.Printf("  %s: %d days", g.Label, len(g.Values))
	}
	return nil
}
