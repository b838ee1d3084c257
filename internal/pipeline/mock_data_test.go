package pipeline_test

import (
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"github.com/stretchr/testify/require"
)

// outlierValue is far above anything syntheticSeries generates.
const outlierValue = 5_000_000

var syntheticStart = time.Date(2016, time.May, 9, 0, 0, 0, 0, time.UTC)

// syntheticSeries builds three years of daily page views with a trend, a
// yearly cycle and a weekly cycle. When withOutlier is set, the value on
// 2017-11-23 is replaced by outlierValue.
func syntheticSeries(t *testing.T, withOutlier bool) domain.Series {
	t.Helper()
	spike := time.Date(2017, time.November, 23, 0, 0, 0, 0, time.UTC)

	days := 3 * 365
	obs := make([]domain.Observation, days)
	for i := range obs {
		date := syntheticStart.AddDate(0, 0, i)
		value := 40000 + 60*float64(i) +
			15000*math.Sin(2*math.Pi*float64(i)/365) +
			4000*math.Cos(2*math.Pi*float64(i)/7) +
			float64((i*7919)%2500)
		if withOutlier && date.Equal(spike) {
			value = outlierValue
		}
		obs[i] = domain.Observation{Date: date, Value: value}
	}

	s, err := domain.NewSeries(obs)
	require.NoError(t, err)
	return s
}
