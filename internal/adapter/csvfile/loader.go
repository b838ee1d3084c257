// Package csvfile loads the daily page-view series from a CSV export.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"golang.org/x/text/cases"
)

// Column names expected in the header row, compared case-insensitively.
const (
	DateColumn  = "date"
	ValueColumn = "value"
)

var (
	// ErrMissingColumn is returned when the header lacks the date or value column.
	ErrMissingColumn = errors.New("missing column")

	// ErrMalformedDate is returned when a date cell cannot be parsed.
	ErrMalformedDate = errors.New("malformed date")

	// ErrMalformedValue is returned when a value cell is not a number.
	ErrMalformedValue = errors.New("malformed value")
)

// dateLayouts are tried in order for every date cell.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Loader reads the series from a CSV file on disk.
// It implements pipeline.Extractor.
type Loader struct {
	path   string
	logger *slog.Logger
}

// NewLoader creates a Loader for the given file path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load opens the file and parses it into a date-ordered series.
func (l *Loader) Load(ctx context.Context) (domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return domain.Series{}, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return domain.Series{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return domain.Series{}, fmt.Errorf("%s: %w", l.path, err)
	}

	l.logger.Debug("observations loaded",
		"path", l.path,
		"count", s.Len(),
		"first", s.At(0).Date.Format(time.DateOnly),
		"last", s.At(s.Len()-1).Date.Format(time.DateOnly),
	)
	return s, nil
}

// Read parses CSV with a header row naming a date and a value column. Other
// columns are ignored. Rows may be in any order.
func Read(r io.Reader) (domain.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Series{}, domain.ErrEmptySeries
	}
	if err != nil {
		return domain.Series{}, fmt.Errorf("read header: %w", err)
	}

	dateIdx, valueIdx, err := columnIndices(header)
	if err != nil {
		return domain.Series{}, err
	}

	var obs []domain.Observation
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Series{}, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if dateIdx >= len(record) || valueIdx >= len(record) {
			return domain.Series{}, fmt.Errorf("line %d: %w: row has %d fields", line, ErrMissingColumn, len(record))
		}

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return domain.Series{}, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := parseValue(record[valueIdx])
		if err != nil {
			return domain.Series{}, fmt.Errorf("line %d: %w", line, err)
		}
		obs = append(obs, domain.Observation{Date: date, Value: value})
	}

	return domain.NewSeries(obs)
}

func columnIndices(header []string) (dateIdx, valueIdx int, err error) {
	fold := cases.Fold()
	dateIdx, valueIdx = -1, -1
	for i, h := range header {
		h = fold.String(strings.TrimSpace(strings.Trim(h, "\"\ufeff")))
		switch h {
		case DateColumn:
			if dateIdx == -1 {
				dateIdx = i
			}
		case ValueColumn:
			if valueIdx == -1 {
				valueIdx = i
			}
		}
	}
	if dateIdx == -1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMissingColumn, DateColumn)
	}
	if valueIdx == -1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMissingColumn, ValueColumn)
	}
	return dateIdx, valueIdx, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedValue, s)
	}
	return v, nil
}
