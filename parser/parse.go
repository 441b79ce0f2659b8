package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"staffing-calculator/errors"
	"staffing-calculator/metrics"
	"staffing-calculator/models"
)

// ParseDemand reads a weekly calls-offered table from CSV.
//
// Each data row is an interval start time ("9:00", "09:00" or "09:00:00")
// followed by seven values, Sunday through Saturday. Lines starting with '#'
// are comments. An optional header row whose first field is "Interval" must
// name the days in Sunday-first order. All 48 half-hour intervals must appear
// exactly once, in any order. Empty value fields are read as 0.
func ParseDemand(r io.Reader) (models.DemandGrid, error) {
	var grid models.DemandGrid
	calls, err := parseWeekTable(r, errors.ErrInvalidCallsValue)
	if err != nil {
		return grid, err
	}
	grid.Calls = calls
	return grid, nil
}

// ParseHandlingTimes reads a weekly average-handling-time table (seconds)
// in the same layout as ParseDemand. The result is meant for
// DemandGrid.HandlingTimes in per-cell handling time mode.
func ParseHandlingTimes(r io.Reader) ([models.DaysPerWeek][models.IntervalsPerDay]float64, error) {
	return parseWeekTable(r, errors.ErrInvalidAHTValue)
}

func parseWeekTable(r io.Reader, valueErr error) (table [models.DaysPerWeek][models.IntervalsPerDay]float64, err error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
		}
	}()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	var seen [models.IntervalsPerDay]bool
	rows := 0

	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return table, fmt.Errorf("error reading CSV: %w", readErr)
		}
		// Blank and comment lines are skipped by the reader, so ask it for the line.
		lineNum, _ := reader.FieldPos(0)

		if len(record) != models.DaysPerWeek+1 {
			return table, &errors.ParseError{Line: lineNum, Record: record, Err: errors.ErrInvalidFieldCount}
		}

		first := strings.TrimSpace(record[0])
		if strings.EqualFold(first, "interval") {
			if err := checkDayHeader(record[1:]); err != nil {
				return table, &errors.ParseError{Line: lineNum, Record: record, Err: err}
			}
			continue
		}

		interval, err := parseInterval(first)
		if err != nil {
			return table, &errors.ParseError{Line: lineNum, Record: record, Err: err}
		}
		if seen[interval] {
			return table, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %s", errors.ErrDuplicateInterval, interval),
			}
		}
		seen[interval] = true

		for d, field := range record[1:] {
			v, err := parseValue(field)
			if err != nil {
				return table, &errors.ParseError{
					Line:   lineNum,
					Record: record,
					Err:    fmt.Errorf("%w: %s %s: %v", valueErr, models.Days[d], interval, err),
				}
			}
			table[d][interval] = v
		}
		rows++
		metrics.ParserRecordsTotal.Inc()
	}

	if rows == 0 {
		return table, errors.ErrEmptyDemand
	}
	for i, ok := range seen {
		if !ok {
			return table, fmt.Errorf("%w: %s", errors.ErrMissingInterval, models.Interval(i))
		}
	}
	return table, nil
}

func checkDayHeader(fields []string) error {
	for i, f := range fields {
		name := strings.TrimSpace(f)
		day := models.Days[i]
		if !strings.EqualFold(name, day.String()) && !strings.EqualFold(name, day.String()[:3]) {
			return fmt.Errorf("%w: column %d is %q, want %s", errors.ErrDayMismatch, i+2, name, day)
		}
	}
	return nil
}

func parseInterval(value string) (models.Interval, error) {
	layouts := []string{"15:04", "15:04:05"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			lastErr = err
			continue
		}
		if t.Second() != 0 {
			return 0, fmt.Errorf("%w: %s", errors.ErrIntervalMismatch, value)
		}
		interval, ok := models.IntervalAt(t.Hour(), t.Minute())
		if !ok {
			return 0, fmt.Errorf("%w: %s", errors.ErrIntervalMismatch, value)
		}
		return interval, nil
	}
	return 0, fmt.Errorf("%w: %v", errors.ErrInvalidInterval, lastErr)
}

func parseValue(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q must be a non-negative number", field)
	}
	return v, nil
}

// errorType maps a parse failure to a low-cardinality metric label.
func errorType(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrInvalidFieldCount):
		return "invalid_field_count"
	case stderrors.Is(err, errors.ErrInvalidInterval), stderrors.Is(err, errors.ErrIntervalMismatch):
		return "invalid_interval"
	case stderrors.Is(err, errors.ErrDuplicateInterval):
		return "duplicate_interval"
	case stderrors.Is(err, errors.ErrMissingInterval):
		return "missing_interval"
	case stderrors.Is(err, errors.ErrDayMismatch):
		return "day_mismatch"
	case stderrors.Is(err, errors.ErrInvalidCallsValue), stderrors.Is(err, errors.ErrInvalidAHTValue):
		return "invalid_value"
	case stderrors.Is(err, errors.ErrEmptyDemand):
		return "empty"
	default:
		return "read"
	}
}
