package models

import (
	"fmt"
	"time"
)

const (
	// IntervalMinutes is the length of one demand interval.
	IntervalMinutes = 30
	// IntervalsPerDay is the number of intervals in a day (00:00 .. 23:30).
	IntervalsPerDay = 24 * 60 / IntervalMinutes
	// DaysPerWeek is the number of days in the weekly grid.
	DaysPerWeek = 7
	// CellsPerWeek is the size of the weekly grid.
	CellsPerWeek = DaysPerWeek * IntervalsPerDay
)

// Days is the fixed, Sunday-first day order of the weekly grid.
var Days = [DaysPerWeek]time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// Interval is the index of a half-hour slot within a day (0 = 00:00, 47 = 23:30).
type Interval int

// Minutes returns the minutes after midnight at which the interval starts.
func (i Interval) Minutes() int {
	return int(i) * IntervalMinutes
}

func (i Interval) String() string {
	m := i.Minutes()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Valid reports whether i is one of the day's interval boundaries.
func (i Interval) Valid() bool {
	return i >= 0 && i < IntervalsPerDay
}

// IntervalAt returns the interval starting at hour:minute.
// ok is false when the time is not a half-hour boundary of a day.
func IntervalAt(hour, minute int) (Interval, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || minute%IntervalMinutes != 0 {
		return 0, false
	}
	return Interval((hour*60 + minute) / IntervalMinutes), true
}

// HandlingTimeMode selects where the average handling time of a sweep comes from.
type HandlingTimeMode int

const (
	// ScalarHandlingTime sweeps the HandlingTimes axis over the whole grid.
	ScalarHandlingTime HandlingTimeMode = iota
	// PerCellHandlingTime takes the handling time from each demand cell.
	PerCellHandlingTime
)

func (m HandlingTimeMode) String() string {
	switch m {
	case ScalarHandlingTime:
		return "scalar"
	case PerCellHandlingTime:
		return "per-cell"
	default:
		return fmt.Sprintf("HandlingTimeMode(%d)", int(m))
	}
}

// DemandCell is the demand of one (day, interval) slot.
type DemandCell struct {
	Day                 time.Weekday
	Interval            Interval
	CallsOffered        float64
	HandlingTimeSeconds float64
	// HasHandlingTime is false when a single scalar handling time applies.
	HasHandlingTime bool
}

// DemandGrid holds a week of demand indexed by [day][interval].
// It is passed by value so a sweep never observes later edits.
type DemandGrid struct {
	Calls            [DaysPerWeek][IntervalsPerDay]float64
	HandlingTimes    [DaysPerWeek][IntervalsPerDay]float64
	HasHandlingTimes bool
}

// Cell returns the demand cell for day and interval.
func (g DemandGrid) Cell(day time.Weekday, interval Interval) DemandCell {
	cell := DemandCell{
		Day:          day,
		Interval:     interval,
		CallsOffered: g.Calls[day][interval],
	}
	if g.HasHandlingTimes {
		cell.HandlingTimeSeconds = g.HandlingTimes[day][interval]
		cell.HasHandlingTime = true
	}
	return cell
}

// ScenarioAxes are the independent parameter axes of a sweep.
// Waiting and handling times are in seconds, the rest in percent.
type ScenarioAxes struct {
	WaitingTimes        []float64
	Shrinkages          []float64
	MaxOccupancies      []float64
	HandlingTimes       []float64 // ignored in PerCellHandlingTime mode
	ServiceLevelTargets []float64
	Mode                HandlingTimeMode
}

// ScenarioPoint is one fully resolved combination of axis values.
type ScenarioPoint struct {
	WaitingTimeSeconds  float64 `json:"awt_seconds"`
	ShrinkagePercent    float64 `json:"shrinkage_percent"`
	MaxOccupancyPercent float64 `json:"max_occupancy_percent"`
	HandlingTimeSeconds float64 `json:"aht_seconds,omitempty"`
	HasHandlingTime     bool    `json:"-"`
	ServiceLevelPercent float64 `json:"service_level_target_percent"`
}

// EvaluationStatus flags whether the oracle produced a result for a cell.
type EvaluationStatus string

const (
	StatusOK     EvaluationStatus = "ok"
	StatusFailed EvaluationStatus = "failed"
)

// StaffingRequirement is the evaluation of one demand cell under one scenario.
// Every field is always present; numeric fields are zero when the oracle
// did not provide them.
type StaffingRequirement struct {
	Day                 time.Weekday     `json:"day"`
	Interval            Interval         `json:"interval"`
	WaitingTimeSeconds  float64          `json:"awt_seconds"`
	ShrinkagePercent    float64          `json:"shrinkage_percent"`
	MaxOccupancyPercent float64          `json:"max_occupancy_percent"`
	HandlingTimeSeconds float64          `json:"aht_seconds"`
	ServiceLevelPercent float64          `json:"service_level_target_percent"`
	RawPositions        float64          `json:"raw_positions"`
	Positions           float64          `json:"positions"`
	ServiceLevel        float64          `json:"service_level"`
	Occupancy           float64          `json:"occupancy"`
	WaitingProbability  float64          `json:"waiting_probability"`
	Status              EvaluationStatus `json:"status"`
	Error               string           `json:"error,omitempty"`
}

// ScenarioResultTable is the ordered list of requirements for one scenario,
// in (day, interval) order. Skipped cells are absent.
type ScenarioResultTable []StaffingRequirement

// DayAggregate is one row of the weekly staffing summary.
type DayAggregate struct {
	Day              time.Weekday `json:"day"`
	SumRawPositions  float64      `json:"sum_raw_positions"`
	SumPositions     float64      `json:"sum_positions"`
	HourlyEquivalent float64      `json:"hourly_equivalent"`
	HeadcountDays    float64      `json:"headcount_days"`
}

// WeeklyAggregate rolls a ScenarioResultTable up into FTE figures.
// Days are always ordered Sunday to Saturday.
type WeeklyAggregate struct {
	Days               [DaysPerWeek]DayAggregate `json:"days"`
	MaxHeadcountDays   float64                   `json:"max_headcount_days"`
	WeekTotal          float64                   `json:"week_total"`
	WeeklyFTE          float64                   `json:"weekly_fte"`
	WorkingHoursPerDay float64                   `json:"working_hours_per_day"`
	WorkingDaysPerWeek float64                   `json:"working_days_per_week"`
}

// ScenarioOutcome is the full result of one scenario point.
type ScenarioOutcome struct {
	Point     ScenarioPoint       `json:"scenario"`
	Table     ScenarioResultTable `json:"requirements"`
	Aggregate WeeklyAggregate     `json:"total_staffing"`
}
