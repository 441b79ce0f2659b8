// Package oracle adapts demand cells and scenario points to a staffing
// oracle, the queuing model that turns a workload into required positions.
package oracle

import (
	"staffing-calculator/models"
)

// Params is the input of one oracle call. Times are in minutes and
// percentages are fractions in [0, 1].
type Params struct {
	Transactions    float64
	AHTMinutes      float64
	IntervalMinutes float64
	ASAMinutes      float64
	Shrinkage       float64
	ServiceLevel    float64
	MaxOccupancy    float64
}

// Result is the output of one oracle call. Fields an oracle does not
// compute are left at zero.
type Result struct {
	RawPositions       float64
	Positions          float64
	ServiceLevel       float64
	Occupancy          float64
	WaitingProbability float64
}

// StaffingOracle computes staffing requirements for a single workload.
// Implementations must be pure: the sweep may call them concurrently.
type StaffingOracle interface {
	RequiredPositions(p Params) (Result, error)
}

// OracleFunc lets an ordinary function act as a StaffingOracle.
type OracleFunc func(p Params) (Result, error)

// RequiredPositions calls f(p).
func (f OracleFunc) RequiredPositions(p Params) (Result, error) {
	return f(p)
}

// SkipReason says why a cell was not evaluated.
type SkipReason string

const (
	NotSkipped       SkipReason = ""
	SkipNoCalls      SkipReason = "no_calls"
	SkipNoHandleTime SkipReason = "no_handling_time"
)

// Skip reports whether cell is degenerate under point and must not be
// evaluated: no calls offered, or, when the handling time comes from the
// cell, a zero or absent handling time. A zero scalar handling time is
// not skipped; the oracle rejects it and the row is flagged instead.
func Skip(cell models.DemandCell, point models.ScenarioPoint) SkipReason {
	if cell.CallsOffered == 0 {
		return SkipNoCalls
	}
	if point.HasHandlingTime {
		return NotSkipped
	}
	if !cell.HasHandlingTime || cell.HandlingTimeSeconds == 0 {
		return SkipNoHandleTime
	}
	return NotSkipped
}

// ParamsFor converts a cell and scenario into oracle units: seconds to
// minutes and percent to fractions, with a fixed interval length.
func ParamsFor(cell models.DemandCell, point models.ScenarioPoint) Params {
	aht, _ := handlingTime(cell, point)
	return Params{
		Transactions:    cell.CallsOffered,
		AHTMinutes:      aht / 60,
		IntervalMinutes: models.IntervalMinutes,
		ASAMinutes:      point.WaitingTimeSeconds / 60,
		Shrinkage:       point.ShrinkagePercent / 100,
		ServiceLevel:    point.ServiceLevelPercent / 100,
		MaxOccupancy:    point.MaxOccupancyPercent / 100,
	}
}

// Evaluate runs the oracle for one (cell, scenario) pair. ok is false when
// the cell is skipped, in which case no oracle call is made. An oracle
// error yields a zero-filled row flagged with StatusFailed.
func Evaluate(o StaffingOracle, cell models.DemandCell, point models.ScenarioPoint) (req models.StaffingRequirement, ok bool) {
	if Skip(cell, point) != NotSkipped {
		return req, false
	}
	aht, _ := handlingTime(cell, point)
	req = models.StaffingRequirement{
		Day:                 cell.Day,
		Interval:            cell.Interval,
		WaitingTimeSeconds:  point.WaitingTimeSeconds,
		ShrinkagePercent:    point.ShrinkagePercent,
		MaxOccupancyPercent: point.MaxOccupancyPercent,
		HandlingTimeSeconds: aht,
		ServiceLevelPercent: point.ServiceLevelPercent,
		Status:              models.StatusOK,
	}

	res, err := o.RequiredPositions(ParamsFor(cell, point))
	if err != nil {
		req.Status = models.StatusFailed
		req.Error = err.Error()
		return req, true
	}
	req.RawPositions = res.RawPositions
	req.Positions = res.Positions
	req.ServiceLevel = res.ServiceLevel
	req.Occupancy = res.Occupancy
	req.WaitingProbability = res.WaitingProbability
	return req, true
}

// handlingTime picks the cell's handling time in per-cell mode and the
// scenario's otherwise.
func handlingTime(cell models.DemandCell, point models.ScenarioPoint) (float64, bool) {
	if point.HasHandlingTime {
		return point.HandlingTimeSeconds, true
	}
	if cell.HasHandlingTime {
		return cell.HandlingTimeSeconds, true
	}
	return 0, false
}
