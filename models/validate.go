package models

import (
	"fmt"
	"math"

	"staffing-calculator/errors"
)

// Validate rejects grids that cannot describe demand: negative or
// non-finite calls, or negative or non-finite handling times.
func (g DemandGrid) Validate() error {
	for _, day := range Days {
		for i := range IntervalsPerDay {
			calls := g.Calls[day][i]
			if calls < 0 || math.IsNaN(calls) || math.IsInf(calls, 0) {
				return fmt.Errorf("%w: calls offered %v on %s %s", errors.ErrInvalidGrid, calls, day, Interval(i))
			}
			if !g.HasHandlingTimes {
				continue
			}
			aht := g.HandlingTimes[day][i]
			if aht < 0 || math.IsNaN(aht) || math.IsInf(aht, 0) {
				return fmt.Errorf("%w: handling time %v on %s %s", errors.ErrInvalidGrid, aht, day, Interval(i))
			}
		}
	}
	return nil
}

// Validate checks that every axis value is a finite non-negative number.
// Empty axes are valid; they simply produce no scenario points. The
// handling time axis is not read, and so not checked, in per-cell mode.
func (a ScenarioAxes) Validate() error {
	axes := map[string][]float64{
		"waiting time":         a.WaitingTimes,
		"shrinkage":            a.Shrinkages,
		"max occupancy":        a.MaxOccupancies,
		"service level target": a.ServiceLevelTargets,
	}
	if a.Mode != PerCellHandlingTime {
		axes["handling time"] = a.HandlingTimes
	}
	for name, values := range axes {
		for _, v := range values {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s %v", errors.ErrInvalidAxisValue, name, v)
			}
		}
	}
	if a.Mode != ScalarHandlingTime && a.Mode != PerCellHandlingTime {
		return fmt.Errorf("%w: unknown handling time mode %v", errors.ErrInvalidAxisValue, a.Mode)
	}
	return nil
}
