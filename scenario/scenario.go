// Package scenario enumerates the cartesian product of scenario axes.
package scenario

import (
	"iter"

	"staffing-calculator/models"
)

// Points returns every scenario point of axes, nesting waiting time,
// shrinkage, max occupancy, handling time (scalar mode only) and service
// level target, outermost first. The sequence is lazy and can be ranged
// over any number of times. An empty axis yields no points.
func Points(axes models.ScenarioAxes) iter.Seq[models.ScenarioPoint] {
	handling := handlingAxis(axes)
	return func(yield func(models.ScenarioPoint) bool) {
		for _, awt := range axes.WaitingTimes {
			for _, shrinkage := range axes.Shrinkages {
				for _, occupancy := range axes.MaxOccupancies {
					for _, aht := range handling {
						for _, target := range axes.ServiceLevelTargets {
							p := models.ScenarioPoint{
								WaitingTimeSeconds:  awt,
								ShrinkagePercent:    shrinkage,
								MaxOccupancyPercent: occupancy,
								ServiceLevelPercent: target,
							}
							if aht != nil {
								p.HandlingTimeSeconds = *aht
								p.HasHandlingTime = true
							}
							if !yield(p) {
								return
							}
						}
					}
				}
			}
		}
	}
}

// Count returns the number of points Points(axes) yields.
func Count(axes models.ScenarioAxes) int {
	return len(axes.WaitingTimes) *
		len(axes.Shrinkages) *
		len(axes.MaxOccupancies) *
		len(handlingAxis(axes)) *
		len(axes.ServiceLevelTargets)
}

// handlingAxis returns the handling time values to iterate. In per-cell
// mode there is a single nil entry: the cell supplies the value.
func handlingAxis(axes models.ScenarioAxes) []*float64 {
	if axes.Mode == models.PerCellHandlingTime {
		return []*float64{nil}
	}
	out := make([]*float64, len(axes.HandlingTimes))
	for i := range axes.HandlingTimes {
		out[i] = &axes.HandlingTimes[i]
	}
	return out
}
