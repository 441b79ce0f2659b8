// Package aggregator rolls interval-level staffing requirements up into
// daily headcount and weekly FTE figures.
package aggregator

import (
	"fmt"
	"math"
	"time"

	"staffing-calculator/errors"
	"staffing-calculator/models"
)

// SlotsPerHour converts a sum over interval slots into hour equivalents.
const SlotsPerHour = 60 / models.IntervalMinutes

// Aggregate reduces table to a WeeklyAggregate:
//
//	hourlyEquivalent = sumPositions / SlotsPerHour
//	headcountDays    = hourlyEquivalent / workingHoursPerDay
//	weekTotal        = sum of headcountDays over the week
//	weeklyFTE        = weekTotal / workingDaysPerWeek
//
// Every day of the week appears, zero-filled when table has no rows for it.
// A row whose Day is not Sunday..Saturday is rejected with ErrInvalidDay.
// Failed rows carry zero positions and so add nothing.
func Aggregate(table models.ScenarioResultTable, workingHoursPerDay, workingDaysPerWeek float64) (models.WeeklyAggregate, error) {
	if err := CheckWorkingTime(workingHoursPerDay, workingDaysPerWeek); err != nil {
		return models.WeeklyAggregate{}, err
	}

	agg := models.WeeklyAggregate{
		WorkingHoursPerDay: workingHoursPerDay,
		WorkingDaysPerWeek: workingDaysPerWeek,
	}
	for i, day := range models.Days {
		agg.Days[i].Day = day
	}
	for _, req := range table {
		if req.Day < time.Sunday || req.Day > time.Saturday {
			return models.WeeklyAggregate{}, fmt.Errorf("%w: %d at interval %s", errors.ErrInvalidDay, int(req.Day), req.Interval)
		}
		d := &agg.Days[req.Day]
		d.SumRawPositions += req.RawPositions
		d.SumPositions += req.Positions
	}

	for i := range agg.Days {
		d := &agg.Days[i]
		d.HourlyEquivalent = d.SumPositions / SlotsPerHour
		d.HeadcountDays = d.HourlyEquivalent / workingHoursPerDay
		agg.WeekTotal += d.HeadcountDays
		agg.MaxHeadcountDays = math.Max(agg.MaxHeadcountDays, d.HeadcountDays)
	}
	agg.WeeklyFTE = agg.WeekTotal / workingDaysPerWeek
	return agg, nil
}

// CheckWorkingTime validates the working hours and days used by Aggregate.
func CheckWorkingTime(workingHoursPerDay, workingDaysPerWeek float64) error {
	if !(workingHoursPerDay > 0) || math.IsInf(workingHoursPerDay, 0) {
		return fmt.Errorf("%w: got %v", errors.ErrInvalidWorkingHours, workingHoursPerDay)
	}
	if !(workingDaysPerWeek > 0) || math.IsInf(workingDaysPerWeek, 0) {
		return fmt.Errorf("%w: got %v", errors.ErrInvalidWorkingDays, workingDaysPerWeek)
	}
	return nil
}
