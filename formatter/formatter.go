package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"staffing-calculator/models"
)

// ScenarioData holds one prepared outcome used by all formatters
type ScenarioData struct {
	Caption      string            `json:"caption"`
	Scenario     ScenarioInfo      `json:"scenario"`
	Requirements []RequirementRow  `json:"requirements"`
	Totals       TotalStaffingInfo `json:"total_staffing"`
}

// ScenarioInfo describes the axis values of a scenario
type ScenarioInfo struct {
	WaitingTimeSeconds  float64  `json:"awt_seconds"`
	ShrinkagePercent    float64  `json:"shrinkage_percent"`
	MaxOccupancyPercent float64  `json:"max_occupancy_percent"`
	HandlingTimeSeconds *float64 `json:"aht_seconds"`
	ServiceLevelPercent float64  `json:"service_level_target_percent"`
}

// RequirementRow is one interval-level staffing requirement
type RequirementRow struct {
	Day                 string  `json:"day"`
	Interval            string  `json:"interval"`
	HandlingTimeSeconds float64 `json:"aht_seconds"`
	RawPositions        float64 `json:"raw_positions"`
	Positions           float64 `json:"positions"`
	ServiceLevel        float64 `json:"service_level"`
	Occupancy           float64 `json:"occupancy"`
	WaitingProbability  float64 `json:"waiting_probability"`
	Status              string  `json:"status"`
	Error               string  `json:"error,omitempty"`
}

// TotalStaffingInfo is the weekly roll-up of a scenario
type TotalStaffingInfo struct {
	Days             []DayTotal `json:"days"`
	MaxHeadcountDays float64    `json:"maximum_value"`
	WeekTotal        float64    `json:"sum_of_the_week"`
	WeeklyFTE        float64    `json:"divided_by_working_days"`
}

// DayTotal is one day of the weekly roll-up
type DayTotal struct {
	Day              string  `json:"day"`
	SumRawPositions  float64 `json:"sum_of_raw_positions"`
	SumPositions     float64 `json:"sum_of_positions"`
	HourlyEquivalent float64 `json:"divided_by_2"`
	HeadcountDays    float64 `json:"divided_by_working_hours"`
}

// Caption renders a scenario point the way result headings show it.
func Caption(p models.ScenarioPoint) string {
	aht := "per interval"
	if p.HasHandlingTime {
		aht = formatFloat(p.HandlingTimeSeconds) + "s"
	}
	return fmt.Sprintf("AWT: %ss, Shrinkage: %s%%, Max Occupancy: %s%%, Average AHT: %s, Service Level Target: %s%%",
		formatFloat(p.WaitingTimeSeconds), formatFloat(p.ShrinkagePercent),
		formatFloat(p.MaxOccupancyPercent), aht, formatFloat(p.ServiceLevelPercent))
}

// prepareScenarioData converts an outcome into its display form
func prepareScenarioData(outcome models.ScenarioOutcome) ScenarioData {
	p := outcome.Point
	info := ScenarioInfo{
		WaitingTimeSeconds:  p.WaitingTimeSeconds,
		ShrinkagePercent:    p.ShrinkagePercent,
		MaxOccupancyPercent: p.MaxOccupancyPercent,
		ServiceLevelPercent: p.ServiceLevelPercent,
	}
	if p.HasHandlingTime {
		aht := p.HandlingTimeSeconds
		info.HandlingTimeSeconds = &aht
	}

	rows := make([]RequirementRow, len(outcome.Table))
	for i, req := range outcome.Table {
		rows[i] = RequirementRow{
			Day:                 req.Day.String(),
			Interval:            req.Interval.String(),
			HandlingTimeSeconds: req.HandlingTimeSeconds,
			RawPositions:        req.RawPositions,
			Positions:           req.Positions,
			ServiceLevel:        req.ServiceLevel,
			Occupancy:           req.Occupancy,
			WaitingProbability:  req.WaitingProbability,
			Status:              string(req.Status),
			Error:               req.Error,
		}
	}

	agg := outcome.Aggregate
	days := make([]DayTotal, len(agg.Days))
	for i, d := range agg.Days {
		days[i] = DayTotal{
			Day:              d.Day.String(),
			SumRawPositions:  d.SumRawPositions,
			SumPositions:     d.SumPositions,
			HourlyEquivalent: d.HourlyEquivalent,
			HeadcountDays:    d.HeadcountDays,
		}
	}

	return ScenarioData{
		Caption:      Caption(p),
		Scenario:     info,
		Requirements: rows,
		Totals: TotalStaffingInfo{
			Days:             days,
			MaxHeadcountDays: agg.MaxHeadcountDays,
			WeekTotal:        agg.WeekTotal,
			WeeklyFTE:        agg.WeeklyFTE,
		},
	}
}

// FormatText returns the text representation of the sweep outcomes
func FormatText(outcomes []models.ScenarioOutcome) string {
	var sb strings.Builder

	for i, outcome := range outcomes {
		if i > 0 {
			sb.WriteString("\n")
		}
		data := prepareScenarioData(outcome)
		sb.WriteString(fmt.Sprintf("Staffing Requirements for %s\n", data.Caption))
		if len(data.Requirements) == 0 {
			sb.WriteString("  none\n")
		}
		for _, row := range data.Requirements {
			sb.WriteString(formatTextLine(row))
			sb.WriteString("\n")
		}

		sb.WriteString("Total Staffing\n")
		for _, d := range data.Totals.Days {
			sb.WriteString(fmt.Sprintf("  %-9s : raw=%s, positions=%s, /2=%.2f, /hours=%.2f\n",
				d.Day, formatFloat(d.SumRawPositions), formatFloat(d.SumPositions),
				d.HourlyEquivalent, d.HeadcountDays))
		}
		sb.WriteString(fmt.Sprintf("  Maximum Value=%.2f, Sum of the Week=%.2f, Divided by Working Days=%.2f\n",
			data.Totals.MaxHeadcountDays, data.Totals.WeekTotal, data.Totals.WeeklyFTE))
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of the sweep outcomes
func FormatJSON(outcomes []models.ScenarioOutcome) string {
	data := make([]ScenarioData, len(outcomes))
	for i, outcome := range outcomes {
		data[i] = prepareScenarioData(outcome)
	}
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns one CSV row per interval-level requirement of every outcome
func FormatCSV(outcomes []models.ScenarioOutcome) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Day", "Interval", "AWT", "Shrinkage", "Max Occupancy",
		"Average AHT", "Service Level Target", "raw_positions", "positions",
		"service_level", "occupancy", "waiting_probability", "status", "error",
	})

	for _, outcome := range outcomes {
		p := outcome.Point
		for _, req := range outcome.Table {
			writer.Write([]string{
				req.Day.String(),
				req.Interval.String(),
				formatFloat(p.WaitingTimeSeconds),
				formatFloat(p.ShrinkagePercent),
				formatFloat(p.MaxOccupancyPercent),
				formatFloat(req.HandlingTimeSeconds),
				formatFloat(p.ServiceLevelPercent),
				formatFloat(req.RawPositions),
				formatFloat(req.Positions),
				formatFloat(req.ServiceLevel),
				formatFloat(req.Occupancy),
				formatFloat(req.WaitingProbability),
				string(req.Status),
				req.Error,
			})
		}
	}

	writer.Flush()
	return sb.String()
}

// FormatTotalsCSV returns one CSV row per day of every outcome's weekly roll-up
func FormatTotalsCSV(outcomes []models.ScenarioOutcome) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"Scenario", "Day", "Sum of Raw Positions", "Sum of Positions",
		"Divided by 2", "Divided by Working Hours", "Maximum Value",
		"Sum of the Week", "Divided by Working Days",
	})

	for _, outcome := range outcomes {
		caption := Caption(outcome.Point)
		agg := outcome.Aggregate
		for _, d := range agg.Days {
			writer.Write([]string{
				caption,
				d.Day.String(),
				formatFloat(d.SumRawPositions),
				formatFloat(d.SumPositions),
				formatFloat(d.HourlyEquivalent),
				formatFloat(d.HeadcountDays),
				formatFloat(agg.MaxHeadcountDays),
				formatFloat(agg.WeekTotal),
				formatFloat(agg.WeeklyFTE),
			})
		}
	}

	writer.Flush()
	return sb.String()
}

// formatTextLine formats a single requirement line for text output
func formatTextLine(row RequirementRow) string {
	line := fmt.Sprintf("  %-9s %s : raw=%s, positions=%s, service_level=%.3f, occupancy=%.3f, waiting_probability=%.3f",
		row.Day, row.Interval, formatFloat(row.RawPositions), formatFloat(row.Positions),
		row.ServiceLevel, row.Occupancy, row.WaitingProbability)
	if row.Status == string(models.StatusFailed) {
		line += fmt.Sprintf(" [FAILED: %s]", row.Error)
	}
	return line
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
