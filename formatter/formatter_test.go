package formatter_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"staffing-calculator/formatter"
	"staffing-calculator/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var point = models.ScenarioPoint{
	WaitingTimeSeconds:  20,
	ShrinkagePercent:    30,
	MaxOccupancyPercent: 80,
	HandlingTimeSeconds: 300,
	HasHandlingTime:     true,
	ServiceLevelPercent: 85,
}

const caption = "AWT: 20s, Shrinkage: 30%, Max Occupancy: 80%, Average AHT: 300s, Service Level Target: 85%"

func mondayOutcome() models.ScenarioOutcome {
	var agg models.WeeklyAggregate
	for i, day := range models.Days {
		agg.Days[i].Day = day
	}
	agg.Days[time.Monday] = models.DayAggregate{
		Day:              time.Monday,
		SumRawPositions:  22,
		SumPositions:     32,
		HourlyEquivalent: 16,
		HeadcountDays:    2,
	}
	agg.MaxHeadcountDays = 2
	agg.WeekTotal = 2
	agg.WeeklyFTE = 0.4
	agg.WorkingHoursPerDay = 8
	agg.WorkingDaysPerWeek = 5

	return models.ScenarioOutcome{
		Point: point,
		Table: models.ScenarioResultTable{
			{
				Day: time.Monday, Interval: 18,
				WaitingTimeSeconds: 20, ShrinkagePercent: 30, MaxOccupancyPercent: 80,
				HandlingTimeSeconds: 300, ServiceLevelPercent: 85,
				RawPositions: 22, Positions: 32, ServiceLevel: 0.9, Occupancy: 0.75, WaitingProbability: 0.15,
				Status: models.StatusOK,
			},
			{
				Day: time.Tuesday, Interval: 20,
				WaitingTimeSeconds: 20, ShrinkagePercent: 30, MaxOccupancyPercent: 80,
				HandlingTimeSeconds: 300, ServiceLevelPercent: 85,
				Status: models.StatusFailed, Error: "diverged",
			},
		},
		Aggregate: agg,
	}
}

func TestCaption(t *testing.T) {
	tests := map[string]struct {
		point    models.ScenarioPoint
		expected string
	}{
		"Scalar": {
			point:    point,
			expected: caption,
		},
		"Fractional": {
			point:    models.ScenarioPoint{WaitingTimeSeconds: 12.5, ShrinkagePercent: 27.5, MaxOccupancyPercent: 85, HandlingTimeSeconds: 240, HasHandlingTime: true, ServiceLevelPercent: 90},
			expected: "AWT: 12.5s, Shrinkage: 27.5%, Max Occupancy: 85%, Average AHT: 240s, Service Level Target: 90%",
		},
		"PerCell": {
			point:    models.ScenarioPoint{WaitingTimeSeconds: 20, ShrinkagePercent: 30, MaxOccupancyPercent: 80, ServiceLevelPercent: 85},
			expected: "AWT: 20s, Shrinkage: 30%, Max Occupancy: 80%, Average AHT: per interval, Service Level Target: 85%",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.Caption(tt.point))
		})
	}
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		outcomes []models.ScenarioOutcome
		contains []string
	}{
		"EmptyTable": {
			outcomes: []models.ScenarioOutcome{{Point: point}},
			contains: []string{
				"Staffing Requirements for " + caption,
				"  none",
				"Total Staffing",
				"Maximum Value=0.00, Sum of the Week=0.00, Divided by Working Days=0.00",
			},
		},
		"MondayNine": {
			outcomes: []models.ScenarioOutcome{mondayOutcome()},
			contains: []string{
				"Staffing Requirements for " + caption,
				"09:00 : raw=22, positions=32, service_level=0.900, occupancy=0.750, waiting_probability=0.150",
				"10:00 : raw=0, positions=0, service_level=0.000, occupancy=0.000, waiting_probability=0.000 [FAILED: diverged]",
				"Total Staffing",
				"raw=22, positions=32, /2=16.00, /hours=2.00",
				"Maximum Value=2.00, Sum of the Week=2.00, Divided by Working Days=0.40",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tt.outcomes)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestFormatText_ScenariosInOrder(t *testing.T) {
	second := mondayOutcome()
	second.Point.WaitingTimeSeconds = 30

	output := formatter.FormatText([]models.ScenarioOutcome{mondayOutcome(), second})
	first := strings.Index(output, "AWT: 20s")
	last := strings.Index(output, "AWT: 30s")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, last)
	assert.Less(t, first, last)
	assert.Equal(t, 2, strings.Count(output, "Total Staffing"))
}

func TestFormatJSON(t *testing.T) {
	perCell := mondayOutcome()
	perCell.Point.HasHandlingTime = false
	perCell.Point.HandlingTimeSeconds = 0

	output := formatter.FormatJSON([]models.ScenarioOutcome{mondayOutcome(), perCell})
	assert.Contains(t, output, `"sum_of_positions": 32`)
	assert.Contains(t, output, `"divided_by_working_days": 0.4`)

	var data []formatter.ScenarioData
	require.NoError(t, json.Unmarshal([]byte(output), &data))
	require.Len(t, data, 2)

	assert.Equal(t, caption, data[0].Caption)
	require.NotNil(t, data[0].Scenario.HandlingTimeSeconds)
	assert.Equal(t, 300.0, *data[0].Scenario.HandlingTimeSeconds)
	assert.Nil(t, data[1].Scenario.HandlingTimeSeconds)

	require.Len(t, data[0].Requirements, 2)
	assert.Equal(t, formatter.RequirementRow{
		Day:                 "Monday",
		Interval:            "09:00",
		HandlingTimeSeconds: 300,
		RawPositions:        22,
		Positions:           32,
		ServiceLevel:        0.9,
		Occupancy:           0.75,
		WaitingProbability:  0.15,
		Status:              "ok",
	}, data[0].Requirements[0])
	assert.Equal(t, "diverged", data[0].Requirements[1].Error)

	require.Len(t, data[0].Totals.Days, models.DaysPerWeek)
	assert.Equal(t, "Sunday", data[0].Totals.Days[0].Day)
	assert.Equal(t, formatter.DayTotal{
		Day:              "Monday",
		SumRawPositions:  22,
		SumPositions:     32,
		HourlyEquivalent: 16,
		HeadcountDays:    2,
	}, data[0].Totals.Days[1])
	assert.Equal(t, 0.4, data[0].Totals.WeeklyFTE)
}

func TestFormatCSV(t *testing.T) {
	tests := map[string]struct {
		outcomes []models.ScenarioOutcome
		lines    []string
	}{
		"Empty": {
			outcomes: nil,
			lines:    nil,
		},
		"MondayNine": {
			outcomes: []models.ScenarioOutcome{mondayOutcome()},
			lines: []string{
				"Monday,09:00,20,30,80,300,85,22,32,0.9,0.75,0.15,ok,",
				"Tuesday,10:00,20,30,80,300,85,0,0,0,0,0,failed,diverged",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatCSV(tt.outcomes)
			lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")

			// Check header
			assert.Equal(t, "Day,Interval,AWT,Shrinkage,Max Occupancy,Average AHT,Service Level Target,raw_positions,positions,service_level,occupancy,waiting_probability,status,error", lines[0])
			require.Len(t, lines, len(tt.lines)+1)
			for i, line := range tt.lines {
				assert.Equal(t, line, lines[i+1])
			}
		})
	}
}

func TestFormatTotalsCSV(t *testing.T) {
	output := formatter.FormatTotalsCSV([]models.ScenarioOutcome{mondayOutcome()})
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")

	require.Len(t, lines, 1+models.DaysPerWeek)
	assert.Equal(t, "Scenario,Day,Sum of Raw Positions,Sum of Positions,Divided by 2,Divided by Working Hours,Maximum Value,Sum of the Week,Divided by Working Days", lines[0])
	assert.Equal(t, `"`+caption+`",Sunday,0,0,0,0,2,2,0.4`, lines[1])
	assert.Equal(t, `"`+caption+`",Monday,22,32,16,2,2,2,0.4`, lines[2])
}
