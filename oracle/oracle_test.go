package oracle_test

import (
	"errors"
	"testing"
	"time"

	"staffing-calculator/models"
	"staffing-calculator/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scalarPoint = models.ScenarioPoint{
	WaitingTimeSeconds:  20,
	ShrinkagePercent:    30,
	MaxOccupancyPercent: 80,
	HandlingTimeSeconds: 300,
	HasHandlingTime:     true,
	ServiceLevelPercent: 85,
}

var perCellPoint = models.ScenarioPoint{
	WaitingTimeSeconds:  20,
	ShrinkagePercent:    30,
	MaxOccupancyPercent: 80,
	ServiceLevelPercent: 85,
}

func TestParamsFor(t *testing.T) {
	cell := models.DemandCell{Day: time.Monday, Interval: 18, CallsOffered: 100}

	p := oracle.ParamsFor(cell, scalarPoint)
	assert.Equal(t, oracle.Params{
		Transactions:    100,
		AHTMinutes:      5,
		IntervalMinutes: 30,
		ASAMinutes:      20.0 / 60,
		Shrinkage:       0.3,
		ServiceLevel:    0.85,
		MaxOccupancy:    0.8,
	}, p)

	cell.HandlingTimeSeconds = 240
	cell.HasHandlingTime = true
	p = oracle.ParamsFor(cell, perCellPoint)
	assert.Equal(t, 4.0, p.AHTMinutes)
}

func TestSkip(t *testing.T) {
	tests := map[string]struct {
		cell     models.DemandCell
		point    models.ScenarioPoint
		expected oracle.SkipReason
	}{
		"ZeroCalls_Scalar": {
			cell:     models.DemandCell{CallsOffered: 0},
			point:    scalarPoint,
			expected: oracle.SkipNoCalls,
		},
		"ZeroCalls_PerCell": {
			cell:     models.DemandCell{CallsOffered: 0, HandlingTimeSeconds: 300, HasHandlingTime: true},
			point:    perCellPoint,
			expected: oracle.SkipNoCalls,
		},
		"CallsWithZeroCellAHT": {
			cell:     models.DemandCell{CallsOffered: 50, HandlingTimeSeconds: 0, HasHandlingTime: true},
			point:    perCellPoint,
			expected: oracle.SkipNoHandleTime,
		},
		"CallsWithAbsentCellAHT": {
			cell:     models.DemandCell{CallsOffered: 50},
			point:    perCellPoint,
			expected: oracle.SkipNoHandleTime,
		},
		"CallsWithCellAHT": {
			cell:     models.DemandCell{CallsOffered: 50, HandlingTimeSeconds: 180, HasHandlingTime: true},
			point:    perCellPoint,
			expected: oracle.NotSkipped,
		},
		"ScalarModeIgnoresCellAHT": {
			cell:     models.DemandCell{CallsOffered: 50, HandlingTimeSeconds: 0, HasHandlingTime: true},
			point:    scalarPoint,
			expected: oracle.NotSkipped,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, oracle.Skip(tt.cell, tt.point))
		})
	}
}

func TestEvaluate(t *testing.T) {
	cell := models.DemandCell{Day: time.Monday, Interval: 18, CallsOffered: 100}

	t.Run("Success", func(t *testing.T) {
		var got oracle.Params
		o := oracle.OracleFunc(func(p oracle.Params) (oracle.Result, error) {
			got = p
			return oracle.Result{RawPositions: 22, Positions: 32, ServiceLevel: 0.89, Occupancy: 0.76, WaitingProbability: 0.15}, nil
		})

		req, ok := oracle.Evaluate(o, cell, scalarPoint)
		require.True(t, ok)
		assert.Equal(t, 100.0, got.Transactions)
		assert.Equal(t, models.StaffingRequirement{
			Day:                 time.Monday,
			Interval:            18,
			WaitingTimeSeconds:  20,
			ShrinkagePercent:    30,
			MaxOccupancyPercent: 80,
			HandlingTimeSeconds: 300,
			ServiceLevelPercent: 85,
			RawPositions:        22,
			Positions:           32,
			ServiceLevel:        0.89,
			Occupancy:           0.76,
			WaitingProbability:  0.15,
			Status:              models.StatusOK,
		}, req)
	})

	t.Run("MissingFieldsDefaultToZero", func(t *testing.T) {
		o := oracle.OracleFunc(func(oracle.Params) (oracle.Result, error) {
			return oracle.Result{Positions: 4}, nil
		})
		req, ok := oracle.Evaluate(o, cell, scalarPoint)
		require.True(t, ok)
		assert.Equal(t, 4.0, req.Positions)
		assert.Zero(t, req.RawPositions)
		assert.Zero(t, req.WaitingProbability)
		assert.Equal(t, models.StatusOK, req.Status)
	})

	t.Run("FailureIsFlaggedAndZeroFilled", func(t *testing.T) {
		o := oracle.OracleFunc(func(oracle.Params) (oracle.Result, error) {
			return oracle.Result{Positions: 99}, errors.New("diverged")
		})
		req, ok := oracle.Evaluate(o, cell, scalarPoint)
		require.True(t, ok)
		assert.Equal(t, models.StatusFailed, req.Status)
		assert.Equal(t, "diverged", req.Error)
		assert.Zero(t, req.Positions)
		assert.Zero(t, req.RawPositions)
		assert.Equal(t, time.Monday, req.Day)
		assert.Equal(t, 300.0, req.HandlingTimeSeconds)
	})

	t.Run("SkippedCellDoesNotCallOracle", func(t *testing.T) {
		called := false
		o := oracle.OracleFunc(func(oracle.Params) (oracle.Result, error) {
			called = true
			return oracle.Result{}, nil
		})
		_, ok := oracle.Evaluate(o, models.DemandCell{CallsOffered: 0}, scalarPoint)
		assert.False(t, ok)
		assert.False(t, called)
	})

	t.Run("PerCellEchoesCellAHT", func(t *testing.T) {
		o := oracle.OracleFunc(func(oracle.Params) (oracle.Result, error) { return oracle.Result{}, nil })
		c := models.DemandCell{Day: time.Friday, Interval: 20, CallsOffered: 10, HandlingTimeSeconds: 240, HasHandlingTime: true}
		req, ok := oracle.Evaluate(o, c, perCellPoint)
		require.True(t, ok)
		assert.Equal(t, 240.0, req.HandlingTimeSeconds)
	})
}
