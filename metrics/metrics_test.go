package metrics_test

import (
	"testing"

	"staffing-calculator/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBeginSweep_ResetsOnlyWhenIdle(t *testing.T) {
	metrics.BeginSweep()
	metrics.WeeklyFTE.Set(3.5)
	metrics.MaxHeadcountDays.Set(1.25)
	metrics.SweepProgress.Set(0.4)

	// A second sweep starting while the first runs keeps its values.
	metrics.BeginSweep()
	assert.Equal(t, 3.5, testutil.ToFloat64(metrics.WeeklyFTE))
	assert.Equal(t, 1.25, testutil.ToFloat64(metrics.MaxHeadcountDays))
	assert.Equal(t, 0.4, testutil.ToFloat64(metrics.SweepProgress))

	metrics.EndSweep()
	metrics.EndSweep()

	// Once idle, the next sweep starts from zero.
	metrics.BeginSweep()
	defer metrics.EndSweep()
	assert.Zero(t, testutil.ToFloat64(metrics.WeeklyFTE))
	assert.Zero(t, testutil.ToFloat64(metrics.MaxHeadcountDays))
	assert.Zero(t, testutil.ToFloat64(metrics.SweepProgress))
}
