package sweep

import (
	"sync"

	"staffing-calculator/metrics"
)

// tracker reports completed/total under a lock so concurrent workers
// still produce a non-decreasing sequence.
type tracker struct {
	mu     sync.Mutex
	done   int
	total  int
	last   float64
	report ProgressFunc
}

func newTracker(total int, report ProgressFunc) *tracker {
	return &tracker{total: total, report: report}
}

func (t *tracker) add(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done += n
	if t.total <= 0 {
		return
	}
	t.publish(min(float64(t.done)/float64(t.total), 1))
}

// finish reports exactly 1, however many cells were skipped.
func (t *tracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publish(1)
}

func (t *tracker) publish(fraction float64) {
	if fraction < t.last {
		fraction = t.last
	}
	t.last = fraction
	metrics.SweepProgress.Set(fraction)
	if t.report != nil {
		t.report(fraction)
	}
}
