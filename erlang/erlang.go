// Package erlang implements the Erlang C queuing model used to size a
// contact-center interval: given a workload and a service target it finds
// the number of agent positions required.
package erlang

import (
	"errors"
	"fmt"
	"math"

	"staffing-calculator/oracle"
)

var (
	ErrInvalidParameter = errors.New("erlang: invalid parameter")
	ErrNoConvergence    = errors.New("erlang: required positions exceed limit")
)

// DefaultMaxPositions bounds the position search of RequiredPositions.
const DefaultMaxPositions = 10_000

// Model is an Erlang C queue for one interval's workload.
type Model struct {
	transactions float64
	aht          float64
	interval     float64
	asa          float64
	shrinkage    float64
	intensity    float64 // offered traffic in Erlangs
}

// New builds a model. Transactions, aht, asa and interval must be positive
// and in a common time unit; shrinkage must be in [0, 1).
func New(transactions, aht, asa, interval, shrinkage float64) (*Model, error) {
	switch {
	case !(transactions > 0) || math.IsInf(transactions, 0):
		return nil, fmt.Errorf("%w: transactions must be positive, got %v", ErrInvalidParameter, transactions)
	case !(aht > 0) || math.IsInf(aht, 0):
		return nil, fmt.Errorf("%w: aht must be positive, got %v", ErrInvalidParameter, aht)
	case !(asa > 0) || math.IsInf(asa, 0):
		return nil, fmt.Errorf("%w: asa must be positive, got %v", ErrInvalidParameter, asa)
	case !(interval > 0) || math.IsInf(interval, 0):
		return nil, fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidParameter, interval)
	case !(shrinkage >= 0 && shrinkage < 1):
		return nil, fmt.Errorf("%w: shrinkage must be in [0,1), got %v", ErrInvalidParameter, shrinkage)
	}
	return &Model{
		transactions: transactions,
		aht:          aht,
		interval:     interval,
		asa:          asa,
		shrinkage:    shrinkage,
		intensity:    transactions / interval * aht,
	}, nil
}

// Intensity returns the offered traffic in Erlangs.
func (m *Model) Intensity() float64 {
	return m.intensity
}

// WaitingProbability is the Erlang C probability that a call has to wait
// with the given number of productive positions.
func (m *Model) WaitingProbability(positions int) float64 {
	n := float64(positions)
	if n <= m.intensity {
		return 1
	}
	// Erlang B by recursion on 1/B.
	inverse := 1.0
	for k := 1; k <= positions; k++ {
		inverse = 1 + inverse*float64(k)/m.intensity
	}
	b := 1 / inverse
	return clamp(n * b / (n - m.intensity*(1-b)))
}

// ServiceLevel is the fraction of calls answered within the target answer time.
func (m *Model) ServiceLevel(positions int) float64 {
	n := float64(positions)
	pw := m.WaitingProbability(positions)
	return math.Max(0, 1-pw*math.Exp(-(n-m.intensity)*(m.asa/m.aht)))
}

// Occupancy is the fraction of time positions spend handling calls.
func (m *Model) Occupancy(positions int) float64 {
	if positions <= 0 {
		return 0
	}
	return m.intensity / float64(positions)
}

// RequiredPositions finds the smallest position count meeting serviceLevel,
// raises it if the resulting occupancy exceeds maxOccupancy, and inflates
// the final count by shrinkage.
func (m *Model) RequiredPositions(serviceLevel, maxOccupancy float64, maxPositions int) (oracle.Result, error) {
	if !(serviceLevel >= 0 && serviceLevel <= 1) {
		return oracle.Result{}, fmt.Errorf("%w: service level must be in [0,1], got %v", ErrInvalidParameter, serviceLevel)
	}
	if !(maxOccupancy > 0 && maxOccupancy <= 1) {
		return oracle.Result{}, fmt.Errorf("%w: max occupancy must be in (0,1], got %v", ErrInvalidParameter, maxOccupancy)
	}
	if maxPositions <= 0 {
		maxPositions = DefaultMaxPositions
	}

	// Compare as floats first; huge intensities would overflow int.
	start := math.RoundToEven(m.intensity + 1)
	if math.IsInf(start, 0) || math.IsNaN(start) || start > float64(maxPositions) {
		return oracle.Result{}, m.noConvergence(maxPositions)
	}
	positions := int(start)
	achieved := m.ServiceLevel(positions)
	for achieved < serviceLevel {
		positions++
		if positions > maxPositions {
			return oracle.Result{}, m.noConvergence(maxPositions)
		}
		achieved = m.ServiceLevel(positions)
	}

	raw := positions
	occupancy := m.Occupancy(raw)
	if occupancy > maxOccupancy {
		capped := math.Ceil(m.intensity / maxOccupancy)
		if capped > float64(maxPositions) {
			return oracle.Result{}, m.noConvergence(maxPositions)
		}
		raw = int(capped)
		occupancy = m.Occupancy(raw)
		achieved = m.ServiceLevel(raw)
	}

	return oracle.Result{
		RawPositions:       float64(raw),
		Positions:          math.Ceil(float64(raw) / (1 - m.shrinkage)),
		ServiceLevel:       achieved,
		Occupancy:          occupancy,
		WaitingProbability: m.WaitingProbability(raw),
	}, nil
}

func (m *Model) noConvergence(maxPositions int) error {
	return fmt.Errorf("%w: more than %d positions for intensity %.2f", ErrNoConvergence, maxPositions, m.intensity)
}

// Oracle is the Erlang C staffing oracle.
type Oracle struct {
	// MaxPositions bounds the search; zero means DefaultMaxPositions.
	MaxPositions int
}

// RequiredPositions implements oracle.StaffingOracle.
func (o Oracle) RequiredPositions(p oracle.Params) (oracle.Result, error) {
	m, err := New(p.Transactions, p.AHTMinutes, p.ASAMinutes, p.IntervalMinutes, p.Shrinkage)
	if err != nil {
		return oracle.Result{}, err
	}
	return m.RequiredPositions(p.ServiceLevel, p.MaxOccupancy, o.MaxPositions)
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
