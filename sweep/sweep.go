// Package sweep drives the scenario sweep: for every scenario point it
// evaluates the staffing oracle over the weekly demand grid and emits one
// result table per point.
package sweep

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"staffing-calculator/aggregator"
	"staffing-calculator/errors"
	"staffing-calculator/metrics"
	"staffing-calculator/models"
	"staffing-calculator/oracle"
	"staffing-calculator/scenario"
)

// ProgressFunc receives the fraction of (scenario, cell) pairs visited so
// far. Values never decrease and never exceed 1.
type ProgressFunc func(fraction float64)

// Engine evaluates scenario sweeps. An Engine holds no per-sweep state and
// may run several sweeps concurrently; the sweep gauges in metrics are
// shared, so they then show whichever sweep wrote last.
type Engine struct {
	oracle  oracle.StaffingOracle
	workers int
	logger  *zap.Logger
}

// NewEngine returns an engine backed by o. With workers > 1 the cells of
// each scenario are evaluated in parallel; results keep canonical order.
// A nil logger disables logging.
func NewEngine(o oracle.StaffingOracle, workers int, logger *zap.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{oracle: o, workers: workers, logger: logger}
}

// Input is everything Calculate needs for one sweep.
type Input struct {
	Grid               models.DemandGrid
	Axes               models.ScenarioAxes
	WorkingHoursPerDay float64
	WorkingDaysPerWeek float64
	Progress           ProgressFunc
}

// Calculate runs the sweep described by in and pairs every emitted table
// with its weekly aggregate. Invalid input is rejected before any work.
func (e *Engine) Calculate(ctx context.Context, in Input) (iter.Seq[models.ScenarioOutcome], error) {
	if err := aggregator.CheckWorkingTime(in.WorkingHoursPerDay, in.WorkingDaysPerWeek); err != nil {
		return nil, err
	}
	tables, err := e.Run(ctx, in.Grid, in.Axes, in.Progress)
	if err != nil {
		return nil, err
	}
	return func(yield func(models.ScenarioOutcome) bool) {
		for point, table := range tables {
			agg, err := aggregator.Aggregate(table, in.WorkingHoursPerDay, in.WorkingDaysPerWeek)
			if err != nil {
				e.logger.Error("aggregation failed", zap.Error(err))
				return
			}
			metrics.WeeklyFTE.Set(agg.WeeklyFTE)
			metrics.MaxHeadcountDays.Set(agg.MaxHeadcountDays)
			if !yield(models.ScenarioOutcome{Point: point, Table: table, Aggregate: agg}) {
				return
			}
		}
	}, nil
}

// Run validates its input and returns the lazy sequence of scenario
// points and their result tables, in enumeration order. Work happens while
// the caller ranges over the sequence; breaking out of the loop or
// cancelling ctx stops the sweep. Empty axes yield nothing.
func (e *Engine) Run(ctx context.Context, grid models.DemandGrid, axes models.ScenarioAxes, progress ProgressFunc) (iter.Seq2[models.ScenarioPoint, models.ScenarioResultTable], error) {
	if err := e.validate(grid, axes); err != nil {
		return nil, err
	}

	return func(yield func(models.ScenarioPoint, models.ScenarioResultTable) bool) {
		runID := uuid.NewString()
		log := e.logger.With(zap.String("run_id", runID))
		scenarios := scenario.Count(axes)
		prog := newTracker(scenarios*models.CellsPerWeek, progress)

		metrics.BeginSweep()
		defer metrics.EndSweep()
		start := time.Now()
		log.Info("sweep started",
			zap.Int("scenarios", scenarios),
			zap.Int("cells", scenarios*models.CellsPerWeek),
			zap.Stringer("mode", axes.Mode),
			zap.Int("workers", e.workers),
		)

		emitted := 0
		for point := range scenario.Points(axes) {
			table, err := e.evaluateScenario(ctx, grid, point, prog)
			if err != nil {
				log.Warn("sweep cancelled", zap.Int("emitted", emitted), zap.Error(err))
				return
			}
			emitted++
			metrics.ScenariosEmittedTotal.Inc()
			log.Debug("scenario evaluated",
				zap.Float64("awt_seconds", point.WaitingTimeSeconds),
				zap.Float64("shrinkage_percent", point.ShrinkagePercent),
				zap.Float64("max_occupancy_percent", point.MaxOccupancyPercent),
				zap.Float64("aht_seconds", point.HandlingTimeSeconds),
				zap.Float64("service_level_target_percent", point.ServiceLevelPercent),
				zap.Int("rows", len(table)),
			)
			if !yield(point, table) {
				log.Info("sweep stopped by consumer", zap.Int("emitted", emitted))
				return
			}
		}

		prog.finish()
		elapsed := time.Since(start)
		metrics.SweepDurationSeconds.Observe(elapsed.Seconds())
		log.Info("sweep finished", zap.Int("emitted", emitted), zap.Duration("elapsed", elapsed))
	}, nil
}

func (e *Engine) validate(grid models.DemandGrid, axes models.ScenarioAxes) error {
	if e.oracle == nil {
		return errors.ErrNilOracle
	}
	if err := grid.Validate(); err != nil {
		return err
	}
	if err := axes.Validate(); err != nil {
		return err
	}
	if axes.Mode == models.PerCellHandlingTime && !grid.HasHandlingTimes {
		return errors.ErrMissingHandlingTimes
	}
	return nil
}

// evaluateScenario builds the result table of one point in (day, interval) order.
func (e *Engine) evaluateScenario(ctx context.Context, grid models.DemandGrid, point models.ScenarioPoint, prog *tracker) (models.ScenarioResultTable, error) {
	if e.workers > 1 {
		return e.evaluateParallel(ctx, grid, point, prog)
	}

	table := make(models.ScenarioResultTable, 0, models.CellsPerWeek)
	for _, day := range models.Days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range models.IntervalsPerDay {
			if req, ok := e.evaluateCell(grid.Cell(day, models.Interval(i)), point); ok {
				table = append(table, req)
			}
			prog.add(1)
		}
	}
	return table, nil
}

// evaluateParallel fans the cells of one point out to a bounded group of
// goroutines. Each writes its own slot, so the table is compacted in
// canonical order once all cells are done.
func (e *Engine) evaluateParallel(ctx context.Context, grid models.DemandGrid, point models.ScenarioPoint, prog *tracker) (models.ScenarioResultTable, error) {
	var (
		slots   [models.CellsPerWeek]models.StaffingRequirement
		present [models.CellsPerWeek]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for idx := range models.CellsPerWeek {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			day := models.Days[idx/models.IntervalsPerDay]
			interval := models.Interval(idx % models.IntervalsPerDay)
			slots[idx], present[idx] = e.evaluateCell(grid.Cell(day, interval), point)
			prog.add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := make(models.ScenarioResultTable, 0, models.CellsPerWeek)
	for idx, ok := range present {
		if ok {
			table = append(table, slots[idx])
		}
	}
	return table, nil
}

func (e *Engine) evaluateCell(cell models.DemandCell, point models.ScenarioPoint) (models.StaffingRequirement, bool) {
	if reason := oracle.Skip(cell, point); reason != oracle.NotSkipped {
		metrics.CellsSkippedTotal.WithLabelValues(string(reason)).Inc()
		return models.StaffingRequirement{}, false
	}

	start := time.Now()
	req, ok := oracle.Evaluate(e.oracle, cell, point)
	metrics.OracleDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.OracleEvaluationsTotal.WithLabelValues(string(req.Status)).Inc()

	if req.Status == models.StatusFailed {
		e.logger.Warn("oracle evaluation failed",
			zap.Stringer("day", cell.Day),
			zap.Stringer("interval", cell.Interval),
			zap.Float64("calls_offered", cell.CallsOffered),
			zap.String("error", req.Error),
		)
	}
	return req, ok
}
