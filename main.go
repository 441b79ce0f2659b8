package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"staffing-calculator/config"
	"staffing-calculator/erlang"
	"staffing-calculator/formatter"
	"staffing-calculator/logger"
	"staffing-calculator/metrics"
	"staffing-calculator/models"
	"staffing-calculator/parser"
	"staffing-calculator/sweep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Define flags; config values are the defaults
	calls := flag.String("calls", "", "Calls offered CSV file (required)")
	aht := flag.String("aht", "", "Per-interval AHT CSV file; enables per-cell handling time mode")
	totalsOut := flag.String("totals-out", "", "Write the weekly totals CSV to this file (csv format only)")
	format := flag.String("format", cfg.Format, "Output format: text|json|csv")
	waitingTimes := flag.String("waiting-times", cfg.WaitingTimes, "Acceptable waiting times in seconds, comma-separated")
	shrinkages := flag.String("shrinkages", cfg.Shrinkages, "Shrinkage percentages, comma-separated")
	maxOccupancies := flag.String("max-occupancies", cfg.MaxOccupancies, "Max occupancy percentages, comma-separated")
	handlingTimes := flag.String("handling-times", cfg.HandlingTimes, "Average handling times in seconds, comma-separated (ignored with -aht)")
	serviceLevels := flag.String("service-levels", cfg.ServiceLevelTargets, "Service level target percentages, comma-separated")
	workingHours := flag.Float64("working-hours", cfg.WorkingHoursPerDay, "Working hours per day (1-24)")
	workingDays := flag.Float64("working-days", cfg.WorkingDaysPerWeek, "Working days per week (1-7)")
	workers := flag.Int("workers", cfg.Workers, "Parallel oracle evaluations per scenario")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()

	cfg.Format = *format
	cfg.WaitingTimes = *waitingTimes
	cfg.Shrinkages = *shrinkages
	cfg.MaxOccupancies = *maxOccupancies
	cfg.HandlingTimes = *handlingTimes
	cfg.ServiceLevelTargets = *serviceLevels
	cfg.WorkingHoursPerDay = *workingHours
	cfg.WorkingDaysPerWeek = *workingDays
	cfg.Workers = *workers
	cfg.MetricsAddr = *metricsAddr
	cfg.PushURL = *pushGateway

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Start metrics server if address provided
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr+"/metrics"))
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	// Validate required input flag
	if *calls == "" {
		fmt.Println("Error: -calls flag is required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	grid, err := loadGrid(*calls, *aht)
	if err != nil {
		fmt.Printf("Error parsing file: %v\n", err)
		os.Exit(1)
	}

	axes := models.ScenarioAxes{
		WaitingTimes:        parser.ParseAxis(cfg.WaitingTimes),
		Shrinkages:          parser.ParseAxis(cfg.Shrinkages),
		MaxOccupancies:      parser.ParseAxis(cfg.MaxOccupancies),
		HandlingTimes:       parser.ParseAxis(cfg.HandlingTimes),
		ServiceLevelTargets: parser.ParseAxis(cfg.ServiceLevelTargets),
		Mode:                models.ScalarHandlingTime,
	}
	if grid.HasHandlingTimes {
		axes.Mode = models.PerCellHandlingTime
		axes.HandlingTimes = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := sweep.NewEngine(erlang.Oracle{}, cfg.Workers, log)
	outcomes, err := engine.Calculate(ctx, sweep.Input{
		Grid:               grid,
		Axes:               axes,
		WorkingHoursPerDay: cfg.WorkingHoursPerDay,
		WorkingDaysPerWeek: cfg.WorkingDaysPerWeek,
		Progress:           progressLogger(log),
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var results []models.ScenarioOutcome
	for outcome := range outcomes {
		results = append(results, outcome)
	}

	if err := writeResults(ctx, log, os.Stdout, cfg.Format, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
	if cfg.Format == "csv" && *totalsOut != "" {
		if err := os.WriteFile(*totalsOut, []byte(formatter.FormatTotalsCSV(results)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing totals: %v\n", err)
			os.Exit(1)
		}
	}

	// Handle metrics pushing or waiting
	if cfg.PushURL != "" {
		jobName := "staffing_calculator"
		if err := push.New(cfg.PushURL, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			log.Info("metrics successfully pushed to Pushgateway")
		}
	}

	if *wait && cfg.MetricsAddr != "" {
		log.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	} else if cfg.MetricsAddr != "" && cfg.PushURL == "" {
		// Small delay to allow final scrape if not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
}

// writeResults renders results to w in the given format. Only the rendered
// results go to w; an interrupted sweep is reported through the logger.
func writeResults(ctx context.Context, log *zap.Logger, w io.Writer, format string, results []models.ScenarioOutcome) error {
	if ctx.Err() != nil {
		log.Warn("sweep interrupted, output is partial",
			zap.Error(ctx.Err()),
			zap.Int("scenarios", len(results)),
		)
	}

	var out string
	switch format {
	case "json":
		out = formatter.FormatJSON(results)
	case "csv":
		out = formatter.FormatCSV(results)
	default: // "text"
		out = formatter.FormatText(results)
	}
	_, err := io.WriteString(w, out)
	return err
}

// loadGrid reads the calls table and, if ahtPath is set, the per-interval AHT table.
func loadGrid(callsPath, ahtPath string) (models.DemandGrid, error) {
	file, err := os.Open(callsPath)
	if err != nil {
		return models.DemandGrid{}, err
	}
	defer file.Close()

	grid, err := parser.ParseDemand(file)
	if err != nil {
		return grid, fmt.Errorf("%s: %w", callsPath, err)
	}
	if ahtPath == "" {
		return grid, nil
	}

	ahtFile, err := os.Open(ahtPath)
	if err != nil {
		return grid, err
	}
	defer ahtFile.Close()

	grid.HandlingTimes, err = parser.ParseHandlingTimes(ahtFile)
	if err != nil {
		return grid, fmt.Errorf("%s: %w", ahtPath, err)
	}
	grid.HasHandlingTimes = true
	return grid, nil
}

// progressLogger logs progress every 10 percent.
func progressLogger(log *zap.Logger) sweep.ProgressFunc {
	next := 0.1
	return func(fraction float64) {
		if fraction < next {
			return
		}
		log.Info("sweep progress", zap.Float64("fraction", fraction))
		for next <= fraction {
			next += 0.1
		}
	}
}
