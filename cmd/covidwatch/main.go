package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thesavant42/covidwatch/internal/api"
	"github.com/thesavant42/covidwatch/internal/config"
	"github.com/thesavant42/covidwatch/internal/models"
	"github.com/thesavant42/covidwatch/internal/tracker"
	"github.com/thesavant42/covidwatch/internal/ui"
)

func main() {
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	logFile := flag.String("log", "", "Log file path, '-' for stderr (overrides COVIDWATCH_LOG_FILE)")
	once := flag.Bool("once", false, "Fetch once, print the table and exit")
	highlight := flag.String("highlight", "", "Country to highlight in -once output")
	markdown := flag.String("markdown", "", "With -once, also write a markdown report to this path")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Invalid configuration: %v", err))
		os.Exit(1)
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	logger, closeLog, err := cfg.NewLogger()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewStatsClient(cfg.Endpoint, cfg.FetchTimeout, logger.WithPrefix("api"))
	snapOpts := tracker.SnapshotOptions{TopN: cfg.TopN, PinnedCountry: cfg.PinnedCountry}

	if *once {
		err = runOnce(ctx, client, snapOpts, *highlight, *markdown)
	} else {
		logger.Info("starting dashboard", "endpoint", client.Endpoint(), "interval", cfg.RefreshInterval)
		err = ui.RunDashboard(ctx, client, ui.DashboardOptions{
			Interval:     cfg.RefreshInterval,
			Snapshot:     snapOpts,
			ErrorMessage: cfg.ErrorMessage,
			AltScreen:    cfg.AltScreen,
			Logger:       logger.WithPrefix("ui"),
		})
	}
	if err != nil {
		logger.Error("exiting", "err", err)
		ui.PrintError(err.Error())
		closeLog()
		os.Exit(1)
	}
	logger.Info("bye")
}

// runOnce fetches a single snapshot and prints it.
func runOnce(ctx context.Context, client *api.StatsClient, opts tracker.SnapshotOptions, highlight, markdownPath string) error {
	var records []models.CountryRecord
	err := ui.RunWithSpinner("Fetching countries...", func() (err error) {
		records, err = client.FetchCountries(ctx)
		return err
	})
	if err != nil {
		return describeFetchError(err)
	}

	now := time.Now()
	snap := tracker.BuildSnapshot(records, opts)
	ui.PrintSnapshot(os.Stdout, snap, highlight, now)

	if markdownPath != "" {
		if err := os.WriteFile(markdownPath, []byte(ui.GenerateMarkdownReport(snap, now)), 0644); err != nil {
			return fmt.Errorf("failed to write markdown report: %w", err)
		}
		ui.PrintSuccess(fmt.Sprintf("Report written to %s", markdownPath))
	}
	return nil
}

// describeFetchError keeps the error chain but leads with the failure class.
func describeFetchError(err error) error {
	var fetchErr *api.FetchError
	var parseErr *api.ParseError
	switch {
	case errors.As(err, &fetchErr):
		return fmt.Errorf("could not reach data source: %w", err)
	case errors.As(err, &parseErr):
		return fmt.Errorf("data source returned an unexpected response: %w", err)
	}
	return err
}
