package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parking-dashboard/models"
	"parking-dashboard/services"
	"parking-dashboard/storage"
	"parking-dashboard/utils"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a console summary of the meters dataset",
	Long: `Loads and cleans the meters CSV, then prints column statistics, meter
counts per zone and the installation timeline.`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger()

	table, err := loadCleanTable(cfg.CSVPath, logger)
	if err != nil {
		return err
	}

	agg := services.NewAggregator(logger)
	report, err := agg.Report(table)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}
	agg.Print(os.Stdout, report)
	return nil
}

// loadCleanTable runs the shared command pipeline: load, drop rows without
// coordinates, coerce both TOW_AWAY and INSTALLED_ON.
func loadCleanTable(path string, logger *utils.Logger) (*models.MeterTable, error) {
	raw, err := storage.LoadMeters(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded %d meters from %s", raw.Len(), path)

	cleaner := services.NewCleaner(logger)
	table := cleaner.Clean(raw, false)
	cleaner.CoerceTowAway(table)
	if err := cleaner.CoerceInstallDates(table); err != nil {
		return nil, fmt.Errorf("installation dates: %w", err)
	}
	return table, nil
}
