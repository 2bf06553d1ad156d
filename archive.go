package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"parking-dashboard/storage"
	"parking-dashboard/utils"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Store the cleaned meters table in PostgreSQL",
	Long: `Replaces the contents of the parking_meters table with the cleaned dataset
and reads back the per-zone counts as a check.`,
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger()

	table, err := loadCleanTable(cfg.CSVPath, logger)
	if err != nil {
		return err
	}

	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	pg, err := storage.NewPostgresWriter(cfg.DSN(), retry)
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return err
	}
	defer pg.Close()

	if err := pg.Write(table); err != nil {
		return fmt.Errorf("archiving meters: %w", err)
	}
	logger.Info("Archived %d meters in PostgreSQL (table: parking_meters)", table.Len())

	counts, err := pg.FetchZoneCounts()
	if err != nil {
		return err
	}
	for _, zc := range counts {
		logger.Debug("  %-24s %d", zc.Zone, zc.Count)
	}
	logger.Info("Archive holds %d meters across %d zones", counts.Total(), len(counts))
	return nil
}
