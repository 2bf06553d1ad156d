package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parking-dashboard/models"
	"parking-dashboard/services"
	"parking-dashboard/storage"
)

var (
	exportTow  string
	exportZone string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the cleaned, filtered meters table as CSV",
	Long: `Applies the same tow-away and zone filters as the dashboard and writes the
matching meters to a CSV file that the dashboard can load again.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTow, "tow", string(models.TowAwayAll), "tow-away filter (All, Yes or No)")
	exportCmd.Flags().StringVar(&exportZone, "zone", models.AllZones, "zone filter")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./output/parking_meters_clean.csv", "output CSV file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	choice, err := models.ParseTowAwayChoice(exportTow)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	logger := newLogger()

	table, err := loadCleanTable(cfg.CSVPath, logger)
	if err != nil {
		return err
	}

	agg := services.NewAggregator(logger)
	if table, err = agg.FilterByTowAway(table, choice); err != nil {
		return err
	}
	table = agg.FilterByZone(table, exportZone)

	w, err := storage.NewCSVWriter(exportOut)
	if err != nil {
		return err
	}
	if err := storage.Export(w, table); err != nil {
		return fmt.Errorf("exporting meters to %s: %w", exportOut, err)
	}

	logger.Info("Exported %d meters (tow %s, zone %s) to %s", table.Len(), choice, exportZone, exportOut)
	return nil
}
