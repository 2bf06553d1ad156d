package main

import (
	"os"

	"github.com/spf13/cobra"

	"parking-dashboard/config"
	"parking-dashboard/utils"
)

var (
	csvPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "parking-dashboard",
	Short: "Explore the city parking meters dataset",
	Long: `parking-dashboard loads the Parking_Meters CSV export, cleans it and serves
an interactive dashboard. The same pipeline backs console summaries, filtered
CSV exports, a PostgreSQL archive and page snapshots.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "meters CSV file (default from METERS_CSV_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig() *config.Config {
	cfg := config.Load()
	if csvPath != "" {
		cfg.CSVPath = csvPath
	}
	return cfg
}

func newLogger() *utils.Logger {
	return utils.NewLoggerTo(os.Stdout, os.Stderr, verbose)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
