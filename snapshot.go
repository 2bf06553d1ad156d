package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"parking-dashboard/snapshot"
)

var (
	snapshotOutDir  string
	snapshotBaseURL string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [view...]",
	Short: "Capture dashboard pages as PNG images",
	Long: `Opens a running dashboard in headless Chrome and saves a full-page PNG of each
view. Views are paths relative to the dashboard, e.g. "/?page=project&view=heat".
Without arguments every page and map view is captured.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOutDir, "out-dir", "", "output directory (default from SNAPSHOT_DIR)")
	snapshotCmd.Flags().StringVar(&snapshotBaseURL, "url", "", "dashboard base URL (default from SNAPSHOT_BASE_URL)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if snapshotOutDir != "" {
		cfg.SnapshotDir = snapshotOutDir
	}
	if snapshotBaseURL != "" {
		cfg.SnapshotBaseURL = snapshotBaseURL
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := snapshot.New(cfg, logger).Capture(ctx, args)
	for _, f := range files {
		fmt.Println(f)
	}
	return err
}
