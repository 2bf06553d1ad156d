package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"parking-dashboard/dashboard"
	"parking-dashboard/services"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	Long:  `Serves the Data Source, Data Overview and Final Project pages until interrupted.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}
	logger := newLogger()

	logger.Info("=== Parking Meters Dashboard starting ===")
	logger.Info("Config: csv %s | addr %s | session ttl %v", cfg.CSVPath, cfg.HTTPAddr, cfg.SessionTTL)
	if _, err := os.Stat(cfg.CSVPath); err != nil {
		logger.Warn("Meters CSV is not readable yet: %v", err)
	}

	srv, err := dashboard.NewServer(cfg, logger, services.NewSessionStore(cfg.SessionTTL))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serving dashboard: %w", err)
	}
	logger.Info("Dashboard stopped")
	return nil
}
