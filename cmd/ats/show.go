package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hiringdesk/applicant-tracker/internal/config"
	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/observability"
)

var showCmd = &cobra.Command{
	Use:   "show <application-id>",
	Short: "Show one stored application",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return fmt.Errorf("invalid application id: %s", args[0])
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	app, err := database.GetApplication(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("application %d not found", id)
	}

	observability.NewPrinter(os.Stdout).PrintApplication(app)
	return nil
}
