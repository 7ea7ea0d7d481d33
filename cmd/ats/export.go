package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiringdesk/applicant-tracker/internal/config"
	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/export"
	"github.com/hiringdesk/applicant-tracker/internal/observability"
)

var (
	exportOutput  string
	exportJobID   int64
	exportStatus  string
	exportSearch  string
	exportVerbose bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications as CSV",
	Long:  `Write the filtered application set to a CSV file, with the same filter semantics as the admin export endpoint.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "applications.csv", "Output file path")
	exportCmd.Flags().Int64Var(&exportJobID, "job", 0, "Filter by job id")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by status")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Filter by applicant name or email substring")
	exportCmd.Flags().BoolVarP(&exportVerbose, "verbose", "v", false, "Print an export summary")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	filter := db.ApplicationFilter{
		Status: exportStatus,
		Search: exportSearch,
	}
	if exportJobID > 0 {
		filter.JobID = &exportJobID
	}

	out, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	summary, err := export.NewExporter(database).Write(context.Background(), out, filter)
	if err != nil {
		return fmt.Errorf("failed to export applications: %w", err)
	}

	if exportVerbose {
		observability.NewPrinter(os.Stdout).PrintExportSummary(summary, exportOutput)
	} else {
		fmt.Printf("Exported %d applications to %s\n", summary.Rows, exportOutput)
	}
	return nil
}
