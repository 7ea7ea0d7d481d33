package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/config"
	"github.com/hiringdesk/applicant-tracker/internal/cron"
	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/notify"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Run the daily maintenance pass once",
	Long:  `Expire jobs past their deadline and send the admin digest of recent applications, then exit. Intended for external schedulers; the serve command runs the same pass on a timer.`,
	RunE:  runCron,
}

func init() {
	rootCmd.AddCommand(cronCmd)
}

func runCron(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	transport := notify.NewSMTPTransport(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SenderEmail,
	})
	site := notify.SiteInfo{
		URL:         cfg.SiteURL,
		CompanyName: cfg.CompanyName,
		AdminEmail:  cfg.AdminEmail,
		SenderName:  cfg.SenderName,
	}
	dispatcher := notify.NewDispatcher(database, transport, site, cfg.AdminEmails, log)

	cron.NewRunner(database, dispatcher, cfg.CronInterval, log).RunOnce(context.Background())
	return nil
}
