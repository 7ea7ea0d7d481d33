package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/config"
	"github.com/hiringdesk/applicant-tracker/internal/cron"
	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/export"
	"github.com/hiringdesk/applicant-tracker/internal/intake"
	"github.com/hiringdesk/applicant-tracker/internal/notify"
	"github.com/hiringdesk/applicant-tracker/internal/server"
	"github.com/hiringdesk/applicant-tracker/internal/session"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP server: public intake and draft endpoints plus the JWT-protected admin API. Also runs the daily maintenance pass in the background.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	port := cfg.Port
	if servePort > 0 {
		port = servePort
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

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	sessions := session.New(redisClient, cfg.SessionTTL)

	resolver := intake.NewJobResolver(database, sessions)
	intakeService := intake.NewService(resolver, database, log)

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

	engine := workflow.NewEngine(database, dispatcher, log)
	exporter := export.NewExporter(database)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	adminConfig, err := config.NewAdminConfig()
	if err != nil {
		return fmt.Errorf("failed to create admin config: %w", err)
	}

	cronCtx, cancelCron := context.WithCancel(context.Background())
	runner := cron.NewRunner(database, dispatcher, cfg.CronInterval, log)
	go runner.Start(cronCtx)

	srv := server.New(port, server.Deps{
		Store:      database,
		Intake:     intakeService,
		Engine:     engine,
		Dispatcher: dispatcher,
		Exporter:   exporter,
		Sessions:   sessions,
		JWT:        server.NewJWTService(jwtConfig),
		Admin:      adminConfig,
		Logger:     log,
	})
	srv.OnShutdown(func() {
		cancelCron()
		redisClient.Close() //nolint:errcheck
		database.Close()
	})

	return srv.Start()
}
