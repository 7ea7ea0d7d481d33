// Package server provides the HTTP API: public intake and draft endpoints
// plus the JWT-protected admin surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/config"
	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/export"
	"github.com/hiringdesk/applicant-tracker/internal/intake"
	"github.com/hiringdesk/applicant-tracker/internal/notify"
	"github.com/hiringdesk/applicant-tracker/internal/server/middleware"
	"github.com/hiringdesk/applicant-tracker/internal/server/ratelimit"
	"github.com/hiringdesk/applicant-tracker/internal/telemetry"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

// Store is the slice of the database layer the handlers use. Satisfied by
// *db.DB; handler tests substitute a fake.
type Store interface {
	CreateApplication(ctx context.Context, input db.ApplicationCreateInput) (*db.Application, error)
	GetApplication(ctx context.Context, id int64) (*db.Application, error)
	GetApplicationByToken(ctx context.Context, token uuid.UUID) (*db.Application, error)
	UpdateApplication(ctx context.Context, id int64, input db.ApplicationUpdateInput) error
	ListApplications(ctx context.Context, filter db.ApplicationFilter) ([]db.Application, error)
	CountApplications(ctx context.Context, filter db.ApplicationFilter) (int, error)
	DeleteApplication(ctx context.Context, id int64) error

	CreateJob(ctx context.Context, input db.JobCreateInput) (*db.Job, error)
	GetJob(ctx context.Context, id int64) (*db.Job, error)
	ListJobs(ctx context.Context, status string) ([]db.Job, error)

	GetTemplate(ctx context.Context, key string) (*db.EmailTemplate, error)
	ListTemplates(ctx context.Context) ([]db.EmailTemplate, error)
	UpsertTemplate(ctx context.Context, t db.EmailTemplate) (*db.EmailTemplate, error)

	ListFormMappings(ctx context.Context) ([]db.FormMapping, error)
	UpsertFormMapping(ctx context.Context, source, formID string, jobID int64) (*db.FormMapping, error)
}

// SessionRecorder records which job a visitor last viewed. Satisfied by
// *session.Store.
type SessionRecorder interface {
	SetCurrentJob(ctx context.Context, sessionID string, jobID int64) error
}

// Server is the HTTP server wiring the stores and services together.
type Server struct {
	httpServer  *http.Server
	store       Store
	intake      *intake.Service
	engine      *workflow.Engine
	dispatcher  *notify.Dispatcher
	exporter    *export.Exporter
	sessions    SessionRecorder
	jwtService  *JWTService
	admin       *config.AdminConfig
	rateLimiter *ratelimit.Limiter
	log         *zap.Logger

	closers []func()
}

// Deps collects the services the server routes to.
type Deps struct {
	Store      Store
	Intake     *intake.Service
	Engine     *workflow.Engine
	Dispatcher *notify.Dispatcher
	Exporter   *export.Exporter
	Sessions   SessionRecorder
	JWT        *JWTService
	Admin      *config.AdminConfig
	Logger     *zap.Logger
}

// New creates a server over already-constructed services.
func New(port int, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		store:       deps.Store,
		intake:      deps.Intake,
		engine:      deps.Engine,
		dispatcher:  deps.Dispatcher,
		exporter:    deps.Exporter,
		sessions:    deps.Sessions,
		jwtService:  deps.JWT,
		admin:       deps.Admin,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		log:         log,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // exports can stream for a while
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// OnShutdown registers a cleanup hook run after the HTTP server stops.
func (s *Server) OnShutdown(fn func()) {
	s.closers = append(s.closers, fn)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public surface
	mux.HandleFunc("POST /submit/{source}", s.handleSubmit)
	mux.HandleFunc("POST /applications/draft", s.handleSaveDraft)
	mux.HandleFunc("GET /applications/resume/{token}", s.handleResumeDraft)
	mux.HandleFunc("POST /applications/resume/{token}", s.handleUpdateDraft)
	mux.HandleFunc("POST /applications/resume/{token}/submit", s.handleSubmitDraft)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", telemetry.Handler())

	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Admin surface
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(s.jwtService, h)
	}
	mux.HandleFunc("GET /applications", auth(s.handleListApplications))
	mux.HandleFunc("GET /applications/{id}", auth(s.handleGetApplication))
	mux.HandleFunc("PUT /applications/{id}", auth(s.handleUpdateApplication))
	mux.HandleFunc("DELETE /applications/{id}", auth(s.handleDeleteApplication))
	mux.HandleFunc("POST /applications/{id}/status", auth(s.handleUpdateStatus))
	mux.HandleFunc("POST /applications/bulk-status", auth(s.handleBulkStatus))
	mux.HandleFunc("GET /export.csv", auth(s.handleExport))

	mux.HandleFunc("GET /templates", auth(s.handleListTemplates))
	mux.HandleFunc("GET /templates/{key}", auth(s.handleGetTemplate))
	mux.HandleFunc("PUT /templates/{key}", auth(s.handleUpdateTemplate))
	mux.HandleFunc("GET /templates/{key}/preview", auth(s.handlePreviewTemplate))
	mux.HandleFunc("POST /templates/{key}/test-send", auth(s.handleTestSendTemplate))

	mux.HandleFunc("POST /jobs", auth(s.handleCreateJob))
	mux.HandleFunc("GET /jobs", auth(s.handleListJobs))
	mux.HandleFunc("POST /jobs/{id}/close", auth(s.handleCloseJob))

	mux.HandleFunc("GET /form-mappings", auth(s.handleListFormMappings))
	mux.HandleFunc("PUT /form-mappings/{source}/{form_id}", auth(s.handleUpsertFormMapping))

	return mux
}

// Start begins listening and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, fn := range s.closers {
		fn()
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			telemetry.RateLimitRejects.Inc()
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps an error through HTTPStatus, hiding internal detail on
// 5xx responses.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("internal error", zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID identifies the client by IP for rate limiting.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":    "rate_limit_exceeded",
		"message":  "Rate limit exceeded. Please try again later.",
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	})
}

// readBody reads a request body with the standard size cap.
func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &BadRequestError{Message: "invalid id"}
	}
	return id, nil
}
