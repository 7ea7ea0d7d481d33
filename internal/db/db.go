// Package db provides PostgreSQL persistence for jobs, applications,
// email templates and form mappings.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store-level sentinel errors. Callers map these onto their own error
// taxonomy; the store itself enforces no business rule beyond referential
// integrity.
var (
	// ErrJobNotFound is returned when an application targets a job id that
	// does not exist.
	ErrJobNotFound = errors.New("job not found")
	// ErrDraftAlreadySubmitted is returned by token lookup when the token
	// matches an application that is no longer a draft.
	ErrDraftAlreadySubmitted = errors.New("application already submitted")
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// RunMigrations executes the embedded SQL migrations in lexical order.
func (db *DB) RunMigrations(ctx context.Context) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		content, err := migrationFiles.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		sql := strings.TrimSpace(string(content))
		if sql == "" {
			continue
		}
		if _, err := db.pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to exec migration %s: %w", e.Name(), err)
		}
	}
	return nil
}
