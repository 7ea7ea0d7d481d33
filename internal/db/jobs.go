package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// JobCreateInput holds the fields for a new vacancy.
type JobCreateInput struct {
	Title     string
	Company   string
	Location  string
	ExpiresAt *time.Time
}

// CreateJob inserts a new open job and returns it.
func (db *DB) CreateJob(ctx context.Context, input JobCreateInput) (*Job, error) {
	var j Job
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, company, location, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, company, location, status, expires_at, created_at, updated_at`,
		input.Title, input.Company, input.Location, JobStatusOpen, input.ExpiresAt,
	).Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Status, &j.ExpiresAt,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &j, nil
}

// GetJob retrieves a job by id. Returns (nil, nil) on a miss.
func (db *DB) GetJob(ctx context.Context, id int64) (*Job, error) {
	var j Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company, location, status, expires_at, created_at, updated_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Status, &j.ExpiresAt,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// ListJobs retrieves jobs, optionally filtered by status, newest first.
func (db *DB) ListJobs(ctx context.Context, status string) ([]Job, error) {
	query := `SELECT id, title, company, location, status, expires_at, created_at, updated_at
	          FROM jobs`
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Status,
			&j.ExpiresAt, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CloseJob marks a job closed. Its applications are untouched; purging them
// is a separate, explicit admin decision.
func (db *DB) CloseJob(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`,
		JobStatusClosed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

// ExpireJobs marks every open job past its expiry as expired and returns how
// many were affected. Invoked by the daily maintenance task.
func (db *DB) ExpireJobs(ctx context.Context, now time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW()
		 WHERE status = $2 AND expires_at IS NOT NULL AND expires_at <= $3`,
		JobStatusExpired, JobStatusOpen, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
