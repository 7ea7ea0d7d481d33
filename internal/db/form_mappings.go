package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetFormMapping retrieves the job binding for a third-party form.
// Returns (nil, nil) when no mapping has been configured.
func (db *DB) GetFormMapping(ctx context.Context, source, formID string) (*FormMapping, error) {
	var m FormMapping
	err := db.pool.QueryRow(ctx,
		`SELECT source, form_id, job_id, created_at
		 FROM form_mappings WHERE source = $1 AND form_id = $2`,
		source, formID,
	).Scan(&m.Source, &m.FormID, &m.JobID, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get form mapping: %w", err)
	}
	return &m, nil
}

// ListFormMappings retrieves all form-to-job bindings.
func (db *DB) ListFormMappings(ctx context.Context) ([]FormMapping, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT source, form_id, job_id, created_at
		 FROM form_mappings ORDER BY source, form_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list form mappings: %w", err)
	}
	defer rows.Close()

	var mappings []FormMapping
	for rows.Next() {
		var m FormMapping
		if err := rows.Scan(&m.Source, &m.FormID, &m.JobID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan form mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// UpsertFormMapping creates or replaces a form-to-job binding. The target
// job must exist.
func (db *DB) UpsertFormMapping(ctx context.Context, source, formID string, jobID int64) (*FormMapping, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check job: %w", err)
	}
	if !exists {
		return nil, ErrJobNotFound
	}

	var m FormMapping
	err = db.pool.QueryRow(ctx,
		`INSERT INTO form_mappings (source, form_id, job_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (source, form_id) DO UPDATE SET job_id = $3
		 RETURNING source, form_id, job_id, created_at`,
		source, formID, jobID,
	).Scan(&m.Source, &m.FormID, &m.JobID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert form mapping: %w", err)
	}
	return &m, nil
}
