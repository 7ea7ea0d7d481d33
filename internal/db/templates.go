package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetTemplate retrieves an email template by key. Returns (nil, nil) on a miss.
func (db *DB) GetTemplate(ctx context.Context, key string) (*EmailTemplate, error) {
	var t EmailTemplate
	err := db.pool.QueryRow(ctx,
		`SELECT key, subject, body, enabled, updated_at FROM email_templates WHERE key = $1`,
		key,
	).Scan(&t.Key, &t.Subject, &t.Body, &t.Enabled, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &t, nil
}

// ListTemplates retrieves all email templates ordered by key.
func (db *DB) ListTemplates(ctx context.Context) ([]EmailTemplate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT key, subject, body, enabled, updated_at FROM email_templates ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []EmailTemplate
	for rows.Next() {
		var t EmailTemplate
		if err := rows.Scan(&t.Key, &t.Subject, &t.Body, &t.Enabled, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// UpsertTemplate creates or replaces an email template.
func (db *DB) UpsertTemplate(ctx context.Context, t EmailTemplate) (*EmailTemplate, error) {
	var out EmailTemplate
	err := db.pool.QueryRow(ctx,
		`INSERT INTO email_templates (key, subject, body, enabled)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE SET
		     subject = $2, body = $3, enabled = $4, updated_at = NOW()
		 RETURNING key, subject, body, enabled, updated_at`,
		t.Key, t.Subject, t.Body, t.Enabled,
	).Scan(&out.Key, &out.Subject, &out.Body, &out.Enabled, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert template: %w", err)
	}
	return &out, nil
}
