package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `a.id, a.job_id, j.title, a.user_id, a.applicant_name,
	a.applicant_email, a.applicant_phone, a.status, a.source, a.application_data,
	a.save_token, a.created_date, a.updated_date`

// ApplicationCreateInput holds everything needed to persist a new application.
type ApplicationCreateInput struct {
	JobID     int64
	UserID    *int64
	Name      string
	Email     string
	Phone     string
	Status    string
	Source    string
	Fields    Fields
	SaveToken *uuid.UUID
}

// CreateApplication inserts a new application and returns it. The target job
// must exist; ErrJobNotFound is returned otherwise with nothing persisted.
func (db *DB) CreateApplication(ctx context.Context, input ApplicationCreateInput) (*Application, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, input.JobID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check job: %w", err)
	}
	if !exists {
		return nil, ErrJobNotFound
	}

	dataJSON, err := input.Fields.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal application data: %w", err)
	}

	var a Application
	var rawData []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, user_id, applicant_name, applicant_email,
		                           applicant_phone, status, source, application_data, save_token)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, job_id, '', user_id, applicant_name, applicant_email,
		           applicant_phone, status, source, application_data, save_token,
		           created_date, updated_date`,
		input.JobID, input.UserID, input.Name, input.Email, input.Phone,
		input.Status, input.Source, dataJSON, input.SaveToken,
	).Scan(&a.ID, &a.JobID, &a.JobTitle, &a.UserID, &a.Name, &a.Email, &a.Phone,
		&a.Status, &a.Source, &rawData, &a.SaveToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	a.Fields, err = UnmarshalFields(rawData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse application data: %w", err)
	}
	return &a, nil
}

// GetApplication retrieves an application by id. Returns (nil, nil) on a miss.
func (db *DB) GetApplication(ctx context.Context, id int64) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications a JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = $1`,
		id,
	)
	a, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// GetApplicationByToken retrieves a draft by its save token. The token only
// resolves while the application is still a draft; once submitted it returns
// ErrDraftAlreadySubmitted instead of the record.
func (db *DB) GetApplicationByToken(ctx context.Context, token uuid.UUID) (*Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications a JOIN jobs j ON j.id = a.job_id
		 WHERE a.save_token = $1`,
		token,
	)
	a, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by token: %w", err)
	}
	if a.Status != "draft" {
		return nil, ErrDraftAlreadySubmitted
	}
	return a, nil
}

// ApplicationUpdateInput holds a partial update; nil fields are untouched.
// Status is deliberately absent: status changes go through the workflow
// engine, never through a direct update.
type ApplicationUpdateInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Fields *Fields
}

// UpdateApplication applies a partial update and bumps updated_date.
func (db *DB) UpdateApplication(ctx context.Context, id int64, input ApplicationUpdateInput) error {
	var sets []string
	var args []any
	argNum := 1

	if input.Name != nil {
		sets = append(sets, fmt.Sprintf("applicant_name = $%d", argNum))
		args = append(args, *input.Name)
		argNum++
	}
	if input.Email != nil {
		sets = append(sets, fmt.Sprintf("applicant_email = $%d", argNum))
		args = append(args, *input.Email)
		argNum++
	}
	if input.Phone != nil {
		sets = append(sets, fmt.Sprintf("applicant_phone = $%d", argNum))
		args = append(args, *input.Phone)
		argNum++
	}
	if input.Fields != nil {
		dataJSON, err := input.Fields.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal application data: %w", err)
		}
		sets = append(sets, fmt.Sprintf("application_data = $%d", argNum))
		args = append(args, dataJSON)
		argNum++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_date = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE applications SET %s WHERE id = $%d",
		strings.Join(sets, ", "), argNum)
	if _, err := db.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}

// UpdateApplicationStatus persists a new status and bumps updated_date.
// Transition validity is the workflow engine's concern, not the store's.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, updated_date = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %d", id)
	}
	return nil
}

// ListApplications retrieves applications matching the filter, newest first
// unless the filter selects another allowed sort key.
func (db *DB) ListApplications(ctx context.Context, filter ApplicationFilter) ([]Application, error) {
	where, args := filter.whereClause()
	query := fmt.Sprintf(
		`SELECT %s FROM applications a JOIN jobs j ON j.id = a.job_id %s %s %s`,
		applicationColumns, where, filter.orderClause(), filter.pageClause())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// CountApplications counts rows matching the filter, using the same WHERE
// builder as ListApplications.
func (db *DB) CountApplications(ctx context.Context, filter ApplicationFilter) (int, error) {
	where, args := filter.whereClause()
	var total int
	err := db.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM applications a %s", where), args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return total, nil
}

// IterateApplications streams matching rows to fn without buffering the
// result set. The export engine runs this twice per export: once to collect
// field labels, once to write rows.
func (db *DB) IterateApplications(ctx context.Context, filter ApplicationFilter, fn func(*Application) error) error {
	where, args := filter.whereClause()
	query := fmt.Sprintf(
		`SELECT %s FROM applications a JOIN jobs j ON j.id = a.job_id %s %s %s`,
		applicationColumns, where, filter.orderClause(), filter.pageClause())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to iterate applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return fmt.Errorf("failed to scan application: %w", err)
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

// DeleteApplication removes an application. Deleting an id that does not
// exist is not an error.
func (db *DB) DeleteApplication(ctx context.Context, id int64) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

// DeleteApplicationsByJob removes every application filed against a job.
// Used by the job-closure cascade when the admin opts in.
func (db *DB) DeleteApplicationsByJob(ctx context.Context, jobID int64) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE job_id = $1`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete applications for job: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	var rawData []byte
	var phone *string
	err := row.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.UserID, &a.Name, &a.Email,
		&phone, &a.Status, &a.Source, &rawData, &a.SaveToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		a.Phone = *phone
	}
	a.Fields, err = UnmarshalFields(rawData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse application data: %w", err)
	}
	return &a, nil
}
