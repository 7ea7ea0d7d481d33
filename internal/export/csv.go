package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/telemetry"
)

// fixedColumns lead every export; dynamic form-field columns follow.
var fixedColumns = []string{
	"ID",
	"Job Title",
	"Applicant Name",
	"Applicant Email",
	"Phone",
	"Status",
	"Applied Date",
	"Updated Date",
}

// Iterator streams applications matching a filter. Satisfied by *db.DB.
type Iterator interface {
	IterateApplications(ctx context.Context, filter db.ApplicationFilter, fn func(*db.Application) error) error
}

// Exporter writes filtered application sets as CSV.
type Exporter struct {
	store Iterator
}

// NewExporter creates a CSV exporter over the given store.
func NewExporter(store Iterator) *Exporter {
	return &Exporter{store: store}
}

// Summary describes a finished export.
type Summary struct {
	Rows    int
	Columns []string
}

// Write streams the filtered applications to w as CSV. It runs two passes
// over the store: the first collects the union of form-field labels in
// first-seen order (the dynamic columns), the second writes rows. Rows are
// never buffered in memory.
func (e *Exporter) Write(ctx context.Context, w io.Writer, filter db.ApplicationFilter) (*Summary, error) {
	telemetry.ExportsStarted.Inc()

	// Pagination does not apply to exports.
	filter.Limit = 0
	filter.Offset = 0

	var dynamic []string
	seen := map[string]bool{}
	err := e.store.IterateApplications(ctx, filter, func(a *db.Application) error {
		for _, f := range a.Fields {
			if !seen[f.Label] {
				seen[f.Label] = true
				dynamic = append(dynamic, f.Label)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect export columns: %w", err)
	}

	cw := csv.NewWriter(w)
	header := append(append([]string{}, fixedColumns...), dynamic...)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	rows := 0
	err = e.store.IterateApplications(ctx, filter, func(a *db.Application) error {
		record := make([]string, 0, len(header))
		record = append(record,
			fmt.Sprintf("%d", a.ID),
			CleanValue(a.JobTitle),
			CleanValue(a.Name),
			CleanValue(a.Email),
			CleanValue(a.Phone),
			a.Status,
			a.CreatedAt.Format(time.RFC3339),
			a.UpdatedAt.Format(time.RFC3339),
		)
		for _, label := range dynamic {
			f, ok := a.Fields.Get(label)
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, CleanValue(f.Display()))
		}
		rows++
		return cw.Write(record)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write export rows: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return &Summary{Rows: rows, Columns: header}, nil
}
