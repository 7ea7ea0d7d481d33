package db

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationFilter selects a slice of applications. The same filter drives
// ListApplications, CountApplications and the CSV export, so list and count
// always agree on which rows qualify.
type ApplicationFilter struct {
	JobID        *int64
	Status       string
	Email        string // substring match on applicant_email
	Search       string // case-insensitive substring on name or email
	IDs          []int64
	CreatedAfter *time.Time

	SortKey  string // one of allowed sort columns; created_date when empty
	SortAsc  bool
	Limit    int // 0 means no limit
	Offset   int
}

// allowedSortKeys is the explicit allow-list of sortable columns. Anything
// else falls back to the default ordering rather than reaching the query.
var allowedSortKeys = map[string]string{
	"created_date":    "a.created_date",
	"updated_date":    "a.updated_date",
	"applicant_name":  "a.applicant_name",
	"applicant_email": "a.applicant_email",
	"status":          "a.status",
	"job_id":          "a.job_id",
	"id":              "a.id",
}

// whereClause builds the WHERE fragment and its arguments. Both list and
// count queries use this builder and nothing else.
func (f ApplicationFilter) whereClause() (string, []any) {
	var conditions []string
	var args []any
	argNum := 1

	if f.JobID != nil {
		conditions = append(conditions, fmt.Sprintf("a.job_id = $%d", argNum))
		args = append(args, *f.JobID)
		argNum++
	}
	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argNum))
		args = append(args, f.Status)
		argNum++
	}
	if f.Email != "" {
		conditions = append(conditions, fmt.Sprintf("a.applicant_email ILIKE $%d", argNum))
		args = append(args, "%"+f.Email+"%")
		argNum++
	}
	if f.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(a.applicant_name ILIKE $%d OR a.applicant_email ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+f.Search+"%")
		argNum++
	}
	if len(f.IDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("a.id = ANY($%d)", argNum))
		args = append(args, f.IDs)
		argNum++
	}
	if f.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("a.created_date > $%d", argNum))
		args = append(args, *f.CreatedAfter)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause builds the ORDER BY fragment. Unknown sort keys fall back to
// created_date descending, the default listing order.
func (f ApplicationFilter) orderClause() string {
	col, ok := allowedSortKeys[f.SortKey]
	if !ok {
		return "ORDER BY a.created_date DESC"
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", col, dir)
}

// pageClause builds the LIMIT/OFFSET fragment. A zero limit means the full
// result set (the export path).
func (f ApplicationFilter) pageClause() string {
	clause := ""
	if f.Limit > 0 {
		clause = fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	if f.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", f.Offset)
	}
	return strings.TrimSpace(clause)
}
