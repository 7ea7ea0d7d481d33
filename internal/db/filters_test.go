package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWhereClause_Empty(t *testing.T) {
	where, args := ApplicationFilter{}.whereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestWhereClause_NumbersPlaceholdersInOrder(t *testing.T) {
	jobID := int64(7)
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := ApplicationFilter{
		JobID:        &jobID,
		Status:       "submitted",
		Email:        "example.com",
		Search:       "jane",
		IDs:          []int64{1, 2},
		CreatedAfter: &after,
	}

	where, args := f.whereClause()

	assert.Equal(t,
		"WHERE a.job_id = $1 AND a.status = $2 AND a.applicant_email ILIKE $3 "+
			"AND (a.applicant_name ILIKE $4 OR a.applicant_email ILIKE $4) "+
			"AND a.id = ANY($5) AND a.created_date > $6",
		where)
	assert.Equal(t, []any{jobID, "submitted", "%example.com%", "%jane%", []int64{1, 2}, after}, args)
}

func TestWhereClause_SkipsUnsetConditions(t *testing.T) {
	where, args := ApplicationFilter{Search: "doe"}.whereClause()

	assert.Equal(t, "WHERE (a.applicant_name ILIKE $1 OR a.applicant_email ILIKE $1)", where)
	assert.Equal(t, []any{"%doe%"}, args)
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		name string
		f    ApplicationFilter
		want string
	}{
		{"default", ApplicationFilter{}, "ORDER BY a.created_date DESC"},
		{"unknown key falls back", ApplicationFilter{SortKey: "application_data"}, "ORDER BY a.created_date DESC"},
		{"injection attempt falls back", ApplicationFilter{SortKey: "id; DROP TABLE applications"}, "ORDER BY a.created_date DESC"},
		{"allowed descending", ApplicationFilter{SortKey: "applicant_name"}, "ORDER BY a.applicant_name DESC"},
		{"allowed ascending", ApplicationFilter{SortKey: "status", SortAsc: true}, "ORDER BY a.status ASC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.orderClause())
		})
	}
}

func TestPageClause(t *testing.T) {
	assert.Empty(t, ApplicationFilter{}.pageClause())
	assert.Equal(t, "LIMIT 50", ApplicationFilter{Limit: 50}.pageClause())
	assert.Equal(t, "LIMIT 50 OFFSET 100", ApplicationFilter{Limit: 50, Offset: 100}.pageClause())
	assert.Equal(t, "OFFSET 10", ApplicationFilter{Offset: 10}.pageClause())
}
