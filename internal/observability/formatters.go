// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/export"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxColumnsToShow is the number of CSV columns listed in summaries
	maxColumnsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintExportSummary outputs a human-readable summary of a finished CSV
// export.
func (p *Printer) PrintExportSummary(summary *export.Summary, path string) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:    %s\n", path))
	sb.WriteString(fmt.Sprintf("Rows:    %d\n", summary.Rows))
	sb.WriteString(fmt.Sprintf("Columns: %d\n", len(summary.Columns)))
	sb.WriteString("\n")

	shown := summary.Columns
	truncated := false
	if len(shown) > maxColumnsToShow {
		shown = shown[:maxColumnsToShow]
		truncated = true
	}
	for _, col := range shown {
		sb.WriteString(fmt.Sprintf("  - %s\n", col))
	}
	if truncated {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.Columns)-maxColumnsToShow))
	}

	p.printBox("CSV Export", strings.TrimRight(sb.String(), "\n"))
}

// PrintApplication outputs a one-screen summary of a stored application.
func (p *Printer) PrintApplication(app *db.Application) {
	if app == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:      %d\n", app.ID))
	sb.WriteString(fmt.Sprintf("Job:     %s (#%d)\n", app.JobTitle, app.JobID))
	sb.WriteString(fmt.Sprintf("Name:    %s\n", app.Name))
	sb.WriteString(fmt.Sprintf("Email:   %s\n", app.Email))
	sb.WriteString(fmt.Sprintf("Status:  %s\n", app.Status))
	sb.WriteString(fmt.Sprintf("Source:  %s\n", app.Source))
	sb.WriteString(fmt.Sprintf("Applied: %s\n", app.CreatedAt.Format("2006-01-02 15:04")))

	if len(app.Fields) > 0 {
		sb.WriteString("\n")
		for _, f := range app.Fields {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", f.Label, f.Display()))
		}
	}

	p.printBox(fmt.Sprintf("Application #%d", app.ID), strings.TrimRight(sb.String(), "\n"))
}
