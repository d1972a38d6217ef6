// Package export renders a snapshot of all tasks as JSON, CSV, or PDF.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/store"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter reads the full task set (completed included) and renders it.
type Exporter struct {
	db store.TaskStore
}

// NewExporter creates a new Exporter over the given store.
func NewExporter(db store.TaskStore) *Exporter {
	return &Exporter{db: db}
}

// Export renders the report in the requested format and returns the payload
// with its content type. format is case-insensitive: "json", "csv", or "pdf".
func (e *Exporter) Export(_ context.Context, format string) ([]byte, string, error) {
	tasks, err := e.db.ListTasks(true)
	if err != nil {
		return nil, "", err
	}
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		return data, "application/json", err
	case "csv":
		data, err := renderCSV(tasks)
		return data, "text/csv", err
	case "pdf":
		data, err := renderPDF(tasks)
		return data, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderCSV(tasks []models.Task) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "title", "description", "created_at", "due_date", "completed_at", "priority", "category"})
	for _, t := range tasks {
		_ = w.Write([]string{
			fmt.Sprint(t.ID),
			t.Title,
			t.Description,
			t.CreatedAt.Format(time.RFC3339),
			formatOptional(t.DueDate),
			formatOptional(t.CompletedAt),
			t.Priority.String(),
			t.Category,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func renderPDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		status := "active"
		if t.Completed() {
			status = "done"
		}
		due := "no due date"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("#%d [%s/%s] %s (%s) due %s", t.ID, t.Priority, status, t.Title, t.Category, due)
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
