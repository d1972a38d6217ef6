package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

const taskColumns = `t.id, t.title, t.description, t.created_at, t.due_date, t.completed_at, t.priority, c.name`

// taskOrder sorts by priority descending, then due date ascending. Tasks with
// no due date sort last within a priority band; the IS NULL key makes that
// explicit instead of leaning on SQLite's NULLs-first default.
const taskOrder = ` ORDER BY t.priority DESC, t.due_date IS NULL, t.due_date ASC`

// ListTasks returns active tasks, or all tasks when includeCompleted is set.
func (db *DB) ListTasks(includeCompleted bool) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t JOIN categories c ON t.category_id = c.id`
	if !includeCompleted {
		query += ` WHERE t.completed_at IS NULL`
	}
	query += taskOrder

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// GetTask returns a single task joined with its category name, or
// apperr.ErrNotFound.
func (db *DB) GetTask(id int64) (*models.Task, error) {
	row := db.conn.QueryRow(`SELECT `+taskColumns+` FROM tasks t JOIN categories c ON t.category_id = c.id WHERE t.id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return t, nil
}

// SearchTasks returns tasks whose title or description contains the query as
// a substring (ASCII case-insensitive), in the same order as ListTasks.
// Completed tasks are included; filtering them is the caller's business.
// LIKE wildcards in the query are treated as literals.
func (db *DB) SearchTasks(query string) ([]models.Task, error) {
	esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	like := "%" + esc + "%"
	rows, err := db.conn.Query(`
		SELECT `+taskColumns+`
		FROM tasks t JOIN categories c ON t.category_id = c.id
		WHERE t.title LIKE ? ESCAPE '\' OR t.description LIKE ? ESCAPE '\'`+taskOrder,
		like, like)
	if err != nil {
		return nil, fmt.Errorf("store: search tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Stats computes the aggregate summary. The calendar-day window for DueToday
// and Overdue is derived from now in now's location, so "today" is explicit
// and deterministic under test.
func (db *DB) Stats(now time.Time) (models.Stats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var s models.Stats
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(completed_at IS NOT NULL), 0),
		       COALESCE(SUM(due_date >= ? AND due_date < ?), 0),
		       COALESCE(SUM(due_date < ? AND completed_at IS NULL), 0)
		FROM tasks
	`, encodeTime(dayStart), encodeTime(dayEnd), encodeTime(dayStart)).
		Scan(&s.Total, &s.Completed, &s.DueToday, &s.Overdue)
	if err != nil {
		return models.Stats{}, fmt.Errorf("store: stats: %w", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask decodes one joined row. A stored due_date or completed_at that no
// longer parses is nulled out rather than failing the row; a bad created_at
// is zeroed. One corrupt value never aborts a whole listing.
func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t         models.Task
		desc      sql.NullString
		created   string
		due       sql.NullString
		completed sql.NullString
		prio      int
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &created, &due, &completed, &prio, &t.Category); err != nil {
		return nil, err
	}
	t.Description = desc.String
	t.Priority = models.Priority(prio)
	if ts, err := time.Parse(timeFormat, created); err == nil {
		t.CreatedAt = ts
	}
	t.DueDate = parseOptionalTime(due)
	t.CompletedAt = parseOptionalTime(completed)
	return &t, nil
}

func parseOptionalTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	ts, err := time.Parse(timeFormat, v.String)
	if err != nil {
		return nil
	}
	return &ts
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
