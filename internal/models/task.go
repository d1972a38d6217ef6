// Package models defines the domain types for Raido.
package models

import "time"

// Task is the record shape returned by every read operation. Category is the
// resolved category name, not the raw foreign key.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
}

// Completed reports whether the task has been marked done.
func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}

// Category is a named grouping a task belongs to; unique by name.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskUpdate is a partial-update request. A nil field means "leave the stored
// value untouched". ClearDueDate removes the due date regardless of DueDate,
// so "clear" and "do not change" stay distinct requests.
type TaskUpdate struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *Priority
	Category     *string
}

// IsZero reports whether the update would change nothing.
func (u TaskUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		!u.ClearDueDate && u.Priority == nil && u.Category == nil
}

// Stats is the aggregate summary over all tasks.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	DueToday  int `json:"due_today"`
	Overdue   int `json:"overdue"`
}
