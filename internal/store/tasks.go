package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// AddTask resolves the category, stamps created_at, and inserts a new active
// task. Returns the new task id.
func (db *DB) AddTask(title, description string, due *time.Time, priority models.Priority, category string) (int64, error) {
	if title == "" {
		return 0, fmt.Errorf("store: add task: title is empty: %w", apperr.ErrValidation)
	}
	if !priority.Valid() {
		return 0, fmt.Errorf("store: add task: invalid priority %d: %w", int(priority), apperr.ErrValidation)
	}
	catID, err := db.ResolveCategory(category)
	if err != nil {
		return 0, err
	}

	var dueStr any
	if due != nil {
		dueStr = encodeTime(*due)
	}
	res, err := db.conn.Exec(`
		INSERT INTO tasks (title, description, created_at, due_date, priority, category_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, title, description, encodeTime(db.now()), dueStr, int(priority), catID)
	if err != nil {
		return 0, fmt.Errorf("store: add task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: add task id: %w", err)
	}
	return id, nil
}

// UpdateTask applies a partial update. Only fields present in u change; the
// rest keep their stored values. Returns false when u is empty or the id does
// not exist, leaving the caller to decide how to report that.
func (db *DB) UpdateTask(id int64, u models.TaskUpdate) (bool, error) {
	if u.IsZero() {
		return false, nil
	}

	var sets []string
	var args []any

	if u.Title != nil {
		if *u.Title == "" {
			return false, fmt.Errorf("store: update task: title is empty: %w", apperr.ErrValidation)
		}
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	switch {
	case u.ClearDueDate:
		sets = append(sets, "due_date = NULL")
	case u.DueDate != nil:
		sets = append(sets, "due_date = ?")
		args = append(args, encodeTime(*u.DueDate))
	}
	if u.Priority != nil {
		if !u.Priority.Valid() {
			return false, fmt.Errorf("store: update task: invalid priority %d: %w", int(*u.Priority), apperr.ErrValidation)
		}
		sets = append(sets, "priority = ?")
		args = append(args, int(*u.Priority))
	}
	if u.Category != nil {
		catID, err := db.ResolveCategory(*u.Category)
		if err != nil {
			return false, err
		}
		sets = append(sets, "category_id = ?")
		args = append(args, catID)
	}

	args = append(args, id)
	res, err := db.conn.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("store: update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CompleteTask stamps completed_at with the current time. Re-completing an
// already-completed task refreshes the timestamp.
func (db *DB) CompleteTask(id int64) (bool, error) {
	res, err := db.conn.Exec(`UPDATE tasks SET completed_at = ? WHERE id = ?`, encodeTime(db.now()), id)
	if err != nil {
		return false, fmt.Errorf("store: complete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UncompleteTask clears completed_at, returning the task to the active state.
func (db *DB) UncompleteTask(id int64) (bool, error) {
	res, err := db.conn.Exec(`UPDATE tasks SET completed_at = NULL WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: uncomplete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteTask permanently removes the row. Categories are never cleaned up;
// they do not reference tasks.
func (db *DB) DeleteTask(id int64) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
