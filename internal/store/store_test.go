package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaAndSeededCategories(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM tasks`).Scan(&count); err != nil {
		t.Fatalf("tasks table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM categories`).Scan(&count); err != nil {
		t.Fatalf("categories table missing: %v", err)
	}
	if count != 5 {
		t.Errorf("seeded categories = %d, want 5", count)
	}

	cats, err := db.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	names := make(map[string]bool, len(cats))
	for _, c := range cats {
		names[c.Name] = true
	}
	for _, want := range []string{"Work", "Personal", "Shopping", "Health", "Education"} {
		if !names[want] {
			t.Errorf("default category %q not seeded", want)
		}
	}
}

func TestOpen_SeedingIsIdempotent(t *testing.T) {
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	for i := 0; i < 2; i++ {
		db, err := Open(f.Name())
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM categories`).Scan(&count); err != nil {
			t.Fatal(err)
		}
		db.Close()
		if count != 5 {
			t.Fatalf("open #%d: categories = %d, want 5", i, count)
		}
	}
}

func TestResolveCategory_SameIDTwice(t *testing.T) {
	db := testDB(t)
	id1, err := db.ResolveCategory("Work")
	if err != nil {
		t.Fatalf("ResolveCategory: %v", err)
	}
	id2, err := db.ResolveCategory("Work")
	if err != nil {
		t.Fatalf("ResolveCategory again: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	var count int
	_ = db.conn.QueryRow(`SELECT count(*) FROM categories WHERE name = 'Work'`).Scan(&count)
	if count != 1 {
		t.Errorf("duplicate Work rows: %d", count)
	}
}

func TestResolveCategory_CreatesOnFirstUse(t *testing.T) {
	db := testDB(t)
	id, err := db.ResolveCategory("Gardening")
	if err != nil {
		t.Fatalf("ResolveCategory: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}
	// Exact match is case-sensitive; a different casing is a new category.
	other, err := db.ResolveCategory("gardening")
	if err != nil {
		t.Fatalf("ResolveCategory lowercase: %v", err)
	}
	if other == id {
		t.Error("case-different name resolved to same category")
	}
}

func TestAddAndGetTask(t *testing.T) {
	db := testDB(t)
	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	before := time.Now()
	id, err := db.AddTask("Pay rent", "", &due, models.PriorityCritical, "Work")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	task, err := db.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Title != "Pay rent" || task.Description != "" {
		t.Errorf("title/description = %q/%q", task.Title, task.Description)
	}
	if task.Priority != models.PriorityCritical {
		t.Errorf("priority = %v, want critical", task.Priority)
	}
	if task.Category != "Work" {
		t.Errorf("category = %q, want Work", task.Category)
	}
	if task.CompletedAt != nil {
		t.Error("new task should not be completed")
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", task.DueDate, due)
	}
	if task.CreatedAt.Before(before.Add(-2*time.Second)) || task.CreatedAt.After(time.Now().Add(2*time.Second)) {
		t.Errorf("created_at = %v, not approximately now", task.CreatedAt)
	}
}

func TestAddTask_EmptyTitle(t *testing.T) {
	db := testDB(t)
	_, err := db.AddTask("", "desc", nil, models.PriorityMedium, "Work")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddTask_InvalidPriority(t *testing.T) {
	db := testDB(t)
	_, err := db.AddTask("x", "", nil, models.Priority(9), "Work")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddTask_UnseenCategoryCreated(t *testing.T) {
	db := testDB(t)
	id, err := db.AddTask("Water plants", "", nil, models.PriorityLow, "Garden")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	task, err := db.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Category != "Garden" {
		t.Errorf("category = %q, want Garden", task.Category)
	}
}

func TestUpdateTask_SingleFieldLeavesRestIntact(t *testing.T) {
	db := testDB(t)
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := db.AddTask("Original", "keep me", &due, models.PriorityHigh, "Work")
	if err != nil {
		t.Fatal(err)
	}
	before, _ := db.GetTask(id)

	title := "Renamed"
	changed, err := db.UpdateTask(id, models.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !changed {
		t.Fatal("expected a row to change")
	}

	after, _ := db.GetTask(id)
	if after.Title != "Renamed" {
		t.Errorf("title = %q", after.Title)
	}
	if after.Description != before.Description {
		t.Errorf("description changed: %q -> %q", before.Description, after.Description)
	}
	if after.Priority != before.Priority {
		t.Errorf("priority changed: %v -> %v", before.Priority, after.Priority)
	}
	if after.Category != before.Category {
		t.Errorf("category changed: %q -> %q", before.Category, after.Category)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", before.CreatedAt, after.CreatedAt)
	}
	if after.DueDate == nil || !after.DueDate.Equal(*before.DueDate) {
		t.Errorf("due date changed: %v -> %v", before.DueDate, after.DueDate)
	}
}

func TestUpdateTask_EmptyUpdateIsNoop(t *testing.T) {
	db := testDB(t)
	id, _ := db.AddTask("x", "", nil, models.PriorityMedium, "Work")
	changed, err := db.UpdateTask(id, models.TaskUpdate{})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if changed {
		t.Error("empty update should change nothing")
	}
}

func TestUpdateTask_MissingID(t *testing.T) {
	db := testDB(t)
	title := "ghost"
	changed, err := db.UpdateTask(9999, models.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if changed {
		t.Error("update of missing id reported a change")
	}
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	db := testDB(t)
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, _ := db.AddTask("x", "", &due, models.PriorityMedium, "Work")

	changed, err := db.UpdateTask(id, models.TaskUpdate{ClearDueDate: true})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !changed {
		t.Fatal("expected a change")
	}
	task, _ := db.GetTask(id)
	if task.DueDate != nil {
		t.Errorf("due date = %v, want cleared", task.DueDate)
	}
}

func TestUpdateTask_ResolvesNewCategory(t *testing.T) {
	db := testDB(t)
	id, _ := db.AddTask("x", "", nil, models.PriorityMedium, "Work")

	cat := "Errands"
	changed, err := db.UpdateTask(id, models.TaskUpdate{Category: &cat})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !changed {
		t.Fatal("expected a change")
	}
	task, _ := db.GetTask(id)
	if task.Category != "Errands" {
		t.Errorf("category = %q, want Errands", task.Category)
	}
}

func TestCompleteAndUncomplete(t *testing.T) {
	db := testDB(t)
	id, _ := db.AddTask("x", "", nil, models.PriorityMedium, "Work")

	changed, err := db.CompleteTask(id)
	if err != nil || !changed {
		t.Fatalf("CompleteTask: changed=%v err=%v", changed, err)
	}
	task, _ := db.GetTask(id)
	if task.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}

	changed, err = db.UncompleteTask(id)
	if err != nil || !changed {
		t.Fatalf("UncompleteTask: changed=%v err=%v", changed, err)
	}
	task, _ = db.GetTask(id)
	if task.CompletedAt != nil {
		t.Errorf("completed_at = %v, want cleared", task.CompletedAt)
	}
}

func TestComplete_TwiceRefreshesTimestamp(t *testing.T) {
	db := testDB(t)
	id, _ := db.AddTask("x", "", nil, models.PriorityMedium, "Work")

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	db.now = func() time.Time { return t1 }
	if _, err := db.CompleteTask(id); err != nil {
		t.Fatal(err)
	}
	db.now = func() time.Time { return t2 }
	if _, err := db.CompleteTask(id); err != nil {
		t.Fatal(err)
	}

	task, _ := db.GetTask(id)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(t2) {
		t.Errorf("completed_at = %v, want refreshed to %v", task.CompletedAt, t2)
	}
}

func TestMutators_MissingIDReturnFalse(t *testing.T) {
	db := testDB(t)
	if changed, _ := db.CompleteTask(42); changed {
		t.Error("complete of missing id reported a change")
	}
	if changed, _ := db.UncompleteTask(42); changed {
		t.Error("uncomplete of missing id reported a change")
	}
	if changed, _ := db.DeleteTask(42); changed {
		t.Error("delete of missing id reported a change")
	}
}

func TestDeleteTask(t *testing.T) {
	db := testDB(t)
	id, _ := db.AddTask("x", "", nil, models.PriorityMedium, "Work")

	changed, err := db.DeleteTask(id)
	if err != nil || !changed {
		t.Fatalf("DeleteTask: changed=%v err=%v", changed, err)
	}
	if _, err := db.GetTask(id); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMalformedTimestampsDoNotAbortReads(t *testing.T) {
	db := testDB(t)
	catID, _ := db.ResolveCategory("Work")

	// Write a row with garbage in every timestamp column, bypassing AddTask.
	res, err := db.conn.Exec(`
		INSERT INTO tasks (title, description, created_at, due_date, completed_at, priority, category_id)
		VALUES ('corrupt', '', 'not-a-time', 'also-bad', 'still-bad', 2, ?)
	`, catID)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := res.LastInsertId()

	task, err := db.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask on corrupt row: %v", err)
	}
	if task.DueDate != nil || task.CompletedAt != nil {
		t.Errorf("unparseable optionals should be nulled: due=%v completed=%v", task.DueDate, task.CompletedAt)
	}
	if !task.CreatedAt.IsZero() {
		t.Errorf("unparseable created_at should be zeroed, got %v", task.CreatedAt)
	}

	tasks, err := db.ListTasks(true)
	if err != nil {
		t.Fatalf("ListTasks with corrupt row: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("corrupt row dropped from listing: %d tasks", len(tasks))
	}
}
