package taskservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/testutil"
)

type eventRecorder struct {
	kinds []string
	ids   []int64
}

func (r *eventRecorder) record(kind string, id int64) {
	r.kinds = append(r.kinds, kind)
	r.ids = append(r.ids, id)
}

func newTestService(t *testing.T) (*Service, *eventRecorder) {
	t.Helper()
	db := testutil.TestStore(t)
	rec := &eventRecorder{}
	return NewService(db, rec.record), rec
}

func TestAddTask_TrimsAndDefaults(t *testing.T) {
	svc, rec := newTestService(t)

	task, err := svc.AddTask(context.Background(), AddTaskRequest{Title: "  Buy milk  "})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("title = %q, want trimmed", task.Title)
	}
	if task.Category != defaultCategory {
		t.Errorf("category = %q, want %q", task.Category, defaultCategory)
	}
	if task.Priority != defaultPriority {
		t.Errorf("priority = %v, want %v", task.Priority, defaultPriority)
	}
	if len(rec.kinds) != 1 || rec.kinds[0] != "created" {
		t.Errorf("events = %v, want [created]", rec.kinds)
	}
	if rec.ids[0] != task.ID {
		t.Errorf("event id = %d, want %d", rec.ids[0], task.ID)
	}
}

func TestAddTask_BlankTitleFails(t *testing.T) {
	svc, rec := newTestService(t)

	_, err := svc.AddTask(context.Background(), AddTaskRequest{Title: "   "})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(rec.kinds) != 0 {
		t.Errorf("failed add should emit no events, got %v", rec.kinds)
	}
}

func TestAddTask_ExplicitFieldsKept(t *testing.T) {
	svc, _ := newTestService(t)

	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task, err := svc.AddTask(context.Background(), AddTaskRequest{
		Title:       "Dentist",
		Description: "annual checkup",
		DueDate:     &due,
		Priority:    models.PriorityHigh,
		Category:    " Health ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Category != "Health" {
		t.Errorf("category = %q, want Health", task.Category)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %v, want high", task.Priority)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("due = %v, want %v", task.DueDate, due)
	}
}

func TestUpdateTask_TrimsPointerFields(t *testing.T) {
	svc, rec := newTestService(t)
	task, err := svc.AddTask(context.Background(), AddTaskRequest{Title: "Original"})
	if err != nil {
		t.Fatal(err)
	}

	title := "  Renamed  "
	category := "  Work  "
	changed, err := svc.UpdateTask(context.Background(), task.ID, models.TaskUpdate{Title: &title, Category: &category})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !changed {
		t.Fatal("update reported no change")
	}

	got, err := svc.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Renamed" || got.Category != "Work" {
		t.Errorf("task = %q/%q, want Renamed/Work", got.Title, got.Category)
	}
	if rec.kinds[len(rec.kinds)-1] != "updated" {
		t.Errorf("last event = %q, want updated", rec.kinds[len(rec.kinds)-1])
	}
}

func TestUpdateTask_MissingIDEmitsNothing(t *testing.T) {
	svc, rec := newTestService(t)

	title := "x"
	changed, err := svc.UpdateTask(context.Background(), 404, models.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("missing id should report no change")
	}
	if len(rec.kinds) != 0 {
		t.Errorf("events = %v, want none", rec.kinds)
	}
}

func TestCompletionLifecycleEvents(t *testing.T) {
	svc, rec := newTestService(t)
	task, err := svc.AddTask(context.Background(), AddTaskRequest{Title: "Lifecycle"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.CompleteTask(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UncompleteTask(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}

	want := []string{"created", "completed", "uncompleted", "deleted"}
	if len(rec.kinds) != len(want) {
		t.Fatalf("events = %v, want %v", rec.kinds, want)
	}
	for i := range want {
		if rec.kinds[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, rec.kinds[i], want[i])
		}
	}
}

func TestSearch_TrimsQuery(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.AddTask(context.Background(), AddTaskRequest{Title: "Buy milk"}); err != nil {
		t.Fatal(err)
	}

	tasks, err := svc.Search(context.Background(), "  milk  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Errorf("hits = %d, want 1", len(tasks))
	}
}

func TestNilEventFuncIsSafe(t *testing.T) {
	svc := NewService(testutil.TestStore(t), nil)
	if _, err := svc.AddTask(context.Background(), AddTaskRequest{Title: "No listener"}); err != nil {
		t.Fatal(err)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GetTask(context.Background(), 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
