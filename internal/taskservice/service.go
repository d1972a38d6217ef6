// Package taskservice coordinates store access for the API, MCP, and importer
// surfaces. It owns boundary concerns: input trimming, defaults, and change
// notifications.
package taskservice

import (
	"context"
	"strings"
	"time"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/store"
)

// EventFunc is called after each successful mutation. kind is one of
// "created", "updated", "completed", "uncompleted", "deleted".
type EventFunc func(kind string, id int64)

// AddTaskRequest carries the fields for creating a task. Description and
// DueDate are optional; empty Category and zero Priority fall back to the
// defaults below.
type AddTaskRequest struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
	Category    string
}

// Defaults applied when a request leaves them unset.
const (
	defaultCategory = "Personal"
	defaultPriority = models.PriorityMedium
)

// Service coordinates task store operations.
type Service struct {
	db     store.TaskStore
	events EventFunc
}

// NewService creates a new task service. events may be nil.
func NewService(db store.TaskStore, events EventFunc) *Service {
	return &Service{db: db, events: events}
}

func (s *Service) notify(kind string, id int64) {
	if s.events != nil {
		s.events(kind, id)
	}
}

// AddTask trims inputs, applies defaults, creates the task, and returns it.
func (s *Service) AddTask(ctx context.Context, req AddTaskRequest) (*models.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		req.Category = defaultCategory
	}
	if req.Priority == 0 {
		req.Priority = defaultPriority
	}

	id, err := s.db.AddTask(req.Title, req.Description, req.DueDate, req.Priority, req.Category)
	if err != nil {
		return nil, err
	}
	s.notify("created", id)
	return s.db.GetTask(id)
}

// GetTask returns a single task or apperr.ErrNotFound.
func (s *Service) GetTask(_ context.Context, id int64) (*models.Task, error) {
	return s.db.GetTask(id)
}

// ListTasks returns tasks in priority/due-date order; completed tasks only
// when includeCompleted is set.
func (s *Service) ListTasks(_ context.Context, includeCompleted bool) ([]models.Task, error) {
	return s.db.ListTasks(includeCompleted)
}

// UpdateTask applies a partial update. Title and category values are trimmed
// at this boundary; the store matches categories exactly.
func (s *Service) UpdateTask(_ context.Context, id int64, u models.TaskUpdate) (bool, error) {
	if u.Title != nil {
		trimmed := strings.TrimSpace(*u.Title)
		u.Title = &trimmed
	}
	if u.Category != nil {
		trimmed := strings.TrimSpace(*u.Category)
		u.Category = &trimmed
	}
	changed, err := s.db.UpdateTask(id, u)
	if err != nil {
		return false, err
	}
	if changed {
		s.notify("updated", id)
	}
	return changed, nil
}

// CompleteTask marks a task done, refreshing the timestamp if it already was.
func (s *Service) CompleteTask(_ context.Context, id int64) (bool, error) {
	changed, err := s.db.CompleteTask(id)
	if err != nil {
		return false, err
	}
	if changed {
		s.notify("completed", id)
	}
	return changed, nil
}

// UncompleteTask returns a task to the active state.
func (s *Service) UncompleteTask(_ context.Context, id int64) (bool, error) {
	changed, err := s.db.UncompleteTask(id)
	if err != nil {
		return false, err
	}
	if changed {
		s.notify("uncompleted", id)
	}
	return changed, nil
}

// DeleteTask permanently removes a task.
func (s *Service) DeleteTask(_ context.Context, id int64) (bool, error) {
	changed, err := s.db.DeleteTask(id)
	if err != nil {
		return false, err
	}
	if changed {
		s.notify("deleted", id)
	}
	return changed, nil
}

// Search returns tasks matching the substring query, completed ones included.
func (s *Service) Search(_ context.Context, query string) ([]models.Task, error) {
	return s.db.SearchTasks(strings.TrimSpace(query))
}

// Categories returns all categories alphabetically.
func (s *Service) Categories(_ context.Context) ([]models.Category, error) {
	return s.db.Categories()
}

// Stats computes the summary against the given reference time.
func (s *Service) Stats(_ context.Context, now time.Time) (models.Stats, error) {
	return s.db.Stats(now)
}
