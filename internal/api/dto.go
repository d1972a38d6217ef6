package api

import (
	"time"

	"github.com/starford/raido/internal/models"
)

// CreateTaskRequest is the request body for creating a task. Priority is the
// level name ("low", "medium", "high", "critical") or its integer encoding;
// omitted priority and category fall back to the service defaults.
type CreateTaskRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	DueDate     *time.Time       `json:"due_date"`
	Priority    *models.Priority `json:"priority"`
	Category    string           `json:"category"`
}

// UpdateTaskRequest is the request body for a partial update. Absent fields
// are left untouched; clear_due_date removes the due date explicitly.
type UpdateTaskRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	DueDate      *time.Time       `json:"due_date"`
	ClearDueDate bool             `json:"clear_due_date"`
	Priority     *models.Priority `json:"priority"`
	Category     *string          `json:"category"`
}

func (r UpdateTaskRequest) toUpdate() models.TaskUpdate {
	return models.TaskUpdate{
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      r.DueDate,
		ClearDueDate: r.ClearDueDate,
		Priority:     r.Priority,
		Category:     r.Category,
	}
}

// TaskListResponse wraps task listings.
type TaskListResponse struct {
	Tasks []models.Task `json:"tasks" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// CategoryListResponse wraps the category listing.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories" validate:"required"`
}
