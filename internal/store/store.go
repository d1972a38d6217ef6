package store

import (
	"time"

	"github.com/starford/raido/internal/models"
)

// TaskStore defines the persistence and query operations for tasks.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type TaskStore interface {
	ResolveCategory(name string) (int64, error)
	Categories() ([]models.Category, error)
	AddTask(title, description string, due *time.Time, priority models.Priority, category string) (int64, error)
	UpdateTask(id int64, u models.TaskUpdate) (bool, error)
	CompleteTask(id int64) (bool, error)
	UncompleteTask(id int64) (bool, error)
	DeleteTask(id int64) (bool, error)
	ListTasks(includeCompleted bool) ([]models.Task, error)
	GetTask(id int64) (*models.Task, error)
	SearchTasks(query string) ([]models.Task, error)
	Stats(now time.Time) (models.Stats, error)
	Close() error
}

// Verify *DB satisfies TaskStore at compile time.
var _ TaskStore = (*DB)(nil)
