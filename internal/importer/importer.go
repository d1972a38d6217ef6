// Package importer ingests YAML task files dropped into the inbox directory.
//
// A task file looks like:
//
//	tasks:
//	  - title: Pay rent
//	    description: January invoice
//	    due: 2024-01-01T09:00:00Z
//	    priority: critical
//	    category: Work
//
// Files are imported through the task service and renamed to
// "<name>.imported" on success so they are never processed twice.
package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/taskservice"
)

// taskFile is the on-disk inbox file shape.
type taskFile struct {
	Tasks []taskEntry `yaml:"tasks"`
}

type taskEntry struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Due         *time.Time `yaml:"due"`
	Priority    string     `yaml:"priority"`
	Category    string     `yaml:"category"`
}

// ImportFile decodes one inbox file, adds its tasks, and renames the file to
// mark it consumed. Entries that fail validation are skipped; the count of
// imported tasks is returned either way.
func ImportFile(ctx context.Context, svc *taskservice.Service, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("importer: read %s: %w", path, err)
	}

	var file taskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("importer: decode %s: %w", path, err)
	}

	imported := 0
	for _, entry := range file.Tasks {
		req := taskservice.AddTaskRequest{
			Title:       entry.Title,
			Description: entry.Description,
			DueDate:     entry.Due,
			Category:    entry.Category,
		}
		if entry.Priority != "" {
			p, perr := models.ParsePriority(entry.Priority)
			if perr != nil {
				continue
			}
			req.Priority = p
		}
		if _, err := svc.AddTask(ctx, req); err != nil {
			continue
		}
		imported++
	}

	if err := os.Rename(path, path+".imported"); err != nil {
		return imported, fmt.Errorf("importer: mark %s: %w", path, err)
	}
	return imported, nil
}
