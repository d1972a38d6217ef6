package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/export"
	"github.com/starford/raido/internal/taskservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *taskservice.Service, exporter *export.Exporter, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, exporter)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Tasks CRUD.
	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks", h.CreateTask)
	r.Get("/tasks/{id}", h.GetTask)
	r.Patch("/tasks/{id}", h.UpdateTask)
	r.Delete("/tasks/{id}", h.DeleteTask)
	r.Post("/tasks/{id}/complete", h.CompleteTask)
	r.Post("/tasks/{id}/uncomplete", h.UncompleteTask)

	// Read-side extras.
	r.Get("/search", h.Search)
	r.Get("/categories", h.Categories)
	r.Get("/stats", h.Stats)
	r.Get("/export", h.Export)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
