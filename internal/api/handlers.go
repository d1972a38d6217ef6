package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/export"
	"github.com/starford/raido/internal/taskservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *taskservice.Service
	exporter *export.Exporter
}

// NewHandler creates a new Handler.
func NewHandler(svc *taskservice.Service, exporter *export.Exporter) *Handler {
	return &Handler{svc: svc, exporter: exporter}
}

func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ListTasks handles GET /tasks. Completed tasks are excluded unless
// ?include_completed=true.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	includeCompleted, _ := strconv.ParseBool(r.URL.Query().Get("include_completed"))
	tasks, err := h.svc.ListTasks(r.Context(), includeCompleted)
	if err != nil {
		slog.Error("list tasks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks, Total: len(tasks)})
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	addReq := taskservice.AddTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Category:    req.Category,
	}
	if req.Priority != nil {
		addReq.Priority = *req.Priority
	}

	task, err := h.svc.AddTask(r.Context(), addReq)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("create task failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetTask handles GET /tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid task id"))
		return
	}
	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("get task failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PATCH /tasks/{id}. Only fields present in the body
// change; an empty body is rejected.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid task id"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	u := req.toUpdate()
	if u.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorBody("no fields supplied"))
		return
	}

	changed, err := h.svc.UpdateTask(r.Context(), id, u)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("update task failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !changed {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		slog.Error("reload task failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// CompleteTask handles POST /tasks/{id}/complete.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.setCompletion(w, r, true)
}

// UncompleteTask handles POST /tasks/{id}/uncomplete.
func (h *Handler) UncompleteTask(w http.ResponseWriter, r *http.Request) {
	h.setCompletion(w, r, false)
}

func (h *Handler) setCompletion(w http.ResponseWriter, r *http.Request, done bool) {
	id, ok := taskID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid task id"))
		return
	}

	var changed bool
	var err error
	if done {
		changed, err = h.svc.CompleteTask(r.Context(), id)
	} else {
		changed, err = h.svc.UncompleteTask(r.Context(), id)
	}
	if err != nil {
		slog.Error("set completion failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !changed {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		slog.Error("reload task failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid task id"))
		return
	}
	changed, err := h.svc.DeleteTask(r.Context(), id)
	if err != nil {
		slog.Error("delete task failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !changed {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search. Matches are substring, ASCII case-insensitive,
// and include completed tasks; completion filtering belongs to the caller.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	tasks, err := h.svc.Search(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks, Total: len(tasks)})
}

// Categories handles GET /categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		slog.Error("list categories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats})
}

// Stats handles GET /stats. "Today" is the server's wall-clock calendar day
// at the moment of the call.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), time.Now())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /export?format=json|csv|pdf.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	data, contentType, err := h.exporter.Export(r.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("export failed", slog.String("format", format), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
