// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido task tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/taskservice"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *taskservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *taskservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a new task. Due dates use RFC3339; priority is one of low, medium, high, critical."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title (non-empty)")),
		mcp.WithString("description", mcp.Description("Optional longer description")),
		mcp.WithString("due", mcp.Description("Optional due date, RFC3339 (e.g. 2024-01-01T09:00:00Z)")),
		mcp.WithString("priority", mcp.Description("Priority level name (default medium)")),
		mcp.WithString("category", mcp.Description("Category name; created on first use (default Personal)")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks ordered by priority then due date."),
		mcp.WithBoolean("include_completed", mcp.Description("Include completed tasks (default false)")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("search_tasks",
		mcp.WithDescription("Substring search over task titles and descriptions; includes completed tasks."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchTasks)

	s.mcp.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
	), s.completeTask)

	s.mcp.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Permanently delete a task."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
	), s.deleteTask)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Summary counters: total, completed, due today, overdue."),
	), s.getStats)

	// Resource: inbox task-file format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://inbox-format", "Inbox Task File Format",
			mcp.WithResourceDescription("Canonical YAML format for files dropped into the import inbox."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readInboxFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	addReq := taskservice.AddTaskRequest{
		Title:       title,
		Description: req.GetString("description", ""),
		Category:    req.GetString("category", ""),
	}
	if due := req.GetString("due", ""); due != "" {
		ts, perr := time.Parse(time.RFC3339, due)
		if perr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due date %q: %v", due, perr)), nil
		}
		addReq.DueDate = &ts
	}
	if prio := req.GetString("priority", ""); prio != "" {
		p, perr := models.ParsePriority(prio)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		addReq.Priority = p
	}

	task, err := s.svc.AddTask(ctx, addReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created task #%d", task.ID)), nil
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := s.svc.ListTasks(ctx, req.GetBool("include_completed", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tasks, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) completeTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := s.svc.CompleteTask(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !changed {
		return mcp.NewToolResultError(fmt.Sprintf("task not found: %d", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("completed task #%d", id)), nil
}

func (s *Server) deleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changed, err := s.svc.DeleteTask(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !changed {
		return mcp.NewToolResultError(fmt.Sprintf("task not found: %d", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted task #%d", id)), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readInboxFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://inbox-format",
			MIMEType: "text/markdown",
			Text:     InboxFormatContract,
		},
	}, nil
}
