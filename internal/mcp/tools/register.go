package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/tasks"
)

// RegisterAll registers every tool with the server.
func RegisterAll(s *server.MCPServer, deps *Dependencies) {
	s.AddTools(All(deps)...)
}

// All returns the tools deps can serve.
func All(deps *Dependencies) []server.ServerTool {
	all := []server.ServerTool{
		deps.addTool(),
		deps.listTool(),
		deps.getTool(),
		deps.updateTool(),
		deps.doneTool(),
		deps.deleteTool(),
		deps.exportTool(),
	}
	if deps.ActivityLog != nil {
		all = append(all, deps.activityTool())
	}
	return all
}

// handler serializes calls and recovers the arguments map. Failures
// become tool errors, never protocol errors.
func (deps *Dependencies) handler(fn func(args map[string]any) (string, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ctx.Err(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args, _ := req.Params.Arguments.(map[string]any)
		if args == nil {
			args = map[string]any{}
		}

		deps.mu.Lock()
		defer deps.mu.Unlock()

		out, err := fn(args)
		if err != nil {
			logging.Info("mcp", "%s: %v", req.Params.Name, err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func (deps *Dependencies) addTool() server.ServerTool {
	tool := mcp.NewTool("task_add",
		mcp.WithDescription("Add a task. Priority defaults to Medium, estimate to 30 minutes, status to Todo."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("notes", mcp.Description("Free-form notes (optional)")),
		mcp.WithString("due", mcp.Description("Due date as YYYY-MM-DD (optional)")),
		mcp.WithString("priority", mcp.Description("Low, Medium or High")),
		mcp.WithNumber("est_minutes", mcp.Description("Estimated minutes, at least 1")),
		mcp.WithString("status", mcp.Description("Todo, In Progress or Done")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		fields, err := applyArgs(tasks.DefaultFields(), args)
		if err != nil {
			return "", err
		}
		id, err := deps.Controller.Add(fields)
		if id == 0 {
			return "", err
		}
		out := fmt.Sprintf("Task added: %s (ID: %d)", strings.TrimSpace(fields.Title), id)
		if err != nil {
			// kept in memory, not on disk
			out += "\nWarning: " + err.Error()
		}
		logging.Info("mcp", "task added: %s", logging.Truncate(fields.Title, 50))
		return out, nil
	})}
}

func (deps *Dependencies) listTool() server.ServerTool {
	tool := mcp.NewTool("task_list",
		mcp.WithDescription("List tasks sorted by status then due date, with overall completion."),
		mcp.WithString("query", mcp.Description("Case-insensitive text to match in title or notes")),
		mcp.WithString("status", mcp.Description("All (default), Todo, In Progress or Done")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		query, _ := args["query"].(string)
		status, _ := args["status"].(string)
		filter, ok := tasks.ParseStatusFilter(status)
		if !ok {
			return "", fmt.Errorf("unknown status filter %q", status)
		}

		all := deps.Store.All()
		done, total := tasks.Counts(all)
		result := struct {
			Tasks    []tasks.Row `json:"tasks"`
			Done     int         `json:"done"`
			Total    int         `json:"total"`
			Progress int         `json:"progress"`
		}{tasks.Project(all, query, filter), done, total, tasks.Progress(all)}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	})}
}

func (deps *Dependencies) getTool() server.ServerTool {
	tool := mcp.NewTool("task_get",
		mcp.WithDescription("Show one task with its notes."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		id, err := idArg(args)
		if err != nil {
			return "", err
		}
		t, err := deps.Controller.Get(id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ID: %d\n%s", t.ID, tasks.Details(t)), nil
	})}
}

func (deps *Dependencies) updateTool() server.ServerTool {
	tool := mcp.NewTool("task_update",
		mcp.WithDescription("Update a task. Only provided fields are changed."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("notes", mcp.Description("New notes")),
		mcp.WithString("due", mcp.Description("New due date as YYYY-MM-DD, or empty to clear")),
		mcp.WithString("priority", mcp.Description("Low, Medium or High")),
		mcp.WithNumber("est_minutes", mcp.Description("Estimated minutes")),
		mcp.WithString("status", mcp.Description("Todo, In Progress or Done")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		id, err := idArg(args)
		if err != nil {
			return "", err
		}
		t, err := deps.Controller.Get(id)
		if err != nil {
			return "", err
		}
		fields, err := applyArgs(t.Fields(), args)
		if err != nil {
			return "", err
		}
		if err := deps.Controller.Edit(id, fields); err != nil {
			return "", err
		}
		return fmt.Sprintf("Task updated: %d", id), nil
	})}
}

func (deps *Dependencies) doneTool() server.ServerTool {
	tool := mcp.NewTool("task_done",
		mcp.WithDescription("Mark a task as Done."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		id, err := idArg(args)
		if err != nil {
			return "", err
		}
		if err := deps.Controller.MarkDone(id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Task completed: %d\n%s", id, deps.Controller.Summary()), nil
	})}
}

func (deps *Dependencies) deleteTool() server.ServerTool {
	tool := mcp.NewTool("task_delete",
		mcp.WithDescription("Delete a task permanently."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task ID")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		id, err := idArg(args)
		if err != nil {
			return "", err
		}
		deleted, err := deps.Controller.Delete(id)
		if err != nil {
			return "", err
		}
		if !deleted {
			return "", fmt.Errorf("delete of task %d was not confirmed", id)
		}
		return fmt.Sprintf("Task deleted: %d", id), nil
	})}
}

func (deps *Dependencies) exportTool() server.ServerTool {
	tool := mcp.NewTool("task_export",
		mcp.WithDescription("Export every task to a CSV file."),
		mcp.WithString("path", mcp.Description("Output file; defaults to the configured export path")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		path, _ := args["path"].(string)
		n, err := deps.Controller.Export(path)
		if err != nil {
			return "", err
		}
		if path == "" {
			path = "the default export file"
		}
		return fmt.Sprintf("Exported %d tasks to %s", n, path), nil
	})}
}

func (deps *Dependencies) activityTool() server.ServerTool {
	tool := mcp.NewTool("activity_recent",
		mcp.WithDescription("Get recent task and timer activity, plus today's focus minutes."),
		mcp.WithNumber("count", mcp.Description("Number of entries to return (default 20)")),
		mcp.WithString("type", mcp.Description("Only return entries of this type, e.g. task_done or phase_finished")),
	)
	return server.ServerTool{Tool: tool, Handler: deps.handler(func(args map[string]any) (string, error) {
		count := 20
		if c, ok := args["count"].(float64); ok && c > 0 {
			count = int(c)
		}

		var entries []activity.Entry
		var err error
		if t, _ := args["type"].(string); t != "" {
			// ByType is newest first; keep the same order as Recent.
			entries, err = deps.ActivityLog.ByType(activity.Type(t), count)
			slices.Reverse(entries)
		} else {
			entries, err = deps.ActivityLog.Recent(count)
		}
		if err != nil {
			return "", fmt.Errorf("failed to get recent entries: %w", err)
		}
		minutes, err := deps.ActivityLog.FocusMinutesToday()
		if err != nil {
			return "", fmt.Errorf("failed to read focus time: %w", err)
		}

		data, _ := json.MarshalIndent(map[string]any{
			"entries":             entries,
			"focus_minutes_today": minutes,
		}, "", "  ")
		return string(data), nil
	})}
}

// idArg reads the required integer "id". JSON numbers arrive as float64.
func idArg(args map[string]any) (int, error) {
	switch v := args["id"].(type) {
	case float64:
		if v != math.Trunc(v) || v < 1 {
			return 0, fmt.Errorf("id must be a positive integer")
		}
		return int(v), nil
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || id < 1 {
			return 0, fmt.Errorf("id must be a positive integer")
		}
		return id, nil
	default:
		return 0, fmt.Errorf("id is required")
	}
}

// applyArgs overlays provided arguments on fields. Enumerations and
// numbers are parsed here; the store validates the rest.
func applyArgs(fields tasks.Fields, args map[string]any) (tasks.Fields, error) {
	if v, ok := args["title"].(string); ok {
		fields.Title = v
	}
	if v, ok := args["notes"].(string); ok {
		fields.Notes = v
	}
	if v, ok := args["due"].(string); ok {
		fields.Due = v
	}
	if v, ok := args["priority"].(string); ok && v != "" {
		p, ok := tasks.ParsePriority(v)
		if !ok {
			return fields, &tasks.ValidationError{Field: "priority", Reason: "must be Low, Medium or High"}
		}
		fields.Priority = p
	}
	if v, ok := args["status"].(string); ok && v != "" {
		st, ok := tasks.ParseStatus(v)
		if !ok {
			return fields, &tasks.ValidationError{Field: "status", Reason: "must be Todo, In Progress or Done"}
		}
		fields.Status = st
	}
	if v, ok := args["est_minutes"].(float64); ok {
		if v != math.Trunc(v) {
			return fields, &tasks.ValidationError{Field: "est_minutes", Reason: "must be a whole number of minutes"}
		}
		fields.EstMinutes = int(v)
	}
	return fields, nil
}
