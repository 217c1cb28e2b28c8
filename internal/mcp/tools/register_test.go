package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/app"
	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
)

func testDeps(t *testing.T) *Dependencies {
	t.Helper()
	dir := t.TempDir()
	store := tasks.NewStore(nil)
	log := activity.New(dir, "mcp")
	ctrl := app.New(app.Config{
		Store:      store,
		Runner:     timer.NewRunner(1, 1),
		Activity:   log,
		ExportPath: filepath.Join(dir, "tasks.csv"),
	})
	return &Dependencies{Store: store, Controller: ctrl, ActivityLog: log}
}

// call invokes a tool by name and returns its text and error flag.
func call(t *testing.T, deps *Dependencies, name string, args map[string]any) (string, bool) {
	t.Helper()
	for _, tool := range All(deps) {
		if tool.Tool.Name != name {
			continue
		}
		var req mcp.CallToolRequest
		req.Params.Name = name
		req.Params.Arguments = args
		result, err := tool.Handler(context.Background(), req)
		if err != nil {
			t.Fatalf("%s returned a protocol error: %v", name, err)
		}
		if len(result.Content) == 0 {
			t.Fatalf("%s returned no content", name)
		}
		text, ok := result.Content[0].(mcp.TextContent)
		if !ok {
			t.Fatalf("%s returned %T, want text", name, result.Content[0])
		}
		return text.Text, result.IsError
	}
	t.Fatalf("tool %s not registered", name)
	return "", false
}

func TestAllToolNames(t *testing.T) {
	deps := testDeps(t)
	var names []string
	for _, tool := range All(deps) {
		names = append(names, tool.Tool.Name)
	}
	want := "task_add task_list task_get task_update task_done task_delete task_export activity_recent"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	deps.ActivityLog = nil
	if n := len(All(deps)); n != 7 {
		t.Errorf("Expected 7 tools without an activity log, got %d", n)
	}
}

func TestAddAndList(t *testing.T) {
	deps := testDeps(t)

	out, isErr := call(t, deps, "task_add", map[string]any{
		"title":       "Write report",
		"due":         "2024-05-01",
		"priority":    "high",
		"est_minutes": float64(45),
	})
	if isErr {
		t.Fatalf("task_add failed: %s", out)
	}
	if !strings.Contains(out, "(ID: 1)") {
		t.Errorf("Expected new id in %q", out)
	}
	call(t, deps, "task_add", map[string]any{"title": "Call plumber"})

	out, isErr = call(t, deps, "task_list", map[string]any{"query": "REPORT"})
	if isErr {
		t.Fatalf("task_list failed: %s", out)
	}
	var listed struct {
		Tasks    []tasks.Row `json:"tasks"`
		Done     int         `json:"done"`
		Total    int         `json:"total"`
		Progress int         `json:"progress"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("task_list output is not JSON: %v\n%s", err, out)
	}
	if len(listed.Tasks) != 1 || listed.Tasks[0].Title != "Write report" {
		t.Fatalf("Unexpected rows %+v", listed.Tasks)
	}
	row := listed.Tasks[0]
	if row.Priority != tasks.PriorityHigh || row.EstMinutes != 45 || row.Due != "2024-05-01" {
		t.Errorf("Unexpected row %+v", row)
	}
	if listed.Total != 2 || listed.Done != 0 {
		t.Errorf("Expected 0/2, got %d/%d", listed.Done, listed.Total)
	}

	// The tool query must not leak into the shared controller view.
	if q := deps.Controller.Query(); q != "" {
		t.Errorf("Controller query changed to %q", q)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	deps := testDeps(t)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing title", map[string]any{}, "title"},
		{"bad due", map[string]any{"title": "x", "due": "soon"}, "due"},
		{"bad priority", map[string]any{"title": "x", "priority": "urgent"}, "priority"},
		{"bad status", map[string]any{"title": "x", "status": "blocked"}, "status"},
		{"fractional estimate", map[string]any{"title": "x", "est_minutes": 2.5}, "est_minutes"},
		{"zero estimate", map[string]any{"title": "x", "est_minutes": float64(0)}, "est"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, isErr := call(t, deps, "task_add", tt.args)
			if !isErr {
				t.Fatalf("Expected tool error, got %q", out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected %q in %q", tt.want, out)
			}
		})
	}
	if deps.Store.Len() != 0 {
		t.Errorf("Invalid input must not reach the store, have %d tasks", deps.Store.Len())
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	deps := testDeps(t)
	call(t, deps, "task_add", map[string]any{"title": "Draft", "notes": "outline first", "priority": "Low"})

	out, isErr := call(t, deps, "task_update", map[string]any{"id": float64(1), "status": "In Progress"})
	if isErr {
		t.Fatalf("task_update failed: %s", out)
	}
	task, ok := deps.Store.Get(1)
	if !ok {
		t.Fatal("Task disappeared")
	}
	if task.Status != tasks.StatusInProgress {
		t.Errorf("Expected In Progress, got %s", task.Status)
	}
	if task.Title != "Draft" || task.Notes != "outline first" || task.Priority != tasks.PriorityLow {
		t.Errorf("Unset fields changed: %+v", task)
	}

	out, _ = call(t, deps, "task_get", map[string]any{"id": "1"})
	if !strings.Contains(out, "outline first") {
		t.Errorf("Expected notes in details, got %q", out)
	}
}

func TestUnknownID(t *testing.T) {
	deps := testDeps(t)
	for _, name := range []string{"task_get", "task_update", "task_done", "task_delete"} {
		out, isErr := call(t, deps, name, map[string]any{"id": float64(42)})
		if !isErr || !strings.Contains(out, "42") {
			t.Errorf("%s: expected not-found error, got %q (error=%v)", name, out, isErr)
		}
	}
	out, isErr := call(t, deps, "task_get", map[string]any{})
	if !isErr || !strings.Contains(out, "id is required") {
		t.Errorf("Expected missing id error, got %q", out)
	}
	out, isErr = call(t, deps, "task_get", map[string]any{"id": 1.5})
	if !isErr || !strings.Contains(out, "positive integer") {
		t.Errorf("Expected bad id error, got %q", out)
	}
}

func TestIDArgRejectsTrailingText(t *testing.T) {
	deps := testDeps(t)
	call(t, deps, "task_add", map[string]any{"title": "keep me"})

	for _, id := range []string{"1abc", "1 2", "0x1", "-1", ""} {
		out, isErr := call(t, deps, "task_delete", map[string]any{"id": id})
		if !isErr || !strings.Contains(out, "positive integer") {
			t.Errorf("id %q: expected bad id error, got %q", id, out)
		}
	}
	if deps.Store.Len() != 1 {
		t.Fatalf("A malformed id removed a task, have %d", deps.Store.Len())
	}

	out, isErr := call(t, deps, "task_get", map[string]any{"id": " 1 "})
	if isErr || !strings.Contains(out, "keep me") {
		t.Errorf("Expected padded id to resolve, got %q", out)
	}
}

func TestDoneDeleteAndActivity(t *testing.T) {
	deps := testDeps(t)
	call(t, deps, "task_add", map[string]any{"title": "one"})
	call(t, deps, "task_add", map[string]any{"title": "two"})

	out, isErr := call(t, deps, "task_done", map[string]any{"id": float64(1)})
	if isErr {
		t.Fatalf("task_done failed: %s", out)
	}
	if !strings.Contains(out, "1/2 tasks done (50%)") {
		t.Errorf("Expected summary in %q", out)
	}

	out, isErr = call(t, deps, "task_delete", map[string]any{"id": float64(2)})
	if isErr {
		t.Fatalf("task_delete failed: %s", out)
	}
	if deps.Store.Len() != 1 {
		t.Errorf("Expected 1 task left, got %d", deps.Store.Len())
	}

	out, isErr = call(t, deps, "activity_recent", map[string]any{"count": float64(10)})
	if isErr {
		t.Fatalf("activity_recent failed: %s", out)
	}
	var recent struct {
		Entries           []activity.Entry `json:"entries"`
		FocusMinutesToday int              `json:"focus_minutes_today"`
	}
	if err := json.Unmarshal([]byte(out), &recent); err != nil {
		t.Fatalf("activity_recent output is not JSON: %v", err)
	}
	var types []string
	for _, e := range recent.Entries {
		types = append(types, string(e.Type))
		if e.Source != "mcp" {
			t.Errorf("Expected source mcp, got %q", e.Source)
		}
	}
	want := []activity.Type{activity.TypeTaskAdded, activity.TypeTaskDone, activity.TypeTaskDeleted}
	for _, w := range want {
		if !strings.Contains(strings.Join(types, " "), string(w)) {
			t.Errorf("Expected %s in %v", w, types)
		}
	}
}

func TestExport(t *testing.T) {
	deps := testDeps(t)
	call(t, deps, "task_add", map[string]any{"title": "ship it"})

	path := filepath.Join(t.TempDir(), "out.csv")
	out, isErr := call(t, deps, "task_export", map[string]any{"path": path})
	if isErr {
		t.Fatalf("task_export failed: %s", out)
	}
	if !strings.Contains(out, "Exported 1 tasks") {
		t.Errorf("Unexpected output %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Export file missing: %v", err)
	}
	if !strings.Contains(string(data), "ship it") {
		t.Errorf("Export missing task: %s", data)
	}
}

func TestCancelledContext(t *testing.T) {
	deps := testDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var req mcp.CallToolRequest
	req.Params.Name = "task_add"
	req.Params.Arguments = map[string]any{"title": "late"}
	result, err := All(deps)[0].Handler(ctx, req)
	if err != nil {
		t.Fatalf("Unexpected protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected tool error for a cancelled context")
	}
	if deps.Store.Len() != 0 {
		t.Error("Cancelled call must not add a task")
	}
}

func TestActivityRecentByType(t *testing.T) {
	deps := testDeps(t)
	call(t, deps, "task_add", map[string]any{"title": "one"})
	call(t, deps, "task_add", map[string]any{"title": "two"})
	call(t, deps, "task_add", map[string]any{"title": "three"})
	call(t, deps, "task_done", map[string]any{"id": float64(2)})

	out, isErr := call(t, deps, "activity_recent", map[string]any{"type": "task_added", "count": float64(2)})
	if isErr {
		t.Fatalf("activity_recent failed: %s", out)
	}
	var recent struct {
		Entries []activity.Entry `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &recent); err != nil {
		t.Fatalf("activity_recent output is not JSON: %v", err)
	}
	if len(recent.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(recent.Entries))
	}
	for _, e := range recent.Entries {
		if e.Type != activity.TypeTaskAdded {
			t.Errorf("Expected only task_added, got %s", e.Type)
		}
	}
	// The two newest adds, oldest first.
	if !strings.Contains(recent.Entries[0].Summary, "two") || !strings.Contains(recent.Entries[1].Summary, "three") {
		t.Errorf("Unexpected entries %+v", recent.Entries)
	}

	out, _ = call(t, deps, "activity_recent", map[string]any{"type": "export"})
	if err := json.Unmarshal([]byte(out), &recent); err != nil {
		t.Fatalf("activity_recent output is not JSON: %v", err)
	}
	if len(recent.Entries) != 0 {
		t.Errorf("Expected no export entries, got %+v", recent.Entries)
	}
}
