package tasks

import (
	"fmt"
	"sort"
	"strings"
)

// StatusFilter selects which statuses a projection keeps. FilterAll
// keeps every task; any other value must be a Status label.
type StatusFilter string

// FilterAll disables status filtering.
const FilterAll StatusFilter = "All"

// Filters lists the filter choices in the order a front end cycles them.
var Filters = []StatusFilter{FilterAll, StatusFilter(StatusTodo), StatusFilter(StatusInProgress), StatusFilter(StatusDone)}

// ParseStatusFilter accepts "All" or any status label ParseStatus accepts.
// An empty string means All.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, true
	}
	status, ok := ParseStatus(s)
	if !ok {
		return "", false
	}
	return StatusFilter(status), true
}

// Next returns the filter after f in Filters, wrapping around.
func (f StatusFilter) Next() StatusFilter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Row is one display row of a projection. ID is carried explicitly so a
// selection maps back to a task without going through a display handle.
type Row struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Due        string   `json:"due"`
	Priority   Priority `json:"priority"`
	EstMinutes int      `json:"est_minutes"`
	Status     Status   `json:"status"`
}

// Project filters and sorts tasks for display: status filter first, then
// a case-insensitive substring match of query against title and notes,
// then ascending by (status, due) with empty due first.
func Project(all []Task, query string, filter StatusFilter) []Row {
	query = strings.ToLower(strings.TrimSpace(query))

	kept := make([]Task, 0, len(all))
	for _, t := range all {
		if filter != "" && filter != FilterAll && string(t.Status) != string(filter) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Notes), query) {
			continue
		}
		kept = append(kept, t)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		if a.Due != b.Due {
			return a.Due < b.Due
		}
		return a.ID < b.ID
	})

	rows := make([]Row, len(kept))
	for i, t := range kept {
		rows[i] = Row{
			ID:         t.ID,
			Title:      t.Title,
			Due:        t.Due,
			Priority:   t.Priority,
			EstMinutes: t.EstMinutes,
			Status:     t.Status,
		}
	}
	return rows
}

// Progress returns floor(100 * done / total), or 0 for an empty set.
func Progress(all []Task) int {
	done, total := Counts(all)
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

// Counts returns the number of Done tasks and the total.
func Counts(all []Task) (done, total int) {
	for _, t := range all {
		if t.Status == StatusDone {
			done++
		}
	}
	return done, len(all)
}

// Details renders the detail-pane text for a task.
func Details(t Task) string {
	due := t.Due
	if due == "" {
		due = "N/A"
	}
	return fmt.Sprintf("Title: %s\nStatus: %s\nPriority: %s\nDue: %s\nEst (min): %d\n\nNotes:\n%s",
		t.Title, t.Status, t.Priority, due, t.EstMinutes, t.Notes)
}
