package tasks

// Priority is how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the valid priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Status is where a task is in its lifecycle.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists the valid statuses in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// DateLayout is the on-disk and input format of Task.Due.
const DateLayout = "2006-01-02"

// Task is a single tracked unit of work. ID is assigned by the Store.
type Task struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Notes      string   `json:"notes"`
	Due        string   `json:"due"` // YYYY-MM-DD or empty
	Priority   Priority `json:"priority"`
	EstMinutes int      `json:"est_minutes"`
	Status     Status   `json:"status"`
}

// Fields is everything about a task except its ID: the input to Add and Update.
type Fields struct {
	Title      string
	Notes      string
	Due        string
	Priority   Priority
	EstMinutes int
	Status     Status
}

// DefaultFields are the values offered to a front end for a new task.
func DefaultFields() Fields {
	return Fields{
		Priority:   PriorityMedium,
		EstMinutes: 30,
		Status:     StatusTodo,
	}
}

// Fields returns the task's mutable fields.
func (t Task) Fields() Fields {
	return Fields{
		Title:      t.Title,
		Notes:      t.Notes,
		Due:        t.Due,
		Priority:   t.Priority,
		EstMinutes: t.EstMinutes,
		Status:     t.Status,
	}
}

func (f Fields) withID(id int) Task {
	return Task{
		ID:         id,
		Title:      f.Title,
		Notes:      f.Notes,
		Due:        f.Due,
		Priority:   f.Priority,
		EstMinutes: f.EstMinutes,
		Status:     f.Status,
	}
}

// Persister loads and saves the full task collection. Implementations
// live in internal/storage.
type Persister interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}
