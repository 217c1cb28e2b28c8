package tasks

import (
	"strings"
	"time"
)

// Normalize trims the free-text fields the way a form submission does.
func (f Fields) Normalize() Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Notes = strings.TrimSpace(f.Notes)
	f.Due = strings.TrimSpace(f.Due)
	return f
}

// Validate checks a normalized field set. Front ends call it directly to
// give inline feedback before submitting; Add and Update call it again.
func (f Fields) Validate() error {
	if f.Title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if !isValidDue(f.Due) {
		return &ValidationError{Field: "due", Reason: "due date must be YYYY-MM-DD"}
	}
	if !isValidPriority(f.Priority) {
		return &ValidationError{Field: "priority", Reason: "must be Low, Medium, or High"}
	}
	if f.EstMinutes <= 0 {
		return &ValidationError{Field: "est_minutes", Reason: "estimate must be a positive number of minutes"}
	}
	if !isValidStatus(f.Status) {
		return &ValidationError{Field: "status", Reason: "must be Todo, In Progress, or Done"}
	}
	return nil
}

// isValidDue accepts an empty value or a real calendar date.
func isValidDue(due string) bool {
	if due == "" {
		return true
	}
	// time.Parse rejects 2024-02-30, which a pattern match would not.
	_, err := time.Parse(DateLayout, due)
	return err == nil
}

func isValidPriority(p Priority) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

func isValidStatus(s Status) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParsePriority matches a priority label case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Priorities {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

// ParseStatus matches a status label case-insensitively. "in_progress"
// and "inprogress" are accepted for In Progress.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "in_progress", "inprogress", "in-progress":
		return StatusInProgress, true
	}
	for _, v := range Statuses {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}
