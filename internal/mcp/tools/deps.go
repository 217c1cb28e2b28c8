// Package tools provides MCP tool registration with dependency injection.
package tools

import (
	"sync"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/app"
	"github.com/vthunder/tock/internal/tasks"
)

// Dependencies holds the services the task tools call.
type Dependencies struct {
	// Required
	Store      *tasks.Store
	Controller *app.Controller // built with a non-interactive presenter

	// Optional
	ActivityLog *activity.Log

	// mu serializes tool calls; the server may run handlers concurrently
	// and the controller expects one caller at a time.
	mu sync.Mutex
}
