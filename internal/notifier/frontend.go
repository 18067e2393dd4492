package notifier

import (
	"context"

	"BazaarWatch/internal/model"
)

// CommandHandler is called for every line of user input and returns what to show.
type CommandHandler func(command string) model.View

// Frontend is the host that delivers input events and displays output.
type Frontend interface {
	// ShowStatus replaces the current status line.
	ShowStatus(ctx context.Context, status model.Status) error
	// ClearStatus removes the current status line.
	ClearStatus(ctx context.Context) error
	// Show displays the response to one input event.
	Show(ctx context.Context, view model.View) error
	// Run delivers input to handler until ctx is cancelled or input ends.
	Run(ctx context.Context, handler CommandHandler) error
	Name() string
}
