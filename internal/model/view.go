package model

import "time"

// StatusLevel classifies a status line.
type StatusLevel string

const (
	StatusInfo  StatusLevel = "INFO"
	StatusReady StatusLevel = "READY"
	StatusError StatusLevel = "ERROR"
)

// Status is a load-progress message. A zero ClearAfter means it stays until
// replaced.
type Status struct {
	Text       string
	Level      StatusLevel
	ClearAfter time.Duration
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	ID    string // raw identifier, e.g. ENCHANTED_CARROT
	Label string // display form, e.g. ENCHANTED CARROT
}

// View is what a front end is asked to show in response to one input event.
type View struct {
	Text            string // HTML-flavoured body, empty when nothing to show
	Invalid         bool   // the input field should be marked invalid
	Suggestions     []Suggestion
	HideSuggestions bool
}
