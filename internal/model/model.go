// Package model holds the typed read models mirrored from the backend tables.
// Rows are validated as they cross into the client instead of being trusted.
package model

import "errors"

var (
	ErrMissingID     = errors.New("record id is missing")
	ErrMissingOwner  = errors.New("record owner is missing")
	ErrUnknownStatus = errors.New("unknown status")
	ErrUnknownRole   = errors.New("unknown role")
)

// GenerationStatus is the state of an asynchronous generation job.
type GenerationStatus string

const (
	StatusNotRequested GenerationStatus = "not_requested"
	StatusGenerating   GenerationStatus = "generating"
	StatusCompleted    GenerationStatus = "completed"
	StatusFailed       GenerationStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s GenerationStatus) Valid() bool {
	switch s {
	case StatusNotRequested, StatusGenerating, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is expected.
func (s GenerationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Generating is implemented by every record produced by an asynchronous job.
type Generating interface {
	GenerationState() GenerationStatus
}
