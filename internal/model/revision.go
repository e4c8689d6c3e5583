package model

import (
	"fmt"
	"time"
)

// RevisionSheet is the AI-generated summary of a course. ArtifactPath points at
// the rendered sheet in object storage once the job completed.
type RevisionSheet struct {
	ID           string           `json:"id"`
	CourseID     string           `json:"course_id"`
	UserID       string           `json:"user_id"`
	Title        string           `json:"title"`
	Subject      string           `json:"subject"`
	Status       GenerationStatus `json:"status"`
	ArtifactPath string           `json:"artifact_path,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (r RevisionSheet) GenerationState() GenerationStatus { return r.Status }

func (r RevisionSheet) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if r.UserID == "" {
		return ErrMissingOwner
	}
	if !r.Status.Valid() {
		return fmt.Errorf("revision sheet %s: %w %q", r.ID, ErrUnknownStatus, r.Status)
	}
	return nil
}

// ErrorRevision is a generated explanation of the mistakes made in an exercise.
// It is created directly in the generating state.
type ErrorRevision struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	ExerciseID string           `json:"exercise_id,omitempty"`
	Status     GenerationStatus `json:"status"`
	Content    string           `json:"content,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (e ErrorRevision) GenerationState() GenerationStatus { return e.Status }

func (e ErrorRevision) Validate() error {
	if e.ID == "" {
		return ErrMissingID
	}
	if e.UserID == "" {
		return ErrMissingOwner
	}
	if e.Status == StatusNotRequested || !e.Status.Valid() {
		return fmt.Errorf("error revision %s: %w %q", e.ID, ErrUnknownStatus, e.Status)
	}
	return nil
}
