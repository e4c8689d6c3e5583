package model

import "time"

type Course struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Course) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	if c.UserID == "" {
		return ErrMissingOwner
	}
	return nil
}

// Exercise is a quiz attempt attached to a course. Score and CompletedAt stay
// nil until the student submits it.
type Exercise struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Score       *float64   `json:"score,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (e Exercise) Validate() error {
	if e.ID == "" {
		return ErrMissingID
	}
	if e.UserID == "" {
		return ErrMissingOwner
	}
	return nil
}
