package model

import "time"

// Document represents a file a student uploaded, optionally attached to a course.
type Document struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id,omitempty"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d Document) Validate() error {
	if d.ID == "" {
		return ErrMissingID
	}
	if d.UserID == "" {
		return ErrMissingOwner
	}
	return nil
}
