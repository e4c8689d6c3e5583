package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// RevisionPostgres implements repository.RevisionRepository.
type RevisionPostgres struct {
	db *sql.DB
}

func NewRevisionPostgres(db *sql.DB) *RevisionPostgres {
	return &RevisionPostgres{db: db}
}

var _ repository.RevisionRepository = (*RevisionPostgres)(nil)

func (r *RevisionPostgres) ListSheets(ctx context.Context, userID string) ([]model.RevisionSheet, error) {
	const q = `
		SELECT id, course_id, user_id, title, subject, status, COALESCE(artifact_path, ''), updated_at
		FROM revision_sheets
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RevisionSheet, 0)
	for rows.Next() {
		var (
			s      model.RevisionSheet
			status string
		)
		if err := rows.Scan(&s.ID, &s.CourseID, &s.UserID, &s.Title, &s.Subject, &status, &s.ArtifactPath, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = model.GenerationStatus(status)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid revision sheet row: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *RevisionPostgres) ListErrorRevisions(ctx context.Context, userID string) ([]model.ErrorRevision, error) {
	const q = `
		SELECT id, user_id, COALESCE(exercise_id::text, ''), status, COALESCE(content, ''), created_at
		FROM error_revisions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ErrorRevision, 0)
	for rows.Next() {
		var (
			e      model.ErrorRevision
			status string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExerciseID, &status, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Status = model.GenerationStatus(status)
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid error revision row: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// DeleteErrorRevision removes the row; a missing row is not an error.
func (r *RevisionPostgres) DeleteErrorRevision(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM error_revisions WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
