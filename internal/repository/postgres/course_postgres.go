package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// CoursePostgres implements repository.CourseRepository.
type CoursePostgres struct {
	db *sql.DB
}

func NewCoursePostgres(db *sql.DB) *CoursePostgres {
	return &CoursePostgres{db: db}
}

var _ repository.CourseRepository = (*CoursePostgres)(nil)

func (r *CoursePostgres) ListByUser(ctx context.Context, userID string) ([]model.Course, error) {
	const q = `
		SELECT id, user_id, title, subject, created_at
		FROM courses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Course, 0)
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Subject, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid course row: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *CoursePostgres) ListExercises(ctx context.Context, userID, courseID string) ([]model.Exercise, error) {
	const q = `
		SELECT id, course_id, user_id, title, score, completed_at
		FROM exercises
		WHERE user_id = $1 AND course_id = $2
		ORDER BY completed_at DESC NULLS FIRST, id`
	rows, err := r.db.QueryContext(ctx, q, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Exercise, 0)
	for rows.Next() {
		var (
			e         model.Exercise
			score     sql.NullFloat64
			completed sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.CourseID, &e.UserID, &e.Title, &score, &completed); err != nil {
			return nil, err
		}
		if score.Valid {
			e.Score = &score.Float64
		}
		if completed.Valid {
			e.CompletedAt = &completed.Time
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid exercise row: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
