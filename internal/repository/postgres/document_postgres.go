package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, user_id, course_id, filename, storage_path, size, content_type, created_at`

func scanDocument(row scanner) (*model.Document, error) {
	var (
		d        model.Document
		courseID sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&courseID,
		&d.Filename,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.CourseID = courseID.String
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document row: %w", err)
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, user_id, course_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		nullString(doc.CourseID),
		doc.Filename,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document owned by userID.
func (r *DocumentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND user_id = $2`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return d, err
}

// List returns the user's documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, id, userID)
	return err
}
