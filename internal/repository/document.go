package repository

import (
	"context"

	"studyhub/internal/model"
)

// DocumentRepository is the documents table. Every call is scoped to the
// owning user, so another user's row reads as ErrNotFound.
type DocumentRepository interface {
	// Create inserts doc, which must carry its ID and storage path, and
	// returns the row as stored.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document of userID by its ID, or ErrNotFound.
	FindByID(ctx context.Context, userID, id string) (*model.Document, error)

	// List returns a page of the user's documents, newest first, and the total count.
	List(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Document], error)

	// Delete is idempotent: a missing row is not an error.
	Delete(ctx context.Context, userID, id string) error
}

// PageQuery is limit/offset pagination.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is one page plus the total row count.
type PageResult[T any] struct {
	Items []T
	Total int
}
