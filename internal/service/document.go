package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/model"
	"studyhub/internal/repository"
	"studyhub/internal/storage"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrUserRequired = errors.New("user id is required")
	ErrNotFound     = errors.New("document not found")
	ErrReaderNil    = errors.New("reader is nil")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// UploadInput describes one file a student attaches to their account.
type UploadInput struct {
	UserID   string
	CourseID string
	// Filename is only used for its extension and kept as object metadata.
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentService defines the use cases for handling a student's documents.
// Every operation is scoped to the owning user.
type DocumentService interface {
	// Upload stores the content in object storage, saves metadata to DB, and rolls back storage if DB save fails.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns the user's documents using limit/offset and a total count.
	List(ctx context.Context, userID string, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document of the user by its ID.
	Get(ctx context.Context, userID, id string) (*model.Document, error)

	// Open streams the stored content of a document.
	Open(ctx context.Context, userID, id string) (io.ReadCloser, *model.Document, error)

	// Delete removes a document from both storage and repository.
	Delete(ctx context.Context, userID, id string) error
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	now   func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo, now: time.Now}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if in.Body == nil {
		return nil, ErrReaderNil
	}
	if in.UserID == "" {
		return nil, ErrUserRequired
	}

	key, err := storage.DocumentKey(in.UserID, in.Filename)
	if err != nil {
		return nil, err
	}
	objInfo, err := s.store.Put(ctx, key, in.Body, storage.PutOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		CourseID:    in.CourseID,
		Filename:    in.Filename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, userID string, limit, offset int) (*DocumentListResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if userID == "" {
		return nil, ErrUserRequired
	}
	doc, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Open(ctx context.Context, userID, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download from storage: %w", err)
	}
	return rc, doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, userID, id)
}
