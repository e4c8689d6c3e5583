package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"studyhub/internal/model"
	"studyhub/internal/repository"
	repoMocks "studyhub/internal/repository/mocks"
	"studyhub/internal/storage"
	storeMocks "studyhub/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			in:   UploadInput{UserID: "u1", CourseID: "c1", Filename: "cours.pdf", ContentType: "application/pdf", Size: 11},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/u1/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutOptions{
					Size:        11,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "cours.pdf"},
				}).Return(storage.Object{
					Key:         "documents/u1/uuid.pdf",
					Size:        11,
					ContentType: "application/pdf",
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.UserID == "u1" && doc.CourseID == "c1" &&
						doc.Filename == "cours.pdf" && doc.StoragePath == "documents/u1/uuid.pdf"
				})).Return(&model.Document{ID: "gen-id", UserID: "u1"}, nil)

				return r
			},
		},
		{
			name: "validation error - nil reader",
			in:   UploadInput{UserID: "u1", Filename: "test.txt"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name: "validation error - no user",
			in:   UploadInput{Filename: "test.txt"},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrUserRequired,
		},
		{
			name: "storage error",
			in:   UploadInput{UserID: "u1", Filename: "test.txt", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.Object{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "repository error with successful rollback",
			in:   UploadInput{UserID: "u1", Filename: "test.txt", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				var putKey string
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutOptions) storage.Object {
						putKey = key
						return storage.Object{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool { return key == putKey })).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "repository error with failed rollback",
			in:   UploadInput{UserID: "u1", Filename: "test.txt", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutOptions) storage.Object {
						return storage.Object{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo)

			in := tt.in
			in.Body = tt.setupMocks(mStore, mRepo)

			doc, err := svc.Upload(ctx, in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *DocumentListResult)
	}{
		{
			name:   "happy path",
			userID: "u1",
			limit:  10,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "u1", repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{
						Items: []model.Document{{ID: "1"}, {ID: "2"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *DocumentListResult) {
				assert.Equal(t, 2, len(res.Items))
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			userID: "u1",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "u1", repository.PageQuery{Limit: DefaultPageSize, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
			},
		},
		{
			name:   "pagination boundary - limit is capped",
			userID: "u1",
			limit:  5000,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "u1", repository.PageQuery{Limit: MaxPageSize, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
			},
		},
		{
			name:       "no user",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    true,
		},
		{
			name:   "repository error",
			userID: "u1",
			limit:  10,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "u1", mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo)

			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.userID, tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "valid-id").Return(&model.Document{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping repository.ErrNotFound",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "missing-id").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   "error-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "error-id").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo)

			tt.setupMocks(mRepo)

			doc, err := svc.Get(ctx, "u1", tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
				assert.Equal(t, tt.id, doc.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "documents/u1/a.pdf"}, nil)
		mStore.On("Get", ctx, "documents/u1/a.pdf").
			Return(io.NopCloser(strings.NewReader("pdf")), storage.Object{Key: "documents/u1/a.pdf"}, nil)

		rc, doc, err := NewDocumentService(mStore, mRepo).Open(ctx, "u1", "d1")
		assert.NoError(t, err)
		assert.Equal(t, "d1", doc.ID)
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "pdf", string(b))
	})

	t.Run("missing object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "u1", "d1").Return(&model.Document{ID: "d1", StoragePath: "gone"}, nil)
		mStore.On("Get", ctx, "gone").Return(nil, storage.Object{}, storage.ErrObjectNotFound)

		_, _, err := NewDocumentService(mStore, mRepo).Open(ctx, "u1", "d1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "valid-id").Return(&model.Document{ID: "valid-id", StoragePath: "path/to/obj"}, nil)
				mStore.On("Delete", ctx, "path/to/obj").Return(nil)
				mRepo.On("Delete", ctx, "u1", "valid-id").Return(nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "missing-id").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage delete error",
			id:   "storage-fail-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "storage-fail-id").Return(&model.Document{ID: "id", StoragePath: "path"}, nil)
				mStore.On("Delete", ctx, "path").Return(errors.New("storage fail"))
			},
			wantErr: errors.New("delete storage: storage fail"),
		},
		{
			name: "repository delete error",
			id:   "repo-fail-id",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "u1", "repo-fail-id").Return(&model.Document{ID: "id", StoragePath: "path"}, nil)
				mStore.On("Delete", ctx, "path").Return(nil)
				mRepo.On("Delete", ctx, "u1", "repo-fail-id").Return(errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo)

			tt.setupMocks(mStore, mRepo)

			err := svc.Delete(ctx, "u1", tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
