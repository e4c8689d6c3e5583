package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"studyhub/internal/storage"
)

// MockStorage records bucket calls. Put accepts either a storage.Object or a
// func deriving one from the call arguments.
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutOptions) (storage.Object, error) {
	args := m.Called(ctx, key, r, opt)
	switch v := args.Get(0).(type) {
	case func(context.Context, string, io.Reader, storage.PutOptions) storage.Object:
		return v(ctx, key, r, opt), args.Error(1)
	case storage.Object:
		return v, args.Error(1)
	}
	return storage.Object{}, args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(1).(storage.Object)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, obj, args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
