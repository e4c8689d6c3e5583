// Package storage holds the bucket behind uploaded documents and generated
// revision-sheet artifacts. Implementations stream; nothing touches local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrObjectNotFound is returned by Get when the key does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey rejects keys that are empty, absolute or escape their prefix.
	ErrInvalidKey = errors.New("invalid object key")
)

// PutOptions describe an upload. Size is the exact byte count, or -1 when
// unknown, in which case the backend streams in parts.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Object describes a stored object.
type Object struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (Object, error)
	// Get streams an object; the caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, Object, error)
	// Delete is idempotent: removing a missing key succeeds.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL that downloads key without credentials until expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
