package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const documentsPrefix = "documents"

// DocumentKey lays uploads out per user as documents/<user>/<uuid><ext>. The
// original filename only contributes its extension.
func DocumentKey(userID, filename string) (string, error) {
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return "", fmt.Errorf("%w: user %q", ErrInvalidKey, userID)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(documentsPrefix, userID, uuid.New().String()+ext), nil
}

// CleanKey normalizes a key read from a row, such as a revision sheet's
// artifact path, before it is handed to the bucket.
func CleanKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" || strings.HasPrefix(k, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	k = path.Clean(k)
	if k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}
