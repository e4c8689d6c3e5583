package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var errCorruptState = errors.New("decode checkout state")

// FileStore keeps the id in a small JSON document so it survives restarts.
// Other keys already present in the file are preserved.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if errors.Is(err, errCorruptState) {
		// an undecodable file is replaced rather than left blocking writes
		doc, err = map[string]string{}, nil
	}
	if err != nil {
		return err
	}
	doc[Key] = sessionID
	return s.write(doc)
}

func (s *FileStore) Get(_ context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[Key]
	return v, ok, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if errors.Is(err, errCorruptState) {
		return s.write(map[string]string{})
	}
	if err != nil {
		return err
	}
	if _, ok := doc[Key]; !ok {
		return nil
	}
	delete(doc, Key)
	return s.write(doc)
}

func (s *FileStore) read() (map[string]string, error) {
	doc := map[string]string{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkout state: %w", err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptState, err)
	}
	return doc, nil
}

// write replaces the file atomically through a sibling temp file.
func (s *FileStore) write(doc map[string]string) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".checkout-*")
	if err != nil {
		return fmt.Errorf("write checkout state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write checkout state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write checkout state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write checkout state: %w", err)
	}
	return nil
}
