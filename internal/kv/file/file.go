// Package file stores each key as a JSON file inside one directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
)

type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates dir when it does not exist yet.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Keys may contain '@' and other characters that are awkward in file names.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, kv.ErrNotFound
	}

	if err != nil {
		return nil, kv.Wrap("get", key, err)
	}

	return b, nil
}

// Set writes to a temp file and renames it over the old value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return kv.Wrap("set", key, err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return kv.Wrap("set", key, err)
	}

	if err := tmp.Close(); err != nil {
		return kv.Wrap("set", key, err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return kv.Wrap("set", key, err)
	}

	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return kv.Wrap("remove", key, err)
	}

	return nil
}
