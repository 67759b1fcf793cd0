package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore persists values as a single JSON object on disk, the process-side
// equivalent of a browser tab's local storage. Every Set rewrites the file.
type FileStore struct {
	path   string
	lock   sync.Mutex
	values map[string]string
}

// OpenFileStore loads the store at path, creating parent directories as
// needed. A missing file yields an empty store; a corrupt file is an error.
func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[OpenFileStore] mkdir")
	}

	values := make(map[string]string)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(err, "[OpenFileStore] read")
	default:
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, errors.Wrap(err, "[OpenFileStore] decode")
		}
	}

	return &FileStore{path: path, values: values}, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *FileStore) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	if err := s.flush(); err != nil {
		return errors.Wrap(err, "[FileStore.Set] flush")
	}
	return nil
}

func (s *FileStore) Delete(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	_ = s.flush() // Delete is best-effort by contract
}

func (s *FileStore) flush() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
