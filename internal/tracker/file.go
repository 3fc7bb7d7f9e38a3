package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore keeps every application in a single indented JSON file.
type FileStore struct {
	path  string
	mu    sync.Mutex
	clock clock
}

type fileContents struct {
	Items []*Application `json:"items"`
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, clock: defaultClock()}
}

func (s *FileStore) Save(_ context.Context, app *Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.load()
	if err != nil {
		return err
	}

	prepare(app, s.clock.newID, s.clock.now())

	replaced := false
	for i, existing := range contents.Items {
		if existing.ID == app.ID {
			app.CreatedAt = existing.CreatedAt
			contents.Items[i] = app
			replaced = true
			break
		}
	}
	if !replaced {
		contents.Items = append(contents.Items, app)
	}

	return s.store(contents)
}

func (s *FileStore) Get(_ context.Context, id string) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, app := range contents.Items {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) List(_ context.Context, status Status) ([]*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]*Application, 0, len(contents.Items))
	for _, app := range contents.Items {
		if status == "" || app.Status == status {
			out = append(out, app)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *FileStore) UpdateStatus(_ context.Context, id string, status Status) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, app := range contents.Items {
		if app.ID == id {
			transition(app, status, s.clock.now())
			if err := s.store(contents); err != nil {
				return nil, err
			}
			return app, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := s.load()
	if err != nil {
		return err
	}

	for i, app := range contents.Items {
		if app.ID == id {
			contents.Items = append(contents.Items[:i], contents.Items[i+1:]...)
			return s.store(contents)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() (*fileContents, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &fileContents{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &fileContents{}, nil
	}

	var contents fileContents
	if err := json.NewDecoder(file).Decode(&contents); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &contents, nil
}

// store writes to a temporary file and renames it over the target.
func (s *FileStore) store(contents *fileContents) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contents); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
