package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ErrNotFound is returned when no application has the requested id.
var ErrNotFound = errors.New("application not found")

// Store persists applications.
type Store interface {
	// Save inserts or replaces app. A missing ID is generated and timestamps are refreshed.
	Save(ctx context.Context, app *Application) error
	Get(ctx context.Context, id string) (*Application, error)
	// List returns applications newest first. An empty status returns all of them.
	List(ctx context.Context, status Status) ([]*Application, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Application, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open creates the store selected by driver at path, creating parent directories as needed.
func Open(driver, path string) (Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("storage path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverFile, "":
		return NewFileStore(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

type clock struct {
	now   func() time.Time
	newID func() string
}

func defaultClock() clock {
	return clock{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}
