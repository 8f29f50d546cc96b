// ABOUTME: Pluggable storage for the latest snapshot of each session
// ABOUTME: File store writes one JSON document per session with an atomic rename

package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mailru/easyjson"

	"github.com/mauromedda/pi-mood-go/internal/config"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// ErrNotFound is returned by Store.Load when a session has no saved state.
var ErrNotFound = errors.New("session state not found")

// Store persists the latest snapshot per session ID.
type Store interface {
	Save(ctx context.Context, id string, s emotion.Snapshot) error
	Load(ctx context.Context, id string) (emotion.Snapshot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Open builds the store named by kind. dsn is a directory for "file", a
// database path for "sqlite" and a redis:// URL for "redis".
func Open(kind, dsn string) (Store, error) {
	switch kind {
	case "", config.StoreFile:
		if dsn == "" {
			dsn = config.SessionsDir()
		}
		return NewFileStore(dsn)
	case config.StoreSQLite:
		if dsn == "" {
			dsn = filepath.Join(config.GlobalDir(), "mood.db")
		}
		return OpenSQLite(dsn)
	case config.StoreRedis:
		return OpenRedis(dsn, "")
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}

const stateSuffix = ".state.json"

// FileStore keeps <id>.state.json files in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := config.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+stateSuffix)
}

// Save writes the snapshot atomically.
func (f *FileStore) Save(_ context.Context, id string, s emotion.Snapshot) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	data, err := easyjson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling state %s: %w", id, err)
	}
	tmp, err := os.CreateTemp(f.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing state %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing state %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), f.path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("saving state %s: %w", id, err)
	}
	return nil
}

// Load reads the snapshot saved for id.
func (f *FileStore) Load(_ context.Context, id string) (emotion.Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return emotion.Snapshot{}, err
	}
	data, err := os.ReadFile(f.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return emotion.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return emotion.Snapshot{}, fmt.Errorf("reading state %s: %w", id, err)
	}
	var s emotion.Snapshot
	if err := easyjson.Unmarshal(data, &s); err != nil {
		return emotion.Snapshot{}, fmt.Errorf("parsing state %s: %w", id, err)
	}
	return s, nil
}

// Delete removes the saved state of id. Missing state is not an error.
func (f *FileStore) Delete(_ context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting state %s: %w", id, err)
	}
	return nil
}

// List returns the IDs with saved state, sorted.
func (f *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading state dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if id, ok := strings.CutSuffix(e.Name(), stateSuffix); ok && !e.IsDir() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
