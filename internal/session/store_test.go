// ABOUTME: Shared behavior tests run against every Store implementation
// ABOUTME: Redis runs on miniredis; SQLite and file stores use t.TempDir

package session

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "mood.db"))
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
		},
	}
}

func TestStore_SaveLoadDeleteList(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			st := open(t)
			t.Cleanup(func() { st.Close() })

			if _, err := st.Load(ctx, "alice"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load(missing) error = %v, want ErrNotFound", err)
			}

			eng := newEngine(t)
			first := eng.Update("I am so happy and excited!", "")
			if err := st.Save(ctx, "alice", first); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			second := eng.Update("actually that was unexpected", "")
			if err := st.Save(ctx, "alice", second); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			if err := st.Save(ctx, "bob", first); err != nil {
				t.Fatalf("Save error: %v", err)
			}

			got, err := st.Load(ctx, "alice")
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if got.Turn != 2 || got.Dominant != second.Dominant || !slices.Equal(got.Derived, second.Derived) {
				t.Errorf("Load = turn %d %s %v, want latest save", got.Turn, got.Dominant, got.Derived)
			}

			ids, err := st.List(ctx)
			if err != nil {
				t.Fatalf("List error: %v", err)
			}
			if !slices.Equal(ids, []string{"alice", "bob"}) {
				t.Errorf("List = %v", ids)
			}

			if err := st.Delete(ctx, "alice"); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if _, err := st.Load(ctx, "alice"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load after Delete error = %v", err)
			}
			if err := st.Delete(ctx, "alice"); err != nil {
				t.Errorf("second Delete error = %v", err)
			}
		})
	}
}

func TestSQLiteStore_LogsTurns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "mood.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	eng := newEngine(t)
	for _, text := range []string{"happy", "", "wow"} {
		if err := st.Save(ctx, "carol", eng.Update(text, "")); err != nil {
			t.Fatal(err)
		}
	}
	n, err := st.TurnCount(ctx, "carol")
	if err != nil || n != 3 {
		t.Errorf("TurnCount = %d, %v; want 3", n, err)
	}
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	t.Parallel()

	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := st.Save(context.Background(), id, emotion.Snapshot{}); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := Open("tape", ""); err == nil {
		t.Error("expected error for unknown store kind")
	}
}
