// ABOUTME: Shared fixtures for emotion package tests
// ABOUTME: Loads the embedded default catalog once and pins the clock

package emotion

import (
	"math"
	"testing"
	"time"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	return c
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewEngine(defaultCatalog(t), opts)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
