// ABOUTME: Tests for the interactive Bubble Tea model
// ABOUTME: Drives Update with synthetic key messages against an in-memory registry

package interactive

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/session"
	"github.com/mauromedda/pi-mood-go/internal/statusline"
)

func newModel(t *testing.T, reload ReloadFunc) Model {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	reg := session.NewRegistry(cat, emotion.Options{}, nil)
	m, err := New(context.Background(), Deps{Catalog: cat, Session: reg.Handle("i1"), Reload: reload})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// send types line and presses enter.
func send(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(runes(line))
	next, cmd := next.Update(key(tea.KeyEnter))
	return next.(Model), cmd
}

func TestModel_TextRunsCycle(t *testing.T) {
	t.Parallel()

	m, cmd := send(t, newModel(t, nil), "I am so happy and excited!")
	if cmd != nil {
		t.Error("text submission should not return a command")
	}
	if m.current.Dominant != "joy" || m.current.Turn != 1 {
		t.Errorf("current = %s turn %d, want joy turn 1", m.current.Dominant, m.current.Turn)
	}
	if m.editor.value() != "" {
		t.Errorf("editor not cleared: %q", m.editor.value())
	}
	if !strings.Contains(m.View(), "turn 1") {
		t.Errorf("view missing turn counter:\n%s", m.View())
	}
}

func TestModel_Commands(t *testing.T) {
	t.Parallel()

	m := newModel(t, nil)
	m, _ = send(t, m, "/context learning_context")
	if m.tag != "learning_context" {
		t.Errorf("tag = %q", m.tag)
	}
	m, _ = send(t, m, "/inject curiosity 0.9")
	if m.current.Dominant != "curiosity" {
		t.Errorf("dominant after inject = %s", m.current.Dominant)
	}
	m, _ = send(t, m, "/bogus")
	last := m.notes[len(m.notes)-1]
	if !last.err || !strings.Contains(last.text, "unknown command") {
		t.Errorf("last note = %+v", last)
	}
	if !strings.Contains(m.View(), "context learning_context") {
		t.Errorf("view missing context:\n%s", m.View())
	}

	m, cmd := send(t, m, "/exit")
	if cmd == nil || !m.quitting {
		t.Error("/exit should quit")
	}
	if m.View() != "" {
		t.Errorf("view after quit = %q", m.View())
	}
}

func TestModel_NotesAreBounded(t *testing.T) {
	t.Parallel()

	m := newModel(t, nil)
	for range maxLogLines + 3 {
		m, _ = send(t, m, "/context")
	}
	if len(m.notes) != maxLogLines {
		t.Errorf("len(notes) = %d, want %d", len(m.notes), maxLogLines)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	t.Parallel()

	next, cmd := newModel(t, nil).Update(key(tea.KeyCtrlC))
	if cmd == nil || !next.(Model).quitting {
		t.Error("ctrl+c should quit")
	}
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	next, _ := newModel(t, nil).Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if got := next.(Model).width; got != 40 {
		t.Errorf("width = %d, want 40", got)
	}
	next, _ = next.Update(tea.WindowSizeMsg{Width: 5, Height: 10})
	if got := next.(Model).width; got != 20 {
		t.Errorf("width = %d, want clamp to 20", got)
	}
}

func TestModel_Reload(t *testing.T) {
	t.Parallel()

	calls := 0
	reload := func() (*catalog.Catalog, *session.Handle, error) {
		calls++
		if calls == 2 {
			return nil, nil, errors.New("bad yaml")
		}
		cat, err := catalog.Default()
		if err != nil {
			return nil, nil, err
		}
		return cat, session.NewRegistry(cat, emotion.Options{}, nil).Handle("i1"), nil
	}

	m := newModel(t, reload)
	m, _ = send(t, m, "/reload")
	if last := m.notes[len(m.notes)-1]; last.err || last.text != "Catalog reloaded: 8 emotions." {
		t.Errorf("reload note = %+v", last)
	}

	next, _ := m.Update(catalogChangedMsg{path: "moods.yaml"})
	m = next.(Model)
	if last := m.notes[len(m.notes)-1]; !last.err || !strings.Contains(last.text, "bad yaml") {
		t.Errorf("failed reload note = %+v", last)
	}

	next, _ = m.Update(catalogChangedMsg{path: "moods.yaml"})
	m = next.(Model)
	if last := m.notes[len(m.notes)-1]; last.err {
		t.Errorf("third reload failed: %+v", last)
	}
	if calls != 3 {
		t.Errorf("reload calls = %d, want 3", calls)
	}
}

func TestModel_ReloadUnavailable(t *testing.T) {
	t.Parallel()

	m, _ := send(t, newModel(t, nil), "/reload")
	if last := m.notes[len(m.notes)-1]; last.text != "Reload not available." {
		t.Errorf("note = %+v", last)
	}
}

func TestModel_StatusLine(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	reg := session.NewRegistry(cat, emotion.Options{}, nil)
	m, err := New(context.Background(), Deps{
		Catalog:    cat,
		Session:    reg.Handle("i1"),
		StatusLine: statusline.New(`echo "custom status"`, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.Init() == nil {
		t.Fatal("Init should run the status line command")
	}

	m, cmd := send(t, m, "I am so happy and excited!")
	if cmd == nil {
		t.Fatal("a cycle should refresh the status line")
	}
	msg := cmd()
	if got, ok := msg.(statusMsg); !ok || got.text != "custom status" {
		t.Fatalf("status command returned %#v", msg)
	}
	next, _ := m.Update(msg)
	if view := next.(Model).View(); !strings.HasPrefix(view, "custom status") {
		t.Errorf("status line should replace the title:\n%s", view)
	}
}
