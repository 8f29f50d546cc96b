// ABOUTME: Single-line rune editor for the interactive prompt with kill/yank and input history
// ABOUTME: Value semantics: every edit returns a new editor sharing no mutable slices

package interactive

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputHistory caps recalled lines.
const maxInputHistory = 100

type editor struct {
	text    []rune
	cursor  int
	killed  string
	history []string
	histPos int // len(history) when not browsing
	draft   string
}

func (e editor) value() string {
	return string(e.text)
}

func (e editor) isEmpty() bool {
	return strings.TrimSpace(string(e.text)) == ""
}

func (e editor) setText(s string) editor {
	e.text = []rune(s)
	e.cursor = len(e.text)
	return e
}

// submit records the current line in history and clears the editor.
func (e editor) submit() (editor, string) {
	line := strings.TrimSpace(e.value())
	if line != "" && (len(e.history) == 0 || e.history[len(e.history)-1] != line) {
		e.history = append(slices.Clone(e.history), line)
		if over := len(e.history) - maxInputHistory; over > 0 {
			e.history = e.history[over:]
		}
	}
	e.histPos = len(e.history)
	e.draft = ""
	e.text = nil
	e.cursor = 0
	return e, line
}

func (e editor) update(msg tea.KeyMsg) editor {
	switch msg.Type {
	case tea.KeyRunes:
		return e.insert(msg.Runes)
	case tea.KeySpace:
		return e.insert([]rune{' '})
	case tea.KeyBackspace:
		if e.cursor > 0 {
			e.text = slices.Delete(slices.Clone(e.text), e.cursor-1, e.cursor)
			e.cursor--
		}
	case tea.KeyDelete:
		if e.cursor < len(e.text) {
			e.text = slices.Delete(slices.Clone(e.text), e.cursor, e.cursor+1)
		}
	case tea.KeyLeft:
		e.cursor = max(0, e.cursor-1)
	case tea.KeyRight:
		e.cursor = min(len(e.text), e.cursor+1)
	case tea.KeyHome, tea.KeyCtrlA:
		e.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		e.cursor = len(e.text)
	case tea.KeyCtrlU:
		e.killed = string(e.text[:e.cursor])
		e.text = slices.Clone(e.text[e.cursor:])
		e.cursor = 0
	case tea.KeyCtrlK:
		e.killed = string(e.text[e.cursor:])
		e.text = slices.Clone(e.text[:e.cursor])
	case tea.KeyCtrlY:
		return e.insert([]rune(e.killed))
	case tea.KeyUp:
		return e.recall(-1)
	case tea.KeyDown:
		return e.recall(1)
	}
	return e
}

func (e editor) insert(r []rune) editor {
	if len(r) == 0 {
		return e
	}
	e.text = slices.Insert(slices.Clone(e.text), e.cursor, r...)
	e.cursor += len(r)
	return e
}

func (e editor) recall(step int) editor {
	if len(e.history) == 0 {
		return e
	}
	if e.histPos == len(e.history) {
		e.draft = e.value()
	}
	pos := min(max(e.histPos+step, 0), len(e.history))
	if pos == e.histPos {
		return e
	}
	e.histPos = pos
	if pos == len(e.history) {
		return e.setText(e.draft)
	}
	return e.setText(e.history[pos])
}

// view renders the line with a block cursor.
func (e editor) view() string {
	before := string(e.text[:e.cursor])
	cursor := " "
	after := ""
	if e.cursor < len(e.text) {
		cursor = string(e.text[e.cursor])
		after = string(e.text[e.cursor+1:])
	}
	return before + cursorStyle.Render(cursor) + after
}
