// ABOUTME: Bubble Tea model for the interactive mood console
// ABOUTME: Each submitted line runs one mood cycle; slash commands share the print-mode registry

package interactive

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
	"github.com/mauromedda/pi-mood-go/internal/commands"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
	"github.com/mauromedda/pi-mood-go/internal/log"
	"github.com/mauromedda/pi-mood-go/internal/render"
	"github.com/mauromedda/pi-mood-go/internal/report"
	"github.com/mauromedda/pi-mood-go/internal/session"
	"github.com/mauromedda/pi-mood-go/internal/statusline"
)

// maxLogLines bounds the notes shown under the mood view.
const maxLogLines = 8

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// ReloadFunc rebuilds the catalog and session after the catalog file changed.
type ReloadFunc func() (*catalog.Catalog, *session.Handle, error)

// Deps provides dependencies for interactive mode.
type Deps struct {
	Catalog *catalog.Catalog
	Session *session.Handle
	Context string     // initial context tag
	Color   bool       // style output with lipgloss
	Reload  ReloadFunc // nilable; enables /reload and catalog watching
	Watch   []string   // catalog files watched for changes

	StatusLine *statusline.Engine // nilable; replaces the title line
	CWD        string
}

// catalogChangedMsg reports a modified catalog file.
type catalogChangedMsg struct{ path string }

// statusMsg carries the output of the status line command.
type statusMsg struct{ text string }

// Model is the root Bubble Tea model.
type Model struct {
	ctx      context.Context
	deps     Deps
	cat      *catalog.Catalog
	sess     *session.Handle
	r        *render.Renderer
	cmds     *commands.Registry
	editor   editor
	current  emotion.Snapshot
	tag      string
	notes    []note
	status   string
	width    int
	quitting bool
}

type note struct {
	text string
	err  bool
}

// New creates the model, loading the session's current snapshot.
func New(ctx context.Context, deps Deps) (Model, error) {
	cur, err := deps.Session.Current(ctx)
	if err != nil {
		return Model{}, err
	}
	return Model{
		ctx:     ctx,
		deps:    deps,
		cat:     deps.Catalog,
		sess:    deps.Session,
		r:       render.New(deps.Catalog, deps.Color),
		cmds:    commands.NewRegistry(),
		current: cur,
		tag:     deps.Context,
		width:   80,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.statusCmd()
}

// statusCmd runs the status line command off the update loop.
func (m Model) statusCmd() tea.Cmd {
	eng := m.deps.StatusLine
	if !eng.HasCommand() {
		return nil
	}
	ctx := m.ctx
	in := statusline.NewInput(m.deps.CWD, m.sess.ID(), m.tag, m.current)
	return func() tea.Msg {
		out, err := eng.Execute(ctx, in)
		if err != nil {
			log.Debug("statusline: %v", err)
			return statusMsg{}
		}
		return statusMsg{text: out}
	}
}

// Update routes messages to the appropriate handler.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case catalogChangedMsg:
		next, out, err := m.reloaded()
		if err != nil {
			return m.addNote(fmt.Sprintf("catalog %s changed but reload failed: %v", msg.path, err), true), nil
		}
		next = next.addNote(out, false)
		return next, next.statusCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		var line string
		m.editor, line = m.editor.submit()
		if line == "" {
			return m, nil
		}
		m = m.submit(line)
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.statusCmd()
	}
	m.editor = m.editor.update(msg)
	return m, nil
}

func (m Model) submit(line string) Model {
	if !commands.IsCommand(line) {
		snap, err := m.sess.Update(m.ctx, line, m.tag)
		if err != nil {
			return m.addNote(err.Error(), true)
		}
		m.current = snap
		return m
	}

	cc := &commands.CommandContext{
		Ctx:        m.ctx,
		Catalog:    m.cat,
		Session:    m.sess,
		ContextTag: m.tag,
		Emit:       func(s emotion.Snapshot) { m.current = s },
		ExitFn:     func() { m.quitting = true },
	}
	if m.deps.Reload != nil {
		cc.ReloadFn = func() (string, error) {
			next, out, err := m.reloaded()
			if err != nil {
				return "", err
			}
			m = next
			return out, nil
		}
	}
	out, err := m.cmds.Dispatch(cc, line)
	m.tag = cc.ContextTag
	if err != nil {
		return m.addNote(err.Error(), true)
	}
	if strings.HasPrefix(line, "/report") {
		if styled, rerr := report.Render(out, m.width, true); rerr == nil {
			out = styled
		}
	}
	if out != "" {
		m = m.addNote(out, false)
	}
	return m
}

func (m Model) reloaded() (Model, string, error) {
	if m.deps.Reload == nil {
		return m, "", fmt.Errorf("reload not available")
	}
	cat, sess, err := m.deps.Reload()
	if err != nil {
		return m, "", err
	}
	cur, err := sess.Current(m.ctx)
	if err != nil {
		return m, "", err
	}
	m.cat = cat
	m.sess = sess
	m.r = render.New(cat, m.deps.Color)
	m.current = cur
	return m, fmt.Sprintf("Catalog reloaded: %d emotions.", cat.Len()), nil
}

func (m Model) addNote(text string, isErr bool) Model {
	text = strings.TrimRight(text, "\n")
	m.notes = append(m.notes[:len(m.notes):len(m.notes)], note{text: text, err: isErr})
	if over := len(m.notes) - maxLogLines; over > 0 {
		m.notes = m.notes[over:]
	}
	return m
}

// View renders the mood view, recent notes, and the prompt.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	tag := m.tag
	if tag == "" {
		tag = "none"
	}
	sep := dimStyle.Render(strings.Repeat("─", m.width))

	title := titleStyle.Render("pi-mood") + dimStyle.Render(fmt.Sprintf(" · session %s · context %s · turn %d", m.sess.ID(), tag, m.current.Turn))
	if m.status != "" {
		title = m.status
	}
	sections := []string{
		title,
		"",
		strings.TrimRight(m.r.View(m.current), "\n"),
		sep,
	}
	for _, n := range m.notes {
		if n.err {
			sections = append(sections, errStyle.Render("error: "+n.text))
		} else {
			sections = append(sections, n.text)
		}
	}
	sections = append(sections,
		"> "+m.editor.view(),
		dimStyle.Render("enter submit · /help commands · ctrl+c quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
