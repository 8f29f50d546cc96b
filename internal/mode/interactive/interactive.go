// ABOUTME: Interactive TUI mode: runs the mood console under Bubble Tea
// ABOUTME: Watches the catalog file and forwards changes to the model as reload messages

package interactive

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-mood-go/internal/config"
)

// Run starts the console and blocks until the user quits or ctx is done.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	m, err := New(ctx, deps)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)

	if deps.Reload != nil && len(deps.Watch) > 0 {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		w := config.NewWatcher(deps.Watch, config.DefaultWatchInterval, func(path string) {
			p.Send(catalogChangedMsg{path: path})
		})
		go w.Run(wctx)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}
