package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// Browse runs the browser full screen until the user quits or ctx ends.
func Browse(ctx context.Context, opts BrowserOptions) error {
	if !IsInteractive() {
		return fmt.Errorf("browse needs an interactive terminal; use 'dexplore list' instead: %w", dexplore.ErrNotInteractive)
	}
	b, err := NewBrowser(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
