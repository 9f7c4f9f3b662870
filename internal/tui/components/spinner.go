package components

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadSpinner is a loading indicator driven by Show and Hide calls from load
// goroutines. It is visible while at least one load is in flight.
type LoadSpinner struct {
	spinner spinner.Model
	message string
	active  *atomic.Int32
	styles  spinnerStyles
}

type spinnerStyles struct {
	Message lipgloss.Style
}

// NewLoadSpinner creates a hidden spinner showing message while visible.
func NewLoadSpinner(message string) LoadSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return LoadSpinner{
		spinner: s,
		message: message,
		active:  new(atomic.Int32),
		styles: spinnerStyles{
			Message: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		},
	}
}

// Show implements dexplore.LoadingIndicator.
func (s LoadSpinner) Show() { s.active.Add(1) }

// Hide implements dexplore.LoadingIndicator.
func (s LoadSpinner) Hide() {
	for {
		n := s.active.Load()
		if n <= 0 || s.active.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// Visible reports whether a load is in flight.
func (s LoadSpinner) Visible() bool {
	return s.active.Load() > 0
}

// Tick starts the animation.
func (s LoadSpinner) Tick() tea.Msg {
	return s.spinner.Tick()
}

// Update advances the animation.
func (s LoadSpinner) Update(msg tea.Msg) (LoadSpinner, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(tick)
		return s, cmd
	}
	return s, nil
}

// View renders the spinner, or nothing when hidden.
func (s LoadSpinner) View() string {
	if !s.Visible() {
		return ""
	}
	return s.spinner.View() + " " + s.styles.Message.Render(s.message)
}
