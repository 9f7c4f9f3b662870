package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode is the interaction mode of the current process.
type Mode int

const (
	// ModeNonInteractive is used for CI pipelines, scripts and piped output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnv forces non-interactive mode when set to "1".
const NonInteractiveEnv = "DEXPLORE_NON_INTERACTIVE"

// DetectMode returns ModeNonInteractive if:
//   - DEXPLORE_NON_INTERACTIVE=1 is set
//   - CI is set
//   - NO_COLOR is set
//   - stdin or stdout is not a terminal
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether DetectMode returns ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
