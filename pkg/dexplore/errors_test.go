package dexplore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, dexplore.ExitSuccess},
		{"general error", errors.New("something went wrong"), dexplore.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag --foo"), dexplore.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), dexplore.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--page\""), dexplore.ExitUsageError},
		{"invalid config", fmt.Errorf("bad scope: %w", dexplore.ErrInvalidConfig), dexplore.ExitConfigError},
		{"unsupported auth", dexplore.ErrUnsupportedAuthMethod, dexplore.ExitConfigError},
		{"connection failed", dexplore.ErrConnectionFailed, dexplore.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), dexplore.ExitConnectionError},
		{"service unavailable", fmt.Errorf("GET /api/metadatas: %w", dexplore.ErrServiceUnavailable), dexplore.ExitServiceError},
		{"unauthorized", fmt.Errorf("status 401: %w", dexplore.ErrUnauthorized), dexplore.ExitUnauthorized},
		{"not interactive", dexplore.ErrNotInteractive, dexplore.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dexplore.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
