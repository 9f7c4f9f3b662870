package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer lets concurrent writers share a bytes.Buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, true)
	logger.Verbose("test message: %s", "value")

	out := buf.String()
	assert.Contains(t, out, "[VERBOSE]")
	assert.Contains(t, out, "test message: value")
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Verbose("test message: %s", "value")

	assert.Empty(t, buf.String())
}

func TestConsoleLogger_Info(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("info message: %s", "value")

	out := buf.String()
	assert.Contains(t, out, "info message: value")
	assert.NotContains(t, out, "[VERBOSE]")
	assert.NotContains(t, out, "[ERROR]")
}

func TestConsoleLogger_Error(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Error("error message: %s", "value")

	out := buf.String()
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "error message: value")
}

func TestConsoleLogger_NoArgsKeepsPercent(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("100% loaded")

	assert.Contains(t, buf.String(), "100% loaded")
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	var buf syncBuffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 30)
	for i, line := range lines {
		if !strings.Contains(line, "message") && !strings.Contains(line, "verbose") && !strings.Contains(line, "error") {
			t.Errorf("Line %d appears corrupted: %q", i, line)
		}
	}
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()
}

func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	logger := NewConsoleLoggerTo(&bytes.Buffer{}, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

// Example demonstrates NullLogger usage
func ExampleNullLogger() {
	logger := NewNullLogger()
	logger.Info("This message is discarded")
	logger.Verbose("This too")
	logger.Error("And this")
	fmt.Println("Done")
	// Output:
	// Done
}
