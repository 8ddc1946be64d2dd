package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/keychainquery/internal/logging"
)

// TestLogger captures log output for validation in tests.
//
// Example usage:
//
//	logs := NewTestLogger(t, false)
//	client := keychain.New("keychain", st, keychain.WithLogger(logs.Logger()))
//	...
//	logs.AssertNotContains(t, "s3cr3t")
type TestLogger struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	logger *logging.Logger
}

// NewTestLogger creates a TestLogger. Debug messages are only captured
// when debug is true.
func NewTestLogger(t *testing.T, debug bool) *TestLogger {
	t.Helper()

	l := &TestLogger{}
	l.logger = logging.NewWithWriter(l, debug, true)
	return l
}

// Logger returns the logger writing into the capture buffer.
func (l *TestLogger) Logger() *logging.Logger {
	return l.logger
}

// Write implements io.Writer.
func (l *TestLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffer.Write(p)
}

// GetOutput returns the captured log output as a string.
func (l *TestLogger) GetOutput() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffer.String()
}

// Lines returns the captured output split into non-empty lines.
func (l *TestLogger) Lines() []string {
	var lines []string
	for _, line := range strings.Split(l.GetOutput(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Clear clears the captured log output.
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buffer.Reset()
}

// AssertContains asserts that the log output contains the specified substring.
func (l *TestLogger) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, l.GetOutput(), substr, "log output should contain %q", substr)
}

// AssertNotContains asserts that the log output does not contain the
// specified substring.
func (l *TestLogger) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, l.GetOutput(), substr, "log output should not contain %q", substr)
}
