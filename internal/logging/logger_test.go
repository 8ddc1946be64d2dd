package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/systmms/keychainquery/internal/logging"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "secret is redacted", input: "my-secret-password"},
		{name: "empty secret is still redacted", input: ""},
		{name: "complex secret is redacted", input: "password123!@#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, "[REDACTED]", logging.Secret(tt.input).String())
			assert.Equal(t, "[REDACTED]", logging.Secret(tt.input).GoString())
		})
	}
}

func TestSecretRedactionInOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, true, true)

	secretValue := "super-secret-password-12345"
	logger.Info("Retrieved secret: %s", logging.Secret(secretValue))
	logger.Debug("Processing secret: %v", logging.Secret(secretValue))
	logger.Warn("Secret detail: %#v", logging.Secret(secretValue))

	out := buf.String()
	assert.Contains(t, out, "Retrieved secret: [REDACTED]")
	assert.Contains(t, out, "Processing secret: [REDACTED]")
	assert.Contains(t, out, "Secret detail: [REDACTED]")
	assert.NotContains(t, out, secretValue)
}

func TestLoggerDebugMode(t *testing.T) {
	t.Parallel()

	var quiet, verbose bytes.Buffer
	logging.NewWithWriter(&quiet, false, true).Debug("hidden %d", 1)
	logging.NewWithWriter(&verbose, true, true).Debug("shown %d", 2)

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "shown 2")
	assert.True(t, logging.NewWithWriter(&verbose, true, true).IsDebug())
}

func TestLoggerLevelsAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true).With("op", "get")
	logger.Error("failed: %s", "boom")

	out := buf.String()
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "op=get")
}

func TestNopDiscards(t *testing.T) {
	t.Parallel()

	logger := logging.Nop()
	logger.Info("nothing %s", "here")
	assert.False(t, logger.IsDebug())
}

func TestSecretEncoding(t *testing.T) {
	t.Parallel()

	doc := map[string]interface{}{"user": "alice", "password": logging.Secret("hunter2")}

	js, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"alice","password":"[REDACTED]"}`, string(js))

	ym, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(ym), "hunter2")
	assert.Contains(t, string(ym), "[REDACTED]")
}
