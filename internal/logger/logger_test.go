package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Output: &buf})
	require.NoError(t, err)
	defer flush()

	log.Debug("hidden")
	log.Info("account registered", "identity", "alice@example.com")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "account registered", entry["msg"])
	assert.Equal(t, "alice@example.com", entry["identity"])
}

func TestNewDevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Development: true, Output: &buf})
	require.NoError(t, err)

	log.Debug("visible in development")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "visible in development")
}

func TestNewWithSentryFansOut(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{
		Output:    &buf,
		SentryDSN: "https://public@sentry.example/1",
	})
	require.NoError(t, err)
	defer flush()

	log.Info("still logged locally")
	assert.Contains(t, buf.String(), "still logged locally")
}

func TestNewRejectsBadSentryDSN(t *testing.T) {
	_, _, err := New(Options{SentryDSN: "not a dsn"})
	assert.Error(t, err)
}
