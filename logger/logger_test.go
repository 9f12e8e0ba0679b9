package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONByEnv(t *testing.T) {
	var buf bytes.Buffer
	log := New(EnvProd, &buf)
	log.Debug("hidden")
	log.Info("checkout completed", slog.Int("purchases", 2), Err(errors.New("boom")))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "checkout completed", rec["msg"])
	assert.Equal(t, float64(2), rec["purchases"])
	assert.Equal(t, "boom", rec["error"])
}

func TestDevLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	New(EnvDev, &buf).Debug("visible")
	assert.Contains(t, buf.String(), `"msg":"visible"`)
}

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	log := New(EnvLocal, &buf).With(slog.String("component", "cart"))
	log.Warn("item removed", slog.Int("index", 1))

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "item removed")
	assert.Contains(t, out, `"component": "cart"`)
	assert.Contains(t, out, `"index": 1`)
}
