package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compile-time check against the calculators' logger
var _ calculation.Logger = Adapter{}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("comparison done", "best", "presumido")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "comparison done", entry["msg"])
	assert.Equal(t, "presumido", entry["best"])
}

func TestAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(New("debug", "text", &buf))

	adapter.Debugf("annex=%s bracket=%d", "V", 4)
	adapter.Warnf("excluding %s", "simples")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="annex=V bracket=4"`)
	assert.Contains(t, out, "level=WARN")
}

type countingStringer struct{ calls int }

func (c *countingStringer) String() string {
	c.calls++
	return "counted"
}

func TestAdapter_SkipsFormattingBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(New("info", "text", &buf))

	arg := &countingStringer{}
	adapter.Debugf("detail %s", arg)
	assert.Zero(t, arg.calls)
	assert.Empty(t, buf.String())

	adapter.Infof("detail %s", arg)
	assert.Equal(t, 1, arg.calls)
	assert.Contains(t, buf.String(), `msg="detail counted"`)
}
