package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"video_matcher/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}

func TestNewJSON(t *testing.T) {
	var cfg config.Config
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	l := New(&cfg, &buf)
	l.Info("丢弃")
	l.Warn("保留", "query", "ocean")

	out := buf.String()
	assert.NotContains(t, out, "丢弃")
	assert.Contains(t, out, `"msg":"保留"`)
	assert.Contains(t, out, `"query":"ocean"`)
}
