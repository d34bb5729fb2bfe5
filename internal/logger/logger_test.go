package logger

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.NotEqual(t, nil, err)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Level: "info", Format: "xml"})
	assert.NotEqual(t, nil, err)
}

func TestNewBuildsConsoleAndJSON(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		l, err := New(Options{Level: "debug", Format: format})
		assert.Equal(t, nil, err)
		assert.NotEqual(t, nil, l)
	}
}

func TestZapLoggerWritesEventAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var l Logger = &zapLogger{z: zap.New(core)}

	l.WarnObj("fetch failed", "fetch_error", map[string]any{"provider": "newsapi"})

	entries := logs.All()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "fetch failed", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "fetch_error", ctx["event"])
	assert.Equal(t, "newsapi", ctx["provider"])
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.InfoObj("ignored", "noop", nil)
	assert.Equal(t, nil, l.Sync())
}
