package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.Info("survey loaded", "rows", 3)
	logger.With("component", "exporter").Warn("slow write")
	logger.Error("render failed")

	assert.Equal(t, 3, handler.Count())
	assert.True(t, handler.ContainsMessage("loaded"))
	assert.True(t, handler.ContainsAttr("rows", int64(3)))
	assert.Len(t, handler.RecordsByLevel(slog.LevelError), 1)

	record, ok := handler.Find("slow write")
	assert.True(t, ok)
	assert.Equal(t, "exporter", record.Attrs["component"])

	// Attributes stay on the derived logger only.
	first, _ := handler.Find("survey loaded")
	assert.NotContains(t, first.Attrs, "component")

	AssertLogContains(t, handler, slog.LevelInfo, "survey")
}

func TestWriteSurvey(t *testing.T) {
	path := WriteSurvey(t, "s.csv", ExampleSurvey)
	assert.FileExists(t, path)
}
