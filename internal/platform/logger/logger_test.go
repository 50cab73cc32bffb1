package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"contact_email", "jane@example.com",
		"OPENAI_API_KEY", "sk-123",
		"project_id", "p-1",
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"contact_email", "[REDACTED]",
		"OPENAI_API_KEY", "[REDACTED]",
		"project_id", "p-1",
		"dangling",
	}, out)
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("session_id", "s-1").Warn("save failed", "email", "a@b.c")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "s-1", fields["session_id"])
		assert.Equal(t, "[REDACTED]", fields["email"])
		assert.Equal(t, "save failed", entries[0].Message)
	}
}
