package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(t *testing.T) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestLogger_RedactsSecrets(t *testing.T) {
	l, logs := observed(t)

	l.Info("register", "user", "alice", "password", "hunter2", "PasswordHash", "$argon2id$...")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "alice", fields["user"])
	assert.Equal(t, redacted, fields["password"])
	assert.Equal(t, redacted, fields["PasswordHash"])
}

func TestLogger_WithRedacts(t *testing.T) {
	l, logs := observed(t)

	l.With("token", "abc").Debug("child")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, redacted, logs.All()[0].ContextMap()["token"])
}

func TestLogger_Levels(t *testing.T) {
	l, logs := observed(t)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	got := make([]zapcore.Level, 0, logs.Len())
	for _, e := range logs.All() {
		got = append(got, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, got)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]any{"user", "alice", "dangling"})
	assert.Equal(t, []any{"user", "alice", "dangling"}, out)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		level   string
		wantErr bool
	}{
		{name: "development default level", mode: ModeDevelopment},
		{name: "production debug", mode: ModeProduction, level: "debug"},
		{name: "short prod alias", mode: "prod", level: "warn"},
		{name: "bad level", mode: ModeDevelopment, level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.mode, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.Info("ignored", "password", "x")
		l.Sync()
	})
}
