package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "game-room", cfg.RoomID)
	assert.False(t, cfg.AutoJoin)
	assert.Zero(t, cfg.ChatMaxLength)
	assert.Zero(t, cfg.ChatMaxMessages)
	assert.Equal(t, 30*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 60*time.Second, cfg.WSReadTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 30*24*time.Hour, cfg.ResultRetention())
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("AUTO_JOIN", "true")
	t.Setenv("WS_PING_INTERVAL", "5s")
	t.Setenv("WS_READ_TIMEOUT", "15s")
	t.Setenv("RESULT_RETENTION_DAYS", "7")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AutoJoin)
	assert.Equal(t, 5*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.ResultRetention())
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ROOM_ID=lobby\nCHAT_MAX_LENGTH=42\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ROOM_ID")
		os.Unsetenv("CHAT_MAX_LENGTH")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lobby", cfg.RoomID)
	assert.Equal(t, 42, cfg.ChatMaxLength)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad int", "CHAT_MAX_LENGTH", "many"},
		{"negative chat length", "CHAT_MAX_LENGTH", "-1"},
		{"negative chat history", "CHAT_MAX_MESSAGES", "-5"},
		{"bad duration", "WS_READ_TIMEOUT", "soon"},
		{"ping slower than read timeout", "WS_PING_INTERVAL", "2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
