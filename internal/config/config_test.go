package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigRequiresBotToken(t *testing.T) {
	t.Setenv("MAXYBOT_BOT_TOKEN", "")
	t.Setenv("MAXYBOT_DATA_DIR", t.TempDir())
	t.Setenv("MAXYBOT_LOG_DIR", t.TempDir())

	_, err := NewConfig()
	require.Error(t, err)
}

func TestNewConfigLoadsFromEnv(t *testing.T) {
	t.Setenv("MAXYBOT_BOT_TOKEN", "test_token")
	t.Setenv("MAXYBOT_DATA_DIR", t.TempDir())
	t.Setenv("MAXYBOT_LOG_DIR", t.TempDir())
	t.Setenv("MAXYBOT_DEFAULT_PREFIX", "!")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "test_token", cfg.GetBotToken())
	assert.Equal(t, "!", cfg.GetDefaultPrefix())
	assert.Equal(t, 5*time.Minute, cfg.GetGuildConfigFlushInterval())
}

func TestMockConfigDefaults(t *testing.T) {
	cfg := NewMockConfig(map[string]interface{}{"bot_token": "x"})

	assert.Equal(t, "x", cfg.GetBotToken())
	assert.Equal(t, "m!", cfg.GetDefaultPrefix())
	assert.Equal(t, "./data/maxybot.db", cfg.GetDatabasePath())
}
