package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				Server: ServerConfig{Addr: ":8080"},
				Player: PlayerConfig{NotificationTimeoutMs: 500},
				Observers: []ObserverConfig{
					{Type: "log", Settings: map[string]any{"level": "info"}},
				},
			},
			wantErr: false,
		},
		{
			name: "missing server addr",
			config: Config{
				Player: PlayerConfig{NotificationTimeoutMs: 500},
			},
			wantErr: true,
			errMsg:  "Addr",
		},
		{
			name: "notification timeout too small",
			config: Config{
				Server: ServerConfig{Addr: ":8080"},
				Player: PlayerConfig{NotificationTimeoutMs: 1},
			},
			wantErr: true,
			errMsg:  "NotificationTimeoutMs",
		},
		{
			name: "notification timeout too large",
			config: Config{
				Server: ServerConfig{Addr: ":8080"},
				Player: PlayerConfig{NotificationTimeoutMs: 60000},
			},
			wantErr: true,
			errMsg:  "NotificationTimeoutMs",
		},
		{
			name: "observer without type",
			config: Config{
				Server: ServerConfig{Addr: ":8080"},
				Player: PlayerConfig{NotificationTimeoutMs: 500},
				Observers: []ObserverConfig{
					{Settings: map[string]any{"level": "info"}},
				},
			},
			wantErr: true,
			errMsg:  "Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 500, cfg.Player.NotificationTimeoutMs)
	assert.Equal(t, 500*time.Millisecond, cfg.NotificationTimeout())
	assert.Equal(t, uint64(0), cfg.Player.ShuffleSeed)
	assert.False(t, cfg.ControlEnabled())
	assert.Empty(t, cfg.Observers)
}

func TestParse_FullDocument(t *testing.T) {
	data := []byte(`
server:
  addr: ":9090"
  hooks:
    on_started: ["echo started"]
    on_stopped: ["echo stopped"]
control:
  token: secret
player:
  shuffle_seed: 42
  notification_timeout_ms: 250
observers:
  - type: log
    settings:
      level: debug
  - type: hook
    settings:
      command: "echo $PODPLAYER_TITLE"
      events: [play, play_list]
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"echo started"}, cfg.Server.Hooks.OnStarted)
	assert.Equal(t, []string{"echo stopped"}, cfg.Server.Hooks.OnStopped)
	assert.True(t, cfg.ControlEnabled())
	assert.Equal(t, uint64(42), cfg.Player.ShuffleSeed)
	assert.Equal(t, 250*time.Millisecond, cfg.NotificationTimeout())
	require.Len(t, cfg.Observers, 2)
	assert.Equal(t, "log", cfg.Observers[0].Type)
	assert.Equal(t, "debug", cfg.Observers[0].Settings["level"])
	assert.Equal(t, "hook", cfg.Observers[1].Type)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("player: [not, a, map]"))
	assert.Error(t, err)

	_, err = Parse([]byte("player:\n  notification_timeout_ms: 5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("PODPLAYER_CONTROL_TOKEN", "from-env")
	t.Setenv("PODPLAYER_ADDR", ":7070")

	cfg, err := Parse([]byte("control:\n  token: from-file\nserver:\n  addr: \":8081\""))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Control.Token)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":1234\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Server.Addr)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "config", "server.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.NotificationTimeout())
	require.Len(t, cfg.Observers, 1)
	assert.Equal(t, "log", cfg.Observers[0].Type)
}
