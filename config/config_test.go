package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Postgres: PostgresConfig{Host: "localhost", DBName: "evento"},
		Listener: ListenerConfig{Channels: []string{"new_event"}, QueueSize: 16},
		WebSocket: WebSocketConfig{
			PingInterval: 30 * time.Second,
			PongWait:     60 * time.Second,
		},
		Notification: NotificationConfig{PreferenceEnforcement: "none"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing postgres host", func(c *Config) { c.Postgres.Host = "" }, true},
		{"missing dbname", func(c *Config) { c.Postgres.DBName = "" }, true},
		{"relay without redis host", func(c *Config) { c.Redis.RelayEnabled = true }, true},
		{"relay with redis host", func(c *Config) { c.Redis.RelayEnabled = true; c.Redis.Host = "redis" }, false},
		{"no listener channels", func(c *Config) { c.Listener.Channels = nil }, true},
		{"zero queue size", func(c *Config) { c.Listener.QueueSize = 0 }, true},
		{"leader lock without standby interval", func(c *Config) { c.Listener.LeaderLockKey = 42 }, true},
		{"leader lock with standby interval", func(c *Config) {
			c.Listener.LeaderLockKey = 42
			c.Listener.StandbyInterval = time.Second
		}, false},
		{"ping not shorter than pong", func(c *Config) { c.WebSocket.PingInterval = time.Minute }, true},
		{"unknown enforcement", func(c *Config) { c.Notification.PreferenceEnforcement = "strict" }, true},
		{"broadcast enforcement", func(c *Config) { c.Notification.PreferenceEnforcement = "broadcast" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetStringList(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"yaml list", []string{"new_event", "join_event"}, []string{"new_event", "join_event"}},
		{"comma separated", "new_event,join_event", []string{"new_event", "join_event"}},
		{"comma and space", "new_event, join_event ,event_change", []string{"new_event", "join_event", "event_change"}},
		{"space separated", "new_event join_event", []string{"new_event", "join_event"}},
		{"empty items dropped", "new_event,,", []string{"new_event"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set("listener.channels", tt.value)
			assert.Equal(t, tt.want, getStringList("listener.channels"))
		})
	}
}

func TestLoadReadsCommaSeparatedEnvLists(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("LISTENER_CHANNELS", "new_event,join_event")
	t.Setenv("WEBSOCKET_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"new_event", "join_event"}, cfg.Listener.Channels)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, int64(0x65766e74), cfg.Listener.LeaderLockKey)
}
