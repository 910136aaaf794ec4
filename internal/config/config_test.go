package config

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/abacus/pkg/adapters/file"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/adapters/redis"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.Session.LockTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault("")

	assert.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFs_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	yml := `
log:
  level: debug
server:
  addr: ":9090"
  shutdown_timeout: 10s
store:
  driver: file
  dir: /tmp/sessions
`
	require.NoError(t, afero.WriteFile(fs, "abacus.yaml", []byte(yml), 0o644))

	cfg, err := LoadFs(fs, "abacus.yaml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "/tmp/sessions", cfg.Store.Dir)

	// Untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
}

func TestLoadFs_UnknownKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("store:\n  drvier: file\n"), 0o644))

	_, err := LoadFs(fs, "bad.yaml")
	assert.Error(t, err)
}

func TestLoadFs_MissingFile(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs(), "missing.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "abacus.yaml", []byte("server:\n  addr: \":9090\"\n"), 0o644))

	t.Setenv("ABACUS_SERVER_ADDR", ":7070")
	t.Setenv("ABACUS_LOG_LEVEL", "warn")
	t.Setenv("ABACUS_STORE_TTL", "1h")
	t.Setenv("ABACUS_SESSION_LOCK_TTL", "5s")
	t.Setenv("ABACUS_METRICS_ENABLED", "false")

	cfg, err := LoadFs(fs, "abacus.yaml")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, 5*time.Second, cfg.Session.LockTTL)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }},
		{"redis without url", func(c *Config) { c.Store.Driver = DriverRedis }},
		{"file without dir", func(c *Config) { c.Store.Driver = DriverFile; c.Store.Dir = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"distributed without redis", func(c *Config) { c.Session.Distributed = true }},
		{"short encryption key", func(c *Config) { c.Store.EncryptionKey = "c2hvcnQ=" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "info", Format: "json"}.Logger(&buf)
	logger.Info("hello", "error", "x")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"err":"x"`)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	store, closeFn, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, closeFn())

	cfg.Store.Driver = DriverFile
	cfg.Store.Dir = t.TempDir()
	store, _, err = cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store)

	mr := miniredis.RunT(t)
	cfg.Store.Driver = DriverRedis
	cfg.Store.RedisURL = "redis://" + mr.Addr()
	store, closeFn, err = cfg.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &redis.Store{}, store)
	assert.NoError(t, closeFn())
}

func TestOpenStore_Encrypted(t *testing.T) {
	ctx := context.Background()
	cfg := Default()
	cfg.Store.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	store, _, err := cfg.OpenStore(ctx)
	require.NoError(t, err)

	state := domain.NewState("secret")
	state.CurrentValue = "42"
	require.NoError(t, store.Save(ctx, "secret", state))

	loaded, err := store.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", loaded.CurrentValue)
}

func TestOpenSessions_Distributed(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := Default()
	cfg.Store.Driver = DriverRedis
	cfg.Store.RedisURL = "redis://" + mr.Addr()
	cfg.Session.Distributed = true

	sessions, err := cfg.OpenSessions(context.Background(), nil)
	require.NoError(t, err)
	defer sessions.Close()

	err = sessions.Manager.WithLock(context.Background(), "s1", func(ctx context.Context) error {
		assert.True(t, mr.Exists("abacus:session:lock:s1"))
		return nil
	})
	require.NoError(t, err)
}
