package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 2*time.Second, cfg.Delay.Dial)
	assert.Equal(t, 1500*time.Millisecond, cfg.Delay.Select)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "ussdsim:session:", cfg.Redis.Prefix)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "Slot 1", cfg.Console.SIM)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ussdsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
delay:
  dial: 100ms
  select: 250ms
redis:
  addr: localhost:6379
`), 0o644))

	t.Setenv("USSDSIM_SELECT_DELAY", "0s")
	t.Setenv("USSDSIM_HTTP_ADDR", "127.0.0.1:9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay.Dial)
	assert.Equal(t, time.Duration(0), cfg.Delay.Select, "environment overrides the file")
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.NotNil(t, cfg.Logger())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("USSDSIM_LOG_LEVEL", "chatty")
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUsage(t *testing.T) {
	assert.Contains(t, Usage(), "USSDSIM_DIAL_DELAY")
}
