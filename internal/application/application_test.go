package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/objwire/pkg/config"
	zlog "github.com/lk2023060901/objwire/pkg/log"
	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "objwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	path, err := ResolveConfigPath(nil)
	require.NoError(t, err)
	assert.Equal(t, "", path)

	t.Setenv(ConfigPathEnv, "/etc/objwire/env.yaml")
	path, err = ResolveConfigPath(nil)
	require.NoError(t, err)
	assert.Equal(t, "/etc/objwire/env.yaml", path)

	path, err = ResolveConfigPath([]string{"encode", "--config", "a.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", path)

	path, err = ResolveConfigPath([]string{"--config=b.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "b.yaml", path)

	_, err = ResolveConfigPath([]string{"--config"})
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}

func TestRun(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	path := writeConfig(t, `
io:
  buffer-size: 1024
  stats-written: true
log:
  level: warn
logging:
  wire:
    level: debug
    stdout: true
`)

	app := New()
	require.NoError(t, app.Run([]string{"--config", path}))

	cfg := app.Config()
	assert.Equal(t, 1024, cfg.IO.BufferSize)
	assert.Equal(t, config.DefaultArrayChunk, cfg.IO.ArrayChunk)
	assert.True(t, cfg.IO.StatsWritten)
	assert.Equal(t, "warn", zlog.GetLevel().String())

	assert.NotNil(t, app.Logger("wire"))
	assert.NotNil(t, app.Logger("unknown"))
}

func TestRunMissingFile(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	err := New().Run([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, merr.ErrIoFailed)
}

func TestConfigBeforeRun(t *testing.T) {
	assert.Equal(t, config.Default(), New().Config().IO)
}
