package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, SourceUpstream, cfg.Source.Kind)
	assert.Equal(t, "/api/animals_sec/all-data", cfg.Source.Paths.AllData)
	assert.Equal(t, 15*time.Second, cfg.Source.Timeout)
	assert.Equal(t, CacheMemory, cfg.Cache.Kind)
	assert.Equal(t, "ar-EG", cfg.Render.Locale)
	assert.Equal(t, 15.0, cfg.Render.PieRadius)
	assert.Len(t, cfg.Render.Trend.Series, 5)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	yaml := `
server:
  port: ":9090"
source:
  kind: file
  snapshot_path: /tmp/snap.json
cache:
  kind: none
render:
  trend:
    series:
      - key: total
        label: Total
        color: "#000"
    rows:
      - year: "2030"
        values:
          total: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("ATLAS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Equal(t, "/tmp/snap.json", cfg.Source.SnapshotPath)
	assert.Equal(t, CacheNone, cfg.Cache.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Render.Trend.Series, 1)
	require.Len(t, cfg.Render.Trend.Rows, 1)
	assert.Equal(t, 5.0, cfg.Render.Trend.Rows[0].Values["total"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Source.Kind = "ftp"
	bad.Cache.Kind = "disk"
	bad.Log.Format = "xml"
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.kind")
	assert.Contains(t, err.Error(), "cache.kind")
	assert.Contains(t, err.Error(), "log.format")

	redis := *cfg
	redis.Cache.Kind = CacheRedis
	redis.Cache.RedisAddr = ""
	assert.Error(t, redis.Validate())
}
