package config

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/qcss/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultManifestPath, cfg.Manifest.Path)
	assert.Equal(t, "q-id", cfg.Attributes.ID)
	assert.Equal(t, "data-ref", cfg.Attributes.Ref)
	assert.Equal(t, "key", cfg.Attributes.Key)
	assert.Equal(t, 300*time.Millisecond, cfg.FlipDuration())
	assert.Equal(t, DefaultFlipEasing, cfg.Flip.Easing)
	assert.Equal(t, DefaultMaxDepth, cfg.Reactive.MaxDepth)
	assert.Equal(t, "localhost:4300", cfg.PreviewAddress())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	require.Error(t, err)
	var qe *errors.QError
	require.True(t, stderrors.As(err, &qe))
	assert.Equal(t, "E123", qe.Code)

	writeConfig(t, dir, `{
  "manifest": {"path": "build/manifest.yaml", "watch": true},
  "attributes": {"id": "data-qid"},
  "flip": {"duration": "150ms"},
  "preview": {"port": 9000}
}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "build", "manifest.yaml"), cfg.ManifestPath())
	assert.True(t, cfg.Manifest.Watch)
	assert.Equal(t, "data-qid", cfg.Attributes.ID)
	assert.Equal(t, "data-ref", cfg.Attributes.Ref, "unset fields get defaults")
	assert.Equal(t, 150*time.Millisecond, cfg.FlipDuration())
	assert.Equal(t, 9000, cfg.Preview.Port)
	assert.Equal(t, filepath.Join(dir, "pages"), cfg.PagesPath())
	assert.Equal(t, dir, cfg.Dir())
	assert.False(t, cfg.UsesS3())
}

func TestLoadSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "{\n  \"manifest\": {\"path\": }\n}")

	_, err := LoadFile(path)
	require.Error(t, err)

	var qe *errors.QError
	require.True(t, stderrors.As(err, &qe))
	assert.Equal(t, "E120", qe.Code)
	require.NotNil(t, qe.Location)
	assert.Equal(t, 2, qe.Location.Line)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"preview": {"port": 9000}}`)

	t.Setenv("QCSS_PREVIEW_PORT", "9100")
	t.Setenv("QCSS_MANIFEST_S3_BUCKET", "assets")
	t.Setenv("QCSS_ATTR_KEY", "data-key")
	t.Setenv("QCSS_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Preview.Port)
	assert.True(t, cfg.UsesS3())
	assert.Equal(t, DefaultManifestPath, cfg.Manifest.S3.Key, "S3 key defaults to the manifest path")
	assert.Equal(t, "data-key", cfg.Attributes.Key)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestEnvOverrideBadType(t *testing.T) {
	t.Setenv("QCSS_PREVIEW_PORT", "not-a-port")

	_, err := LoadOrDefault(t.TempDir())
	require.Error(t, err)
	var qe *errors.QError
	require.True(t, stderrors.As(err, &qe))
	assert.Equal(t, "E121", qe.Code)
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QCSS_MANIFEST_PATH", "m.json")

	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "m.json"), cfg.ManifestPath())
	assert.False(t, Exists(dir))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Preview.Port = 70000 }},
		{"bad duration", func(c *Config) { c.Flip.Duration = "fast" }},
		{"negative depth", func(c *Config) { c.Reactive.MaxDepth = -1 }},
		{"bad attribute", func(c *Config) { c.Attributes.ID = "q id" }},
		{"bad manifest format", func(c *Config) { c.Manifest.Format = "toml" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "E122")
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Preview.Port = 5000

	require.Error(t, cfg.Save(), "Save without a path fails")

	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, cfg.SaveTo(path))
	assert.Equal(t, path, cfg.Path())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, loaded.Preview.Port)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json handler output: %s", out)
	assert.Contains(t, out, `"k":"v"`)
}
