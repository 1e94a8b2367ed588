package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDBPath, EnvPollInterval, EnvMode, EnvHint} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	paths := DataPaths{DataDir: t.TempDir()}

	cfg, err := LoadConfig("", paths)
	require.NoError(t, err)
	assert.Equal(t, paths.DBPath(), cfg.DBPath)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, ModeManual, cfg.CaptureMode())
	assert.Equal(t, paths.ConfigPath(), cfg.Path())
	assert.Equal(t, DefaultQuestionLen, cfg.Codec().QuestionLen)
}

func TestLoadConfig_File(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`db_path: /tmp/rotator.db
poll_interval: 2s
mode: continuous
hint: Grok
signature:
  question_len: 20
services:
  - name: Mistral
    type: browser
    patterns: ["Le Chat"]
`), 0644))

	cfg, err := LoadConfig(path, DataPaths{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rotator.db", cfg.DBPath)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, ModeContinuous, cfg.CaptureMode())
	assert.Equal(t, "Grok", cfg.Hint)
	assert.Equal(t, 20, cfg.Codec().QuestionLen)
	assert.Equal(t, DefaultServiceLen, cfg.Codec().ServiceLen)
	require.Len(t, cfg.Services, 1)
	assert.Equal(t, "Mistral", cfg.Services[0].Name)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(EnvDBPath, "/tmp/env.db")
	t.Setenv(EnvPollInterval, "250ms")
	t.Setenv(EnvMode, "continuous")
	t.Setenv(EnvHint, "Claude")

	cfg, err := LoadConfig("", DataPaths{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, ModeContinuous, cfg.CaptureMode())
	assert.Equal(t, "Claude", cfg.Hint)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		env  map[string]string
		file string
		path string
	}{
		{name: "missing explicit file", path: filepath.Join(dir, "nope.yaml")},
		{name: "bad duration", env: map[string]string{EnvPollInterval: "often"}},
		{name: "interval too short", env: map[string]string{EnvPollInterval: "10ms"}},
		{name: "bad mode", env: map[string]string{EnvMode: "sometimes"}},
		{name: "bad yaml", file: "mode: [", path: filepath.Join(dir, "bad.yaml")},
		{name: "bad service", file: "services:\n  - name: \"\"\n", path: filepath.Join(dir, "svc.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				require.NoError(t, os.WriteFile(tt.path, []byte(tt.file), 0644))
			}

			_, err := LoadConfig(tt.path, DataPaths{DataDir: dir})
			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestConfig_SaveCreatesDirectory(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	cfg := DefaultConfig(DataPaths{DataDir: dir})
	cfg.Hint = "Gemini"
	cfg.SetPath(filepath.Join(dir, "nested", "config.yaml"))

	require.NoError(t, cfg.Save())

	loaded, err := LoadConfig(cfg.Path(), DataPaths{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "Gemini", loaded.Hint)
	assert.Equal(t, DefaultPollInterval, loaded.PollInterval)
}
