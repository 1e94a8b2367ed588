package cmd

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/iksnae/chat-rotator/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowCommand(t *testing.T) {
	env := setupTestEnv(t)
	t.Setenv(internal.EnvMode, "continuous")

	out, err := env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "mode: continuous")
	assert.Contains(t, out, "poll_interval: 800ms")
	assert.Contains(t, out, "db_path: "+env.db)
}

func TestConfigInitCommand(t *testing.T) {
	env := setupTestEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, err := env.run(t, "config", "init", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, cfgFile), "question_len: 50")

	_, err = env.run(t, "config", "init", "--config", cfgFile)
	assert.Error(t, err, "existing file needs --force")

	_, err = env.run(t, "config", "init", "--config", cfgFile, "--force")
	assert.NoError(t, err)
}

func TestConfigCommand_InvalidFile(t *testing.T) {
	env := setupTestEnv(t)
	cfgFile := testutil.WriteFile(t, t.TempDir(), "config.yaml", "mode: sometimes\n")

	_, err := env.run(t, "config", "show", "--config", cfgFile)
	assert.Error(t, err)
}

func TestHealthcheckCommand(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "healthcheck", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "Data directory detected")
	assert.Contains(t, out, "Database ready (0 message(s))")
	assert.Contains(t, out, "6 service(s), 4 enabled")
	assert.Contains(t, out, "Classifier order: [Claude Gemini Grok ChatGPT]")
}

func TestHealthcheckCommand_BadConfig(t *testing.T) {
	env := setupTestEnv(t)
	cfgFile := testutil.WriteFile(t, t.TempDir(), "config.yaml", "poll_interval: 1ms\n")

	_, err := env.run(t, "healthcheck", "--config", cfgFile)
	assert.Error(t, err)
}
