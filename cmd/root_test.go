package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/chat-rotator/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{
			name: "version flag",
			args: []string{"--version"},
			want: "dev",
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: "chat-rotator",
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(strings.NewReader(""), tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRootCommand_RegistersCommands(t *testing.T) {
	want := []string{
		"capture", "config", "delete", "export", "healthcheck", "label", "list",
		"prompt", "purge-unknown", "rename", "reset", "search", "services", "show", "stats", "watch",
	}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "command %s not registered", name)
	}
}

func TestOpenApp_ConfigServicesOverrideRegistry(t *testing.T) {
	env := setupTestEnv(t)
	cfgFile := testutil.WriteFile(t, t.TempDir(), "config.yaml", `
services:
  - name: Mistral
    type: browser
    url: https://chat.mistral.ai
    enabled: true
    patterns: ["le chat"]
`)

	out, err := env.run(t, "services", "list", "--config", cfgFile)
	assert.NoError(t, err)
	assert.Contains(t, out, "Mistral")
	assert.Contains(t, out, "https://chat.mistral.ai")
}
