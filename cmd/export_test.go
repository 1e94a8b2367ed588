package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommand_InvalidFormat(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.run(t, "export", "--format", "invalid")
	assert.Error(t, err)
}

func TestExportCommand_StdoutJSONL(t *testing.T) {
	env := setupTestEnv(t)
	seedServices(t, env)

	out, err := env.run(t, "export", "--stdout", "--format", "jsonl", "service=Claude,Grok")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	// Query exports read oldest first
	assert.Equal(t, "Claude", first["service"])
}

func TestExportCommand_WritesFile(t *testing.T) {
	env := setupTestEnv(t)
	seedOne(t, env, "Gemini", "exported answer")
	outDir := filepath.Join(t.TempDir(), "exports")

	out, err := env.run(t, "export", "--format", "md", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Export complete: 1 message(s)")

	files, err := filepath.Glob(filepath.Join(outDir, "messages_*.md"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "exported answer")
	assert.Contains(t, string(data), "Gemini")
}

func TestExportCommand_AllFormats(t *testing.T) {
	env := setupTestEnv(t)
	env.seed(t, func(s *internal.Store, sessionID int64) {
		_, err := s.SaveQuestion(sessionID, "2026-02-18T14:23:15", "What is recursion?", "", "", "")
		require.NoError(t, err)
		_, err = s.Save(sessionID, internal.RoleAssistant, "Claude", "It calls itself", internal.MessageMeta{TS: "2026-02-18T14:23:15"}, "2026-02-18T14:23:15")
		require.NoError(t, err)
	})

	for _, format := range []string{"jsonl", "json", "yaml", "md"} {
		t.Run(format, func(t *testing.T) {
			out, err := env.run(t, "export", "--stdout", "--format", format)
			require.NoError(t, err)
			assert.Contains(t, out, "What is recursion?")
			assert.Contains(t, out, "It calls itself")
		})
	}
}
