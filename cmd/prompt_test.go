package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptCommand_CopiesTaggedPrompt(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "prompt", "Claude", "What", "is", "recursion?", "--framework", "prep")
	require.NoError(t, err)
	assert.Contains(t, out, "copied to the clipboard")

	writes := env.channel.Writes()
	require.Len(t, writes, 1)
	prompt := writes[0]
	assert.True(t, internal.IsOutboundPrompt(prompt))
	assert.Contains(t, prompt, "PREP")

	sig, ok := internal.ExtractSignature(prompt)
	require.True(t, ok)
	assert.Equal(t, "Claude", sig.Service)
	assert.Equal(t, "What is recursion?", sig.Question)

	s := env.store(t)
	defer s.Close()
	q, err := s.FindQuestion(sig.Timestamp, "What is")
	require.NoError(t, err)
	assert.Equal(t, "What is recursion?", q.Content)
	assert.Equal(t, "prep", q.Meta.Framework)
}

func TestPromptCommand_PrintDoesNotTouchClipboard(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "prompt", "Gemini", "Compare REST and gRPC", "--print", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, internal.TrailerPhrase)
	assert.Contains(t, out, "Markdown table")
	assert.Empty(t, env.channel.Writes())
}

func TestPromptCommand_InvalidOption(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.run(t, "prompt", "Claude", "question", "--framework", "nope")
	assert.Error(t, err)
	assert.Empty(t, env.channel.Writes())
}

func TestPromptThenCapture_PairsAnswerWithQuestion(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.run(t, "prompt", "Gemini", "What is a closure?")
	require.NoError(t, err)
	sig, ok := internal.ExtractSignature(env.channel.Writes()[0])
	require.True(t, ok)

	// The service copies the tag line back as the first line of its answer
	env.channel.Set(sig.Tag() + "\nA closure captures variables from its enclosing scope.")
	out, err := env.run(t, "capture")
	require.NoError(t, err)
	assert.Contains(t, out, "saved")

	out, err = env.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Question")
	assert.Contains(t, out, "Gemini")
	assert.Contains(t, out, "answers #1")
	assert.True(t, strings.Contains(out, "A closure captures variables"))
}

// stepClock makes each prompt run one minute after the previous one
func stepClock(t *testing.T) {
	t.Helper()
	next := time.Date(2026, 2, 18, 14, 23, 15, 0, time.Local)
	orig := promptNow
	promptNow = func() time.Time {
		next = next.Add(time.Minute)
		return next
	}
	t.Cleanup(func() { promptNow = orig })
}

func TestPromptCommand_RotationSharesQuestion(t *testing.T) {
	env := setupTestEnv(t)
	stepClock(t)

	for _, service := range []string{"Claude", "Gemini", "Grok"} {
		_, err := env.run(t, "prompt", service, "What is a closure?")
		require.NoError(t, err)
	}

	writes := env.channel.Writes()
	require.Len(t, writes, 3)
	var stamps []string
	for _, w := range writes {
		sig, ok := internal.ExtractSignature(w)
		require.True(t, ok)
		stamps = append(stamps, sig.Timestamp)
	}
	assert.Equal(t, stamps[0], stamps[1])
	assert.Equal(t, stamps[0], stamps[2])

	s := env.store(t)
	defer s.Close()
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Questions)
}

func TestPromptCommand_NewQuestionGetsNewTimestamp(t *testing.T) {
	env := setupTestEnv(t)
	stepClock(t)

	_, err := env.run(t, "prompt", "Claude", "What is a closure?")
	require.NoError(t, err)
	_, err = env.run(t, "prompt", "Claude", "What is a monad?")
	require.NoError(t, err)
	_, err = env.run(t, "prompt", "Gemini", "What is a monad?", "--new")
	require.NoError(t, err)

	writes := env.channel.Writes()
	require.Len(t, writes, 3)
	seen := map[string]bool{}
	for _, w := range writes {
		sig, ok := internal.ExtractSignature(w)
		require.True(t, ok)
		seen[sig.Timestamp] = true
	}
	assert.Len(t, seen, 3)

	s := env.store(t)
	defer s.Close()
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Questions)
}
