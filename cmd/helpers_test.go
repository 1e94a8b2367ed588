package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/iksnae/chat-rotator/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// testEnv isolates a command run: its own data dir, database and clipboard
type testEnv struct {
	db      string
	channel *testutil.FakeChannel
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())
	testutil.ClearEnv(t, internal.EnvDBPath, internal.EnvPollInterval, internal.EnvMode, internal.EnvHint)

	env := &testEnv{
		db:      testutil.TempDBPath(t),
		channel: testutil.NewFakeChannel(""),
	}
	orig := newTextChannel
	newTextChannel = func() internal.TextChannel { return env.channel }
	t.Cleanup(func() { newTextChannel = orig })
	return env
}

// run executes the root command against the env's database
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommand(strings.NewReader(""), append(args, "--db", e.db)...)
}

// store opens the env's database directly; callers close it
func (e *testEnv) store(t *testing.T) *internal.Store {
	t.Helper()
	db, err := internal.OpenDatabase(e.db)
	require.NoError(t, err)
	return internal.NewStore(db, e.db)
}

// seed writes fixtures into today's session and closes the store again
func (e *testEnv) seed(t *testing.T, fn func(s *internal.Store, sessionID int64)) {
	t.Helper()
	s := e.store(t)
	sess, err := s.GetOrCreateSession("")
	require.NoError(t, err)
	fn(s, sess.ID)
	require.NoError(t, s.Close())
}

func executeCommand(in io.Reader, args ...string) (string, error) {
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(in)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps values between runs
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
