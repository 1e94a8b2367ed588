package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var captureHint string

var (
	savedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	duplicateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	blockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the clipboard once",
	Long: `Read the clipboard once and store it as an answer in today's session.

The service is taken from the tracking tag when present, otherwise from the
classifier patterns, otherwise from --hint, otherwise it is recorded as Unknown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		coord, err := a.coordinator(newTextChannel())
		if err != nil {
			return err
		}
		sess, err := a.store.GetOrCreateSession("")
		if err != nil {
			return err
		}
		coord.SetSession(sess.ID)

		hint := captureHint
		if hint == "" {
			hint = a.cfg.Hint
		}
		evt, err := coord.CaptureOnce(hint)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if evt == nil {
			internal.PrintInfo(out, "Nothing to capture (empty clipboard or an outgoing prompt)")
			return nil
		}
		printEvent(out, *evt)
		return nil
	},
}

// printEvent writes one capture outcome line
func printEvent(out io.Writer, evt internal.CaptureEvent) {
	when := timestampStyle.Render(evt.At.Format("15:04:05"))
	switch evt.Outcome {
	case internal.OutcomeSaved:
		fmt.Fprintf(out, "%s %s %s %s\n", when, savedStyle.Render("saved"), serviceStyle(evt.Service).Render(evt.Service), evt.Preview)
	case internal.OutcomeDuplicate:
		fmt.Fprintf(out, "%s %s %s %s\n", when, duplicateStyle.Render("duplicate"), serviceStyle(evt.Service).Render(evt.Service), evt.Preview)
	case internal.OutcomeBlocked:
		fmt.Fprintf(out, "%s %s sensitive content (%s) was not stored\n", when, blockedStyle.Render("blocked"), evt.Kind)
	}
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringVar(&captureHint, "hint", "", "Service to record when the text cannot be classified")
}
