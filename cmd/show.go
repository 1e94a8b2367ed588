package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	showLimit   int
	showMessage int64
	showRender  bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the messages of a session",
	Long: `Display the questions and captured answers of a session, oldest first.

Without a session ID the most recently used session is shown. Answers that
carried a tracking tag are printed with the question they answer.
Use --message to print a single message in full and --render to format
answers as Markdown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()

		if showMessage > 0 {
			msg, err := a.store.Get(showMessage)
			if err != nil {
				return err
			}
			printMessage(out, a.store, *msg, map[string]*internal.Message{})
			return nil
		}

		var sess *internal.Session
		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			if sess, err = a.store.GetSession(id); err != nil {
				return err
			}
		} else {
			sessions, err := a.store.ListSessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
				return nil
			}
			sess = &sessions[0]
		}

		msgs, err := a.store.Messages(sess.ID, showLimit)
		if err != nil {
			return fmt.Errorf("failed to load messages: %w", err)
		}

		fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", sess.Name)))
		fmt.Fprintln(out, sessionMetaStyle.Render(fmt.Sprintf("Session %d · %d message(s) · created %s",
			sess.ID, len(msgs), sess.CreatedAt.Local().Format("2006-01-02 15:04"))))

		questions := make(map[string]*internal.Message)
		for _, msg := range msgs {
			printMessage(out, a.store, msg, questions)
		}
		return nil
	},
}

// printMessage renders one message. Replies with a tag timestamp are paired
// with their question, preferring the one the tag's question text names;
// lookups are cached in questions by timestamp and question text.
func printMessage(out io.Writer, store *internal.Store, msg internal.Message, questions map[string]*internal.Message) {
	when := timestampStyle.Render(msg.DetectedAt.Local().Format("15:04:05"))

	if msg.IsQuestion() {
		fmt.Fprintf(out, "%s %s %s\n", userMessageStyle.Render(fmt.Sprintf("❓ #%d Question", msg.ID)), when, timestampStyle.Render(msg.TS))
		fmt.Fprintln(out, messageContentStyle.Render(msg.Content))
		return
	}

	header := fmt.Sprintf("🤖 #%d %s", msg.ID, msg.Service)
	if msg.Meta.Label != "" {
		header += " [" + msg.Meta.Label + "]"
	}
	fmt.Fprintf(out, "%s %s\n", assistantMessageStyle.Render(header), when)

	if msg.TS != "" {
		key := msg.TS + "\x00" + msg.Meta.Question
		q, ok := questions[key]
		if !ok {
			found, err := store.FindQuestion(msg.TS, msg.Meta.Question)
			if err != nil && !errors.Is(err, internal.ErrNotFound) {
				internal.LogWarn("Failed to look up question for %s: %v", msg.TS, err)
			}
			q = found
			questions[key] = q
		}
		if q != nil {
			fmt.Fprintln(out, timestampStyle.Render(fmt.Sprintf("   ↳ answers #%d: %s", q.ID, internal.Preview(q.Content, 60))))
		}
	}
	fmt.Fprintln(out, renderContent(msg.Content))
}

// renderContent formats a reply body, through glamour when --render is set.
// Rendering failures fall back to the plain body.
func renderContent(content string) string {
	if !showRender {
		return messageContentStyle.Render(content)
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		internal.LogDebug("Markdown renderer unavailable: %v", err)
		return messageContentStyle.Render(content)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		internal.LogDebug("Markdown rendering failed: %v", err)
		return messageContentStyle.Render(content)
	}
	return rendered
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Limit number of messages to show (0 = all)")
	showCmd.Flags().Int64Var(&showMessage, "message", 0, "Show a single message by ID")
	showCmd.Flags().BoolVar(&showRender, "render", false, "Render answers as Markdown")
}
