package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List capture sessions",
	Long:  `List all capture sessions, most recently used first, with their message counts.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.store.ListSessions()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

		for _, sess := range sessions {
			msgs, err := a.store.Messages(sess.ID, 0)
			if err != nil {
				return fmt.Errorf("failed to count messages: %w", err)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				idStyle.Render(strconv.FormatInt(sess.ID, 10)),
				sess.Name,
				countStyle.Render(strconv.Itoa(len(msgs))),
				dateStyle.Render(formatWhen(sess.UpdatedAt)),
			)
		}
		_ = w.Flush()

		fmt.Fprintln(out)
		fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("💡 Tip: Use `chat-rotator show %d` to read a session", sessions[0].ID)))
		return nil
	},
}

// formatWhen renders a timestamp relative to now, in local time
func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

// printMessageTable writes one row per message: id, service, label, time, preview
func printMessageTable(out io.Writer, msgs []internal.Message) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Service")+"\t"+titleStyle.Render("Label")+"\t"+titleStyle.Render("Detected")+"\t"+titleStyle.Render("Content")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, msg := range msgs {
		label := msg.Meta.Label
		if label == "" {
			label = "—"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(strconv.FormatInt(msg.ID, 10)),
			serviceStyle(msg.Service).Render(msg.Service),
			labelStyle.Render(label),
			dateStyle.Render(formatWhen(msg.DetectedAt)),
			internal.Preview(msg.Content, 50),
		)
	}
	_ = w.Flush()
}

// serviceStyle colors a service name; unknown and question rows are dimmed
func serviceStyle(service string) lipgloss.Style {
	switch service {
	case internal.UnknownService:
		return dateStyle
	case internal.QuestionService:
		return titleStyle
	default:
		return countStyle
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
