package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Filter stored messages",
	Long: `Filter stored messages with a token query, newest first.

Tokens are AND-combined:
  service=Claude,Gemini     service contains Claude OR Gemini
  service=!Grok             service does not contain Grok (empty service passes)
  label= content= source= date=
  recursion                 content contains "recursion"
  !draft                    content does not contain "draft"

Matching is a case-insensitive substring match.`,
	Example: `  chat-rotator search service=Claude recursion
  chat-rotator search label=!question date=2026-02-18`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		query := strings.Join(args, " ")
		msgs, err := a.store.Search(query, searchLimit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(msgs) == 0 {
			fmt.Fprintln(out, headerStyle.Render("🔎 No matching messages"))
			return nil
		}
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔎 %d matching message(s)", len(msgs))))
		fmt.Fprintln(out)
		printMessageTable(out, msgs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", internal.DefaultSearchLimit, "Maximum number of results")
}
