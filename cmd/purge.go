package cmd

import (
	"fmt"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	purgeSession int64
	purgeDryRun  bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge-unknown",
	Short: "Delete unlabeled messages from unknown services",
	Long: `Delete every message whose service is Unknown and that has no label.
Label a message first to keep it. Use --session to limit the purge to one
session and --dry-run to only count.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if purgeDryRun {
			n, err := a.store.CountUnknown(purgeSession)
			if err != nil {
				return err
			}
			internal.PrintInfo(out, fmt.Sprintf("%d unlabeled Unknown message(s) would be deleted", n))
			return nil
		}

		n, err := a.store.DeleteUnknown(purgeSession)
		if err != nil {
			return err
		}
		internal.PrintSuccess(out, fmt.Sprintf("Deleted %d unlabeled Unknown message(s)", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().Int64Var(&purgeSession, "session", 0, "Only purge this session (0 = all sessions)")
	purgeCmd.Flags().BoolVar(&purgeDryRun, "dry-run", false, "Count without deleting")
}
