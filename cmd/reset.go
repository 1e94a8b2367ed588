package cmd

import (
	"errors"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all messages and sessions",
	Long: `Delete every stored message and session. Registered services and
settings are kept. Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to delete all messages without --yes")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.ResetMessages(); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), "All messages and sessions deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm deletion")
}
