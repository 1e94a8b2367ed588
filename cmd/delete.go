package cmd

import (
	"fmt"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <message-id>",
	Short: "Delete a stored message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMessageID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.store.Get(id); err != nil {
			return err
		}
		if err := a.store.Delete(id); err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Deleted message %d", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
