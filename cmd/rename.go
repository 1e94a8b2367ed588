package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <message-id> <service>",
	Short: "Reassign a message to another service",
	Long: `Change the service recorded on a message, typically to fix an answer
captured as Unknown. The name does not have to be a registered service.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMessageID(args[0])
		if err != nil {
			return err
		}
		service := strings.TrimSpace(args[1])
		if err := internal.ValidateServiceName(service); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		msg, err := a.store.Get(id)
		if err != nil {
			return err
		}
		if msg.IsQuestion() {
			return fmt.Errorf("message %d is a question and has no service", id)
		}
		if err := a.store.UpdateService(id, service); err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Message %d: %s → %s", id, msg.Service, service))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
