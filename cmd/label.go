package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var labelClear bool

var labelCmd = &cobra.Command{
	Use:   "label <message-id> [label]",
	Short: "Set or clear the label of a message",
	Long: fmt.Sprintf(`Set the label of a stored message, or clear it with --clear.

Labels: %s`, strings.Join(labelKeys(), ", ")),
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMessageID(args[0])
		if err != nil {
			return err
		}

		label := ""
		switch {
		case labelClear && len(args) == 2:
			return fmt.Errorf("give a label or --clear, not both")
		case !labelClear && len(args) == 1:
			return fmt.Errorf("a label is required (one of %s)", strings.Join(labelKeys(), ", "))
		case !labelClear:
			label = args[1]
			if label == internal.LabelQuestion || !internal.IsKnownLabel(label) {
				return fmt.Errorf("unknown label %q (one of %s)", label, strings.Join(labelKeys(), ", "))
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.store.Get(id); err != nil {
			return err
		}
		if err := a.store.SetLabel(id, label); err != nil {
			return err
		}

		if label == "" {
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Cleared label of message %d", id))
		} else {
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Labeled message %d as %s", id, label))
		}
		return nil
	},
}

func labelKeys() []string {
	keys := make([]string, 0, len(internal.Labels))
	for _, l := range internal.Labels {
		keys = append(keys, l.Key)
	}
	return keys
}

func parseMessageID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid message id %q", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.Flags().BoolVar(&labelClear, "clear", false, "Remove the label")
}
