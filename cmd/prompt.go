package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	promptRole            string
	promptFramework       string
	promptViewpoint       string
	promptCustomViewpoint string
	promptFormat          string
	promptExample         string
	promptPrint           bool
	promptNew             bool
)

// Settings that keep one question's tag timestamp while it is rotated across services
const (
	settingCurrentQuestion   = "current_question"
	settingCurrentQuestionTS = "current_question_ts"
)

var promptNow = time.Now

var promptCmd = &cobra.Command{
	Use:   "prompt <service> <question...>",
	Short: "Build a tagged prompt and copy it to the clipboard",
	Long: fmt.Sprintf(`Build a prompt for a service, append the tracking tag trailer, record the
question and copy the prompt to the clipboard for pasting into the service.

Asking the same question again, for another service, reuses its tag timestamp
so every answer pairs with one recorded question. Use --new to start over.

Frameworks: %s
Viewpoints: %s, custom
Formats:    %s`, optionKeys(internal.Frameworks), optionKeys(internal.Viewpoints), optionKeys(internal.OutputFormats)),
	Example: `  chat-rotator prompt Claude "What is recursion?"
  chat-rotator prompt Gemini "Should we rewrite the billing service?" --framework swot --format table`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := strings.TrimSpace(args[0])
		question := strings.TrimSpace(strings.Join(args[1:], " "))
		if question == "" {
			return fmt.Errorf("a question is required")
		}

		req := internal.PromptRequest{
			Base:            question,
			Role:            promptRole,
			Framework:       promptFramework,
			Viewpoint:       promptViewpoint,
			CustomViewpoint: promptCustomViewpoint,
			Format:          promptFormat,
			Example:         promptExample,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.registry.Get(service); err != nil {
			internal.LogWarn("Service %s is not registered; answers may be attributed to it only through the tag", service)
		}

		sess, err := a.store.GetOrCreateSession("")
		if err != nil {
			return err
		}

		ts, err := questionTimestamp(a.store, question, promptNew)
		if err != nil {
			return err
		}
		codec := a.cfg.Codec()
		text := codec.Embed(internal.BuildPrompt(req), service, question, ts)

		id, err := a.store.SaveQuestion(sess.ID, ts, question, promptFramework, promptViewpoint, promptFormat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if promptPrint {
			fmt.Fprintln(out, text)
		} else {
			if err := newTextChannel().Write(text); err != nil {
				return fmt.Errorf("failed to copy prompt: %w", err)
			}
			internal.PrintSuccess(out, fmt.Sprintf("Prompt for %s copied to the clipboard", service))
		}
		fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("Question #%d %s", id, codec.NewSignature(service, question, ts).Tag())))
		return nil
	},
}

// questionTimestamp returns the tag timestamp of the current question when
// question matches it, otherwise mints and remembers a new one.
func questionTimestamp(store *internal.Store, question string, fresh bool) (string, error) {
	if !fresh {
		current, err := store.GetSetting(settingCurrentQuestion, "")
		if err != nil {
			return "", err
		}
		ts, err := store.GetSetting(settingCurrentQuestionTS, "")
		if err != nil {
			return "", err
		}
		if current == question && ts != "" {
			return ts, nil
		}
	}

	ts := internal.TagTimestamp(promptNow())
	if err := store.SetSetting(settingCurrentQuestion, question); err != nil {
		return "", err
	}
	if err := store.SetSetting(settingCurrentQuestionTS, ts); err != nil {
		return "", err
	}
	return ts, nil
}

func optionKeys(options []internal.PromptOption) string {
	keys := make([]string, 0, len(options))
	for _, o := range options {
		keys = append(keys, o.Key)
	}
	return strings.Join(keys, ", ")
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVar(&promptRole, "role", "", "Expert role the service should answer as")
	promptCmd.Flags().StringVar(&promptFramework, "framework", "", "Thinking framework")
	promptCmd.Flags().StringVar(&promptViewpoint, "viewpoint", "", "Viewpoint to answer from")
	promptCmd.Flags().StringVar(&promptCustomViewpoint, "custom-viewpoint", "", "Free-form viewpoint, used with --viewpoint custom")
	promptCmd.Flags().StringVar(&promptFormat, "format", "", "Output format")
	promptCmd.Flags().StringVar(&promptExample, "example", "", "Example of an ideal answer")
	promptCmd.Flags().BoolVar(&promptPrint, "print", false, "Print the prompt instead of copying it")
	promptCmd.Flags().BoolVar(&promptNew, "new", false, "Start a new question even if the text is unchanged")
}
