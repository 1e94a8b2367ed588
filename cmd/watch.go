package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

// settingCaptureMode persists the last mode chosen in watch
const settingCaptureMode = "capture_mode"

var (
	watchMode     string
	watchInterval time.Duration
	watchHint     string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture answers from the clipboard as you copy them",
	Long: `Start a capture session on today's session.

In continuous mode the clipboard is checked every poll interval and each new
text is stored. In manual mode nothing is read until you press Enter.
Text already on the clipboard when watch starts is never captured.

Keys (followed by Enter):
  (empty)  capture now
  m        switch between manual and continuous
  s        show capture statistics
  q        quit`,
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

		mode, err := resolveWatchMode(a)
		if err != nil {
			return err
		}
		coord.SetMode(mode)
		if watchInterval > 0 {
			coord.SetInterval(watchInterval)
		}
		if watchHint != "" {
			coord.SetHint(watchHint)
		}

		sess, err := a.store.GetOrCreateSession("")
		if err != nil {
			return err
		}
		coord.StartSession(sess.ID)

		if err := coord.Start(); err != nil {
			return err
		}
		defer coord.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("👀 Watching the clipboard for %s (%s)", sess.Name, coord.Mode())))
		fmt.Fprintln(out, idStyle.Render("Enter = capture · m = switch mode · s = stats · q = quit"))

		return runWatchLoop(ctx, out, cmd.InOrStdin(), a, coord)
	},
}

// resolveWatchMode picks the --mode flag, then the last saved mode, then the config
func resolveWatchMode(a *app) (internal.Mode, error) {
	if watchMode != "" {
		return internal.ParseMode(watchMode)
	}
	saved, err := a.store.GetSetting(settingCaptureMode, "")
	if err != nil {
		return internal.ModeManual, err
	}
	if saved != "" {
		if m, err := internal.ParseMode(saved); err == nil {
			return m, nil
		}
		internal.LogWarn("Ignoring stored capture mode %q", saved)
	}
	return a.cfg.CaptureMode(), nil
}

// readLines forwards input lines until in is exhausted or ctx is done. A
// reader blocked in Scan only returns once in is closed, so callers close it.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func runWatchLoop(ctx context.Context, out io.Writer, in io.Reader, a *app, coord *internal.CaptureCoordinator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if c, ok := in.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				internal.LogDebug("Failed to close watch input: %v", err)
			}
		}()
	}
	lines := readLines(ctx, in)

	// finish stops the loop first so events from an in-flight cycle are printed
	finish := func() error {
		coord.Stop()
		drainEvents(out, coord)
		printCaptureStats(out, coord.Stats())
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return finish()

		case evt := <-coord.Events():
			printEvent(out, evt)

		case line, ok := <-lines:
			if !ok {
				// Input closed: a continuous watch keeps going until interrupted
				if coord.Mode() == internal.ModeContinuous {
					lines = nil
					continue
				}
				return finish()
			}

			switch strings.ToLower(strings.TrimSpace(line)) {
			case "":
				evt, err := coord.CaptureOnce(coord.Hint())
				if err != nil {
					internal.PrintError(out, err.Error())
					continue
				}
				if evt == nil {
					internal.PrintInfo(out, "Nothing new on the clipboard")
				}
				drainEvents(out, coord)
			case "m":
				next := internal.ModeContinuous
				if coord.Mode() == internal.ModeContinuous {
					next = internal.ModeManual
				}
				coord.SetMode(next)
				if err := a.store.SetSetting(settingCaptureMode, next.String()); err != nil {
					internal.LogWarn("Failed to save capture mode: %v", err)
				}
				internal.PrintInfo(out, fmt.Sprintf("Mode: %s", next))
			case "s":
				printCaptureStats(out, coord.Stats())
			case "q":
				return finish()
			default:
				internal.PrintWarning(out, fmt.Sprintf("Unknown key %q", line))
			}
		}
	}
}

// drainEvents prints events already buffered without waiting for more
func drainEvents(out io.Writer, coord *internal.CaptureCoordinator) {
	for {
		select {
		case evt := <-coord.Events():
			printEvent(out, evt)
		default:
			return
		}
	}
}

func printCaptureStats(out io.Writer, s internal.CaptureStats) {
	fmt.Fprintln(out, idStyle.Render(fmt.Sprintf(
		"detected %d · saved %d · duplicate %d · unknown %d · matched %d · blocked %d",
		s.Detected, s.Saved, s.Duplicate, s.Unknown, s.Matched, s.Blocked,
	)))
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchMode, "mode", "", "Capture mode (manual, continuous); defaults to the last used mode")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Continuous-mode poll interval (default from config)")
	watchCmd.Flags().StringVar(&watchHint, "hint", "", "Service to record when text cannot be classified")
}
