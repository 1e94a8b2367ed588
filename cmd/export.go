package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/chat-rotator/internal"
	"github.com/iksnae/chat-rotator/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportStdout bool
	exportLimit  int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [query...]",
	Short: "Export messages to file",
	Long: `Export stored messages to various formats (jsonl, md, yaml, json).

Without a query every message is exported oldest first. With a query the
same filter syntax as 'search' applies. Files are written to --out with a
generated name; use --stdout to print instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails before touching storage
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var msgs []internal.Message
		if query := strings.Join(args, " "); query != "" {
			msgs, err = a.store.Search(query, exportLimit)
			// Search is newest first; exports read top to bottom
			for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
				msgs[i], msgs[j] = msgs[j], msgs[i]
			}
		} else {
			msgs, err = a.store.AllMessages()
		}
		if err != nil {
			return fmt.Errorf("failed to load messages: %w", err)
		}

		if exportStdout {
			if err := exporter.Export(msgs, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: exportFormat, Path: "-", Err: err}
			}
			return nil
		}

		// Ensure output directory exists
		if err := os.MkdirAll(exportOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := fmt.Sprintf("messages_%s_%s.%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8], exporter.Extension())
		path := filepath.Join(exportOut, filename)

		ctx := context.Background()
		err = internal.ShowProgress(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Exporting %d message(s) to %s", len(msgs), path), func() error {
			file, err := os.Create(path)
			if err != nil {
				return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
			}
			if err := exporter.Export(msgs, file); err != nil {
				_ = file.Close()
				return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
			}
			if err := file.Close(); err != nil {
				return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d message(s) exported to %s", len(msgs), path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write to standard output instead of a file")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", internal.DefaultSearchLimit, "Maximum number of messages when a query is given")
}
