package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that chat-rotator can store and capture",
	Long: `Check the health of chat-rotator by verifying:
  • Data directory detection
  • Configuration loading
  • Database access and schema
  • Service registry and classifier patterns
  • Clipboard availability

This command is useful for debugging setup issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Chat Rotator Health Check"))
		fmt.Fprintln(out)

		// Step 1: Detect data paths
		fmt.Fprintln(out, infoStyle.Render("Step 1: Detecting data directory..."))
		paths, err := internal.DetectDataPaths()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to detect data directory:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Data directory detected"))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Data dir: %s\n", paths.DataDir)
		}
		fmt.Fprintln(out)

		// Step 2: Load configuration
		fmt.Fprintln(out, infoStyle.Render("Step 2: Loading configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		if _, statErr := os.Stat(cfg.Path()); statErr == nil {
			fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
		}
		if healthcheckDetails {
			fmt.Fprintf(out, "   Config: %s\n", cfg.Path())
			fmt.Fprintf(out, "   Database: %s\n", cfg.DBPath)
			fmt.Fprintf(out, "   Mode: %s, poll interval %s\n", cfg.Mode, cfg.PollInterval)
		}
		fmt.Fprintln(out)

		// Step 3: Open the database
		fmt.Fprintln(out, infoStyle.Render("Step 3: Opening database..."))
		a, err := openApp()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer a.Close()

		stats, err := a.store.Stats()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to query database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Database ready (%d message(s))", stats.Total)))
		fmt.Fprintln(out)

		// Step 4: Services and classifier
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking services..."))
		services, err := a.registry.List()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load services:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		enabled := 0
		for _, svc := range services {
			if svc.Enabled {
				enabled++
			}
		}
		classifier, err := a.registry.Classifier()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Service patterns do not compile:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %d service(s), %d enabled", len(services), enabled)))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Classifier order: %v\n", classifier.Names())
		}
		fmt.Fprintln(out)

		// Step 5: Clipboard
		fmt.Fprintln(out, infoStyle.Render("Step 5: Checking clipboard..."))
		clipboardOK := internal.ClipboardSupported()
		if clipboardOK {
			fmt.Fprintln(out, successStyle.Render("✅ Clipboard available"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No clipboard utility found"))
			fmt.Fprintln(out, "   Install xclip, xsel or wl-clipboard to capture on Linux")
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if clipboardOK {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage works but capture needs a clipboard"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
