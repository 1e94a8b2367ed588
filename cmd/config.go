package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after merging defaults, the config file, .env, the environment and flags.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, idStyle.Render("# "+cfg.Path()))
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if errors.Is(err, fs.ErrNotExist) {
			// An explicit --config that does not exist yet is the file to create
			paths, perr := internal.DetectDataPaths()
			if perr != nil {
				return perr
			}
			cfg = internal.DefaultConfig(paths)
			cfg.SetPath(configPath)
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
		} else if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.Path()); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path())
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", cfg.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}
