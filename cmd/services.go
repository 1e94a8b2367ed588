package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-rotator/internal"
	"github.com/spf13/cobra"
)

var (
	serviceType     string
	serviceURL      string
	serviceRole     string
	serviceColor    string
	serviceModel    string
	serviceEndpoint string
	servicePatterns []string
	serviceDisabled bool
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage the service registry",
	Long: `List, add, remove and toggle the chat services answers are attributed to.

Services added with --pattern extend the classifier: captured text matching
one of the patterns is attributed to the service when it carries no tag.`,
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		services, err := a.registry.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔌 %d service(s)", len(services))))
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Enabled")+"\t"+titleStyle.Render("URL")+"\t"+titleStyle.Render("Role")+"\t")
		for _, svc := range services {
			name := svc.Name
			if svc.Color != "" {
				name = lipgloss.NewStyle().Foreground(lipgloss.Color(svc.Color)).Render(name)
			}
			enabled := dateStyle.Render("no")
			if svc.Enabled {
				enabled = countStyle.Render("yes")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", name, svc.Type, enabled, svc.URL, svc.Role)
		}
		_ = w.Flush()
		return nil
	},
}

var servicesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := internal.ServiceConfig{
			Name:     strings.TrimSpace(args[0]),
			Type:     internal.ServiceType(serviceType),
			URL:      serviceURL,
			Role:     serviceRole,
			Color:    serviceColor,
			Enabled:  !serviceDisabled,
			Model:    serviceModel,
			Endpoint: serviceEndpoint,
			Patterns: servicePatterns,
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.registry.Save(svc); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Saved service %s", svc.Name))
		return nil
	},
}

var servicesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a service; stored messages keep its name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.registry.Delete(args[0]); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed service %s", args[0]))
		return nil
	},
}

var servicesToggleCmd = &cobra.Command{
	Use:   "toggle <name> [true|false]",
	Short: "Enable or disable a service",
	Long:  `Flip whether a service is enabled, or set it explicitly with true or false.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.registry.Get(args[0])
		if err != nil {
			return err
		}
		enabled := !svc.Enabled
		if len(args) == 2 {
			if enabled, err = strconv.ParseBool(args[1]); err != nil {
				return fmt.Errorf("invalid value %q: want true or false", args[1])
			}
		}
		if err := a.registry.SetEnabled(svc.Name, enabled); err != nil {
			return err
		}

		state := "disabled"
		if enabled {
			state = "enabled"
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Service %s %s", svc.Name, state))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
	servicesCmd.AddCommand(servicesListCmd, servicesAddCmd, servicesRemoveCmd, servicesToggleCmd)

	servicesAddCmd.Flags().StringVar(&serviceType, "type", string(internal.ServiceTypeBrowser), "Service type (browser, local)")
	servicesAddCmd.Flags().StringVar(&serviceURL, "url", "", "Service URL")
	servicesAddCmd.Flags().StringVar(&serviceRole, "role", "", "Role the service plays in a rotation")
	servicesAddCmd.Flags().StringVar(&serviceColor, "color", "", "Display color (hex or ANSI)")
	servicesAddCmd.Flags().StringVar(&serviceModel, "model", "", "Model name for local services")
	servicesAddCmd.Flags().StringVar(&serviceEndpoint, "endpoint", "", "Completion endpoint path for local services")
	servicesAddCmd.Flags().StringArrayVar(&servicePatterns, "pattern", nil, "Regex identifying this service's answers (repeatable)")
	servicesAddCmd.Flags().BoolVar(&serviceDisabled, "disabled", false, "Register the service disabled")
}
