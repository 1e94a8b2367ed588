package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show message counts",
	Long:  `Show how many messages are stored, how many are questions, and the answers per service.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.store.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render("📊 Statistics"))
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintf(w, "Total\t%s\n", countStyle.Render(strconv.Itoa(stats.Total)))
		_, _ = fmt.Fprintf(w, "Active\t%s\n", countStyle.Render(strconv.Itoa(stats.Active)))
		_, _ = fmt.Fprintf(w, "Questions\t%s\n", countStyle.Render(strconv.Itoa(stats.Questions)))
		_, _ = fmt.Fprintf(w, "Unknown (unlabeled)\t%s\n", countStyle.Render(strconv.Itoa(stats.UnknownUnlabeled)))
		_ = w.Flush()

		if len(stats.ByService) == 0 {
			return nil
		}

		services := make([]string, 0, len(stats.ByService))
		for name := range stats.ByService {
			services = append(services, name)
		}
		sort.Slice(services, func(i, j int) bool {
			ci, cj := stats.ByService[services[i]], stats.ByService[services[j]]
			if ci != cj {
				return ci > cj
			}
			return services[i] < services[j]
		})

		fmt.Fprintln(out)
		fmt.Fprintln(out, titleStyle.Render("By service"))
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		for _, name := range services {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", serviceStyle(name).Render(name), countStyle.Render(strconv.Itoa(stats.ByService[name])))
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
