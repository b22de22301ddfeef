package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evalf/runview/config"
)

func newPlotsCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "plots <url-or-path>",
		Short: "List the plots referenced by a run log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			reg, _, err := decodeAll(args[0], cfg)
			if err != nil {
				return err
			}

			plots := reg.All()
			if category != "" {
				plots = reg.Category(category)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "#\tHREF\tCATEGORY\tCAT#\tCONTEXT")
			for _, p := range plots {
				cat, catIndex := "-", "-"
				if p.HasCategory {
					cat = p.Category
					catIndex = fmt.Sprintf("%d", p.CategoryIndex)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					p.GlobalIndex, p.Href, cat, catIndex, p.ContextLabel)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list plots of this category")

	return cmd
}
