package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xob0t/ogcard/pkg/card"
)

// ThemesCmd lists the available themes
var ThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List colour themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLABEL\tBACKGROUND\tTITLE\tAUTHOR\tURL")
		for _, t := range card.Themes() {
			p := t.Palette()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t, t.Label(), p.Background, p.Title, p.Author, p.URL)
		}
		return w.Flush()
	},
}
