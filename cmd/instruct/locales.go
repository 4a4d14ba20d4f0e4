package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLocalesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the available dictionaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := root.catalog()
			tags, err := c.Locales()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LOCALE\tTYPES\tMODES\tTEMPLATES\t")
			failed := 0
			for _, tag := range tags {
				name := tag.String()
				if tag == c.Fallback() {
					name += "*"
				}
				d, err := c.Load(tag.String())
				if err != nil {
					failed++
					fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", name, err)
					continue
				}
				st := d.Stats()
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n", name, st.Types, st.Modes, st.Templates)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d dictionaries failed to load", failed)
			}
			return nil
		},
	}
}
