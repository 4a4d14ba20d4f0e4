package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azybler/map_instructions/pkg/phrase"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate dictionary files",
		Long: `Parses each dictionary and checks that every template set the
formatter can reach has a default entry. Exits non-zero if any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, file := range args {
				d, err := phrase.LoadFile(file)
				if err != nil {
					failed++
					fmt.Fprintf(w, "FAIL %s: %v\n", file, err)
					continue
				}
				st := d.Stats()
				fmt.Fprintf(w, "ok   %s (%s, %d types, %d templates)\n", file, d.Locale, st.Types, st.Templates)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d dictionaries invalid", failed, len(args))
			}
			return nil
		},
	}
}
