// Command instruct formats OSRM routes into driving instructions and checks
// phrase dictionaries from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/azybler/map_instructions/pkg/instructions"
	"github.com/azybler/map_instructions/pkg/logger"
	"github.com/azybler/map_instructions/pkg/phrase"
)

type rootOptions struct {
	localesDir string
	fallback   string
	logLevel   string
}

func (o *rootOptions) catalog() *phrase.Catalog {
	opts := []phrase.CatalogOption{phrase.WithFallback(o.fallback)}
	if o.localesDir != "" {
		opts = append(opts, phrase.WithDir(o.localesDir))
	}
	return phrase.NewCatalog(opts...)
}

func (o *rootOptions) registry() *instructions.Registry {
	return instructions.NewRegistry(o.catalog())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "instruct",
		Short:         "Turn-by-turn instructions from OSRM routes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(cmd.ErrOrStderr(), opts.logLevel)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.localesDir, "locales-dir", "", "directory of dictionaries overriding the built-in ones")
	root.PersistentFlags().StringVar(&opts.fallback, "fallback", phrase.DefaultLocale, "locale used when none matches")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")

	root.AddCommand(newFormatCmd(opts), newLocalesCmd(opts), newCheckCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
