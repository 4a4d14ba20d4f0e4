package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/azybler/map_instructions/pkg/api"
	"github.com/azybler/map_instructions/pkg/logger"
	"github.com/azybler/map_instructions/pkg/roads"
)

type formatOptions struct {
	locale      string
	markup      string
	asJSON      bool
	roadsPath   string
	maxDistance float64
}

// routeFile accepts either a bare {"legs": ...} body or a full OSRM
// response, whose first route is used.
type routeFile struct {
	api.InstructionsRequest
	Routes []api.InstructionsRequest `json:"routes"`
}

func newFormatCmd(root *rootOptions) *cobra.Command {
	opts := &formatOptions{}
	cmd := &cobra.Command{
		Use:   "format [route.json]",
		Short: "Format the steps of an OSRM route",
		Long: `Reads a route from the file, or stdin when no file or "-" is given, and
prints one instruction per step. Steps without a describable maneuver are
left out of text output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, root, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "locale, overrides the route file")
	cmd.Flags().StringVar(&opts.markup, "markup", "", `"text" or "html", overrides the route file`)
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the API response body instead of text")
	cmd.Flags().StringVar(&opts.roadsPath, "roads", "", "roads binary used to fill missing names")
	cmd.Flags().Float64Var(&opts.maxDistance, "max-distance", roads.DefaultMaxDistance, "road match radius in meters")
	return cmd
}

func runFormat(cmd *cobra.Command, root *rootOptions, opts *formatOptions, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var rf routeFile
	if err := json.NewDecoder(r).Decode(&rf); err != nil {
		return fmt.Errorf("decode route: %w", err)
	}
	req := rf.InstructionsRequest
	if len(req.Legs) == 0 && len(rf.Routes) > 0 {
		req.Legs = rf.Routes[0].Legs
	}
	if opts.locale != "" {
		req.Locale = opts.locale
	}
	if opts.markup != "" {
		req.Markup = opts.markup
	}

	hook, ok := api.MarkupHook(req.Markup)
	if !ok {
		return fmt.Errorf("unknown markup %q", req.Markup)
	}
	in, err := root.registry().Get(req.Locale)
	if err != nil {
		return err
	}
	d := in.Dictionary()

	legs, err := req.Maneuvers()
	if err != nil {
		return err
	}
	if opts.roadsPath != "" {
		rs, err := roads.ReadBinary(opts.roadsPath)
		if err != nil {
			return fmt.Errorf("load roads: %w", err)
		}
		e := roads.NewEnricher(roads.NewIndex(rs), opts.maxDistance)
		n := 0
		for li := range legs {
			for si := range legs[li] {
				if e.Enrich(&legs[li][si]) {
					n++
				}
			}
		}
		logger.Info("Enriched steps", "matched", n, "roads", len(rs))
	}

	out, err := api.FormatRoute(cmd.Context(), d, legs, hook)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(api.InstructionsResponse{Locale: d.Locale.String(), Legs: out})
	}
	for _, leg := range out {
		for _, st := range leg.Steps {
			if !st.Skipped {
				fmt.Fprintln(w, st.Instruction)
			}
		}
	}
	return nil
}
