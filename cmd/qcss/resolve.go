package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/selector"
)

func resolveCmd(a *app) *cobra.Command {
	var showKind bool

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Print the selector a structural path resolves to",
		Long: `Resolve structural paths against the manifest and print the CSS
selector for each, one per line.

Examples:
  qcss resolve "card title"
  qcss resolve "card title:hover" --kind
  qcss resolve -m dist/qcss-manifest.json "nav item"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E140").WithDetail("path").
					WithSuggestion(`Usage: qcss resolve "card title"`)
			}
			m, err := a.loadManifest(cmd.Context())
			if err != nil {
				return err
			}

			r := selector.NewResolver(m,
				selector.WithIDAttr(a.cfg.Attributes.ID),
				selector.WithRefAttr(a.cfg.Attributes.Ref),
			)
			out := cmd.OutOrStdout()
			for _, path := range args {
				t := r.Resolve(path)
				if showKind {
					fmt.Fprintf(out, "%s\t%s\n", t.Kind, t)
					continue
				}
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showKind, "kind", "k", false, "Prefix each selector with its target kind")

	return cmd
}
