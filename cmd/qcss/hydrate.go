package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/htmldom"
	"github.com/vango-dev/qcss/pkg/hydrate"
	"github.com/vango-dev/qcss/pkg/qjs"
)

func hydrateCmd(a *app) *cobra.Command {
	var (
		output string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "hydrate <file.html>",
		Short: "Stamp manifest identifiers onto an HTML document",
		Long: `Parse an HTML document, assign the identifier attribute to every
element whose structural path is in the manifest, and write the result.

Use "-" to read from stdin.

Examples:
  qcss hydrate page.html > page.hydrated.html
  qcss hydrate page.html -o dist/page.html --stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("E140").WithDetail("file").
					WithSuggestion("Usage: qcss hydrate <file.html>")
			}
			m, err := a.loadManifest(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := parseFile(args[0])
			if err != nil {
				return err
			}

			rt := qjs.New(doc, qjs.FromConfig(a.cfg), qjs.WithLogger(a.logger))
			st := rt.InitContext(cmd.Context(), m, true)

			if err := writeDocument(doc, output, cmd.OutOrStdout()); err != nil {
				return err
			}

			if stats {
				fmt.Fprintf(cmd.ErrOrStderr(), "visited=%d marked=%d assigned=%d leaf=%d missed=%d\n",
					st.Visited, st.Marked, st.Assigned, st.LeafFallbacks, st.Missed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print hydration counts to stderr")

	return cmd
}

func checkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.html>...",
		Short: "Report structural paths the manifest does not cover",
		Long: `Walk each document and list every data-ref path with no manifest
entry, neither as the full path nor as the bare leaf. Exits non-zero when
any path is uncovered.

Examples:
  qcss check pages/*.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E140").WithDetail("file").
					WithSuggestion("Usage: qcss check <file.html>...")
			}
			m, err := a.loadManifest(cmd.Context())
			if err != nil {
				return err
			}

			h := hydrate.New(m,
				hydrate.WithIDAttr(a.cfg.Attributes.ID),
				hydrate.WithRefAttr(a.cfg.Attributes.Ref),
				hydrate.WithLogger(a.logger),
			)

			out := cmd.OutOrStdout()
			var total hydrate.Stats
			failed := 0
			for _, name := range args {
				doc, err := parseFile(name)
				if err != nil {
					return err
				}
				st := h.Hydrate(doc.Body(), "")
				for _, path := range st.Missing {
					fmt.Fprintf(out, "%s: %s\n", name, path)
				}
				if st.Missed > 0 {
					failed++
				}
				total.Add(st)
			}

			if total.Missed > 0 {
				return errors.New("E302").
					WithDetailf("%d of %d paths uncovered in %d file(s)", total.Missed, total.Marked, failed).
					WithSuggestion("Rebuild the manifest from the current stylesheets")
			}
			success(cmd, "%d paths covered in %d file(s)", total.Marked, len(args))
			return nil
		},
	}

	return cmd
}

// writeDocument renders doc to the file at output, or to stdout when
// output is empty.
func writeDocument(doc *htmldom.Document, output string, stdout io.Writer) (err error) {
	if output == "" {
		if err := doc.Render(stdout); err != nil {
			return errors.New("E303").WithDetail("stdout").Wrap(err)
		}
		return nil
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.New("E303").WithDetail(output).Wrap(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.New("E303").WithDetail(output).Wrap(cerr)
		}
	}()
	if err := doc.Render(f); err != nil {
		return errors.New("E303").WithDetail(output).Wrap(err)
	}
	return nil
}

func parseFile(name string) (*htmldom.Document, error) {
	f, closeFn, err := openInput(name)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return htmldom.Parse(f, name)
}
