package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/qjs"
	"github.com/vango-dev/qcss/pkg/roddom"
)

func probeCmd(a *app) *cobra.Command {
	var (
		browserURL string
		bin        string
		headful    bool
		timeout    time.Duration
		selects    []string
		dump       bool
	)

	cmd := &cobra.Command{
		Use:   "probe <url>",
		Short: "Hydrate a live page in Chromium and report coverage",
		Long: `Open a URL in a headless Chromium, hydrate its body against the
manifest, and report what was assigned. --select counts the elements each
structural path matches after hydration.

Examples:
  qcss probe http://localhost:4300/
  qcss probe https://example.com --select "card title" --dump
  qcss probe http://app.local --browser-url ws://127.0.0.1:9222/devtools/browser/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("E140").WithDetail("url").
					WithSuggestion("Usage: qcss probe <url>")
			}
			m, err := a.loadManifest(cmd.Context())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			browser, err := roddom.Launch(ctx, roddom.LaunchOptions{
				ControlURL: browserURL,
				Bin:        bin,
				Headless:   !headful,
			})
			if err != nil {
				return err
			}
			defer browser.Close()

			session, err := roddom.Open(ctx, browser, args[0], roddom.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer session.Close()

			rt := qjs.New(session.Document(),
				qjs.FromConfig(a.cfg),
				qjs.WithLogger(a.logger),
			)
			st := rt.InitContext(ctx, m, true)
			if err := session.Err(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "visited=%d marked=%d assigned=%d leaf=%d missed=%d\n",
				st.Visited, st.Marked, st.Assigned, st.LeafFallbacks, st.Missed)
			for _, path := range st.Missing {
				fmt.Fprintf(out, "missing: %s\n", path)
			}
			for _, path := range selects {
				fmt.Fprintf(out, "%s\t%d\t%s\n", path, len(rt.SelectAll(path)), rt.ResolvePath(path))
			}
			if dump {
				fmt.Fprintln(out, session.Document().HTML())
			}
			return session.Err()
		},
	}

	cmd.Flags().StringVar(&browserURL, "browser-url", "", "Connect to a running browser instead of launching one")
	cmd.Flags().StringVar(&bin, "bin", "", "Chromium binary (default: rod's lookup)")
	cmd.Flags().BoolVar(&headful, "headful", false, "Show the browser window")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall time limit")
	cmd.Flags().StringArrayVarP(&selects, "select", "s", nil, "Structural path to count after hydration (repeatable)")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the hydrated page HTML")

	return cmd
}
