package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/qcss/internal/preview"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/metrics"
)

func serveCmd(a *app) *cobra.Command {
	var (
		port  int
		host  string
		pages string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages hydrated against the live manifest",
		Long: `Start the preview server. Pages from the pages directory are
hydrated on each request; the manifest is published at /manifest.json and
Prometheus metrics at /metrics. With --watch, editing the manifest file
reloads every open preview page.

Examples:
  qcss serve
  qcss serve --port=8080 --pages=site --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Preview.Port = port
			}
			if host != "" {
				a.cfg.Preview.Host = host
			}
			if pages != "" {
				a.cfg.Preview.Pages = pages
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Manifest.Watch = watch
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from qcss.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from qcss.json)")
	cmd.Flags().StringVar(&pages, "pages", "", "Pages directory (default from qcss.json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the manifest when the file changes")

	return cmd
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(metrics.WithRegistry(registry))

	src, err := a.source()
	if err != nil {
		return err
	}
	initial, err := src.Load(ctx)
	m.ManifestLoaded(initial, err)
	if err != nil {
		return err
	}

	store := manifest.NewStore(initial)
	srv := preview.NewServer(preview.Options{
		Address:  a.cfg.PreviewAddress(),
		Pages:    a.cfg.PagesPath(),
		Store:    store,
		IDAttr:   a.cfg.Attributes.ID,
		RefAttr:  a.cfg.Attributes.Ref,
		Metrics:  m,
		Gatherer: registry,
		Logger:   a.logger,
	})

	if fileSrc, ok := src.(*manifest.FileSource); ok && a.cfg.Manifest.Watch {
		unsub := store.Subscribe(func(next *manifest.Manifest) {
			m.ManifestLoaded(next, nil)
		})
		defer unsub()

		w, err := manifest.NewWatcher(fileSrc, store,
			manifest.WithWatchLogger(a.logger),
			manifest.WithErrorHandler(func(err error) {
				m.ManifestLoaded(nil, err)
				srv.Hub().NotifyError(err)
			}),
		)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	if err := srv.Start(); err != nil {
		return err
	}
	success(cmd, "Preview at http://%s (%d manifest entries)", srv.Addr(), initial.Len())
	fmt.Fprintln(cmd.OutOrStdout(), "  Press Ctrl+C to stop")

	<-ctx.Done()
	return srv.Shutdown(context.Background())
}
