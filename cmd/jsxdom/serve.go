package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/jsxdom/internal/config"
	"github.com/vango-dev/jsxdom/internal/preview"
	"github.com/vango-dev/jsxdom/pkg/jsx"
	"github.com/vango-dev/jsxdom/pkg/metrics"
)

type serveOptions struct {
	port     int
	host     string
	dir      string
	noReload bool
}

func serveCmd(flags *globalFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview descriptor documents in a browser",
		Long: `Start the preview server.

Every JSON document under the preview directory is served at
/view/<path> inside an HTML page, and at /raw/<path> as bare markup.
Documents are rebuilt on every request. With hot reload on, saving a
document reloads connected browsers, or shows the build error.

Examples:
  jsxdom serve
  jsxdom serve --port=8080 --dir=pages
  jsxdom serve --no-reload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			applyServeOverrides(e.cfg, opts)
			if err := e.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			success(out, "Serving %s", e.cfg.PreviewDir())
			info(out, "→ %s", e.cfg.URL())
			return newPreviewServer(e).ListenAndServe(ctx, e.cfg.Address())
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from jsxdom.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from jsxdom.json)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Document directory (default from jsxdom.json)")
	cmd.Flags().BoolVar(&opts.noReload, "no-reload", false, "Disable hot reload")

	return cmd
}

// applyServeOverrides applies command-line flags over the configuration.
func applyServeOverrides(cfg *config.Config, opts *serveOptions) {
	if opts.port > 0 {
		cfg.Preview.Port = opts.port
	}
	if opts.host != "" {
		cfg.Preview.Host = opts.host
	}
	if opts.dir != "" {
		abs, err := filepath.Abs(opts.dir)
		if err == nil {
			opts.dir = abs
		}
		cfg.Preview.Dir = opts.dir
	}
	if opts.noReload {
		cfg.Preview.HotReload = false
	}
}

// newPreviewServer wires the preview server with its own metrics registry.
func newPreviewServer(e *env) *preview.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(metrics.WithRegistry(registry))

	return preview.New(preview.Options{
		Dir:        e.cfg.PreviewDir(),
		Registry:   e.registry,
		Builder:    jsx.NewBuilder(jsx.WithLogger(e.logger), jsx.WithMetrics(m)),
		HotReload:  e.cfg.Preview.HotReload,
		WatchPaths: componentDirs(e.cfg),
		Ignore:     e.cfg.Preview.Ignore,
		Pretty:     e.cfg.Pretty,
		Logger:     e.logger,
		Metrics:    m,
		Gatherer:   registry,
	})
}

// componentDirs returns the directories of component documents that live
// outside the preview directory.
func componentDirs(cfg *config.Config) []string {
	root := cfg.PreviewDir()
	seen := map[string]bool{}
	var dirs []string
	for name := range cfg.Components {
		path, _ := cfg.ComponentPath(name)
		dir := filepath.Dir(path)
		if rel, err := filepath.Rel(root, dir); err == nil && filepath.IsLocal(rel) {
			continue
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}
