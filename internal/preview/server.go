package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	jsxerrors "github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/dom"
	"github.com/vango-dev/jsxdom/pkg/jsx"
	"github.com/vango-dev/jsxdom/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/jsxdom/internal/preview"

// Options configures the preview server.
type Options struct {
	// Dir holds the descriptor documents.
	Dir string

	// Registry resolves component names used by documents.
	Registry jsx.Registry

	// Builder builds documents. Default: a Builder sharing Logger, Tracer
	// and Metrics.
	Builder *jsx.Builder

	// HotReload watches Dir and WatchPaths and reloads browsers on change.
	HotReload bool

	// WatchPaths are extra directories to watch, such as component
	// document directories outside Dir.
	WatchPaths []string

	// Ignore contains path patterns hidden from the index and the watcher.
	Ignore []string

	// Pretty indents rendered markup.
	Pretty bool

	// Logger receives request and reload logs. Default: slog.Default().
	Logger *slog.Logger

	// Tracer records a span per request. Default: the global tracer.
	Tracer trace.Tracer

	// Metrics records request and reload counts.
	Metrics *metrics.Metrics

	// Gatherer is served on /metrics when set.
	Gatherer prometheus.Gatherer
}

// Server renders descriptor documents over HTTP.
type Server struct {
	opts    Options
	router  chi.Router
	hub     *Hub
	watcher *Watcher
}

// New creates a preview server.
func New(opts Options) *Server {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Builder == nil {
		opts.Builder = jsx.NewBuilder(
			jsx.WithLogger(opts.Logger),
			jsx.WithTracer(opts.Tracer),
			jsx.WithMetrics(opts.Metrics),
		)
	}
	opts.Ignore = append(append([]string(nil), DefaultIgnore...), opts.Ignore...)

	s := &Server{opts: opts}
	if opts.HotReload {
		s.hub = NewHub(opts.Logger, opts.Metrics)
		s.watcher = NewWatcher(WatcherConfig{
			Paths:  append([]string{opts.Dir}, opts.WatchPaths...),
			Ignore: opts.Ignore,
			Logger: opts.Logger,
		})
		s.watcher.OnChange(s.handleChanges)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleIndex)
	r.Get("/view/*", s.handleView)
	r.Get("/raw/*", s.handleRaw)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.hub != nil {
		r.Handle(ReloadPath, s.hub)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the reload hub, or nil when hot reload is disabled.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	if s.watcher != nil {
		go func() {
			if err := s.watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.opts.Logger.Info("preview server started", "addr", addr, "dir", s.opts.Dir, "hotReload", s.hub != nil)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return httpServer.Shutdown(shutdownCtx)
}

// instrument records a span, a metric and a log line per request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := s.opts.Tracer.Start(r.Context(), "preview "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.target", r.URL.Path)),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		span.SetName("preview " + r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		s.opts.Metrics.ObservePreviewRequest(route, status)
		s.opts.Logger.Info("preview request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	docs, err := Documents(s.opts.Dir, s.opts.Ignore)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out, err := s.opts.Builder.BuildContext(r.Context(), indexPage(docs, s.hub != nil))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeDocument(w, http.StatusOK, out)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name, file, ok := s.document(w, r)
	if !ok {
		return
	}
	out, err := s.build(r.Context(), file)
	status := http.StatusOK
	var d *jsx.Descriptor
	if err != nil {
		status = http.StatusUnprocessableEntity
		d = errorPage(name, err, s.hub != nil)
	} else {
		d = page(name, out, s.hub != nil)
	}
	pageOut, err := s.opts.Builder.BuildContext(r.Context(), d)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeDocument(w, status, pageOut)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.document(w, r)
	if !ok {
		return
	}
	out, err := s.build(r.Context(), file)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(jsxerrors.Plain(err)))
		return
	}
	markup := out.OuterHTML()
	if s.opts.Pretty {
		markup = dom.Pretty(markup)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(markup))
}

// document resolves the wildcard path to a document file inside Dir. It
// writes a 404 and reports false for anything else.
func (s *Server) document(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	name := chi.URLParam(r, "*")
	clean := path.Clean("/" + name)
	if name == "" || clean != "/"+name || !isDocument(clean) || ignored(s.opts.Ignore, clean) {
		http.NotFound(w, r)
		return "", "", false
	}
	file := filepath.Join(s.opts.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if info, err := os.Stat(file); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return "", "", false
	}
	return name, file, true
}

func (s *Server) build(ctx context.Context, file string) (jsx.Output, error) {
	d, err := jsx.DecodeFile(file, s.opts.Registry)
	if err != nil {
		return jsx.Output{}, err
	}
	return s.opts.Builder.BuildContext(ctx, d)
}

func (s *Server) writeDocument(w http.ResponseWriter, status int, out jsx.Output) {
	markup := "<!DOCTYPE html>" + out.OuterHTML()
	if s.opts.Pretty {
		markup = dom.Pretty(markup)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(markup))
}

// handleChanges rebuilds changed documents and notifies browsers: an error
// overlay when a build fails, a reload otherwise.
func (s *Server) handleChanges(changes []Change) {
	for _, c := range changes {
		if !isDocument(c.Path) {
			continue
		}
		if _, err := os.Stat(c.Path); err != nil {
			continue
		}
		if _, err := s.build(context.Background(), c.Path); err != nil {
			s.opts.Logger.Warn("document build failed", "file", c.Path, "code", jsxerrors.Code(err))
			s.hub.NotifyError(c.Path, jsxerrors.Plain(err))
			return
		}
	}
	if len(changes) == 0 {
		return
	}
	s.hub.ClearError()
	s.hub.NotifyReload(changes[0].Path)
}
