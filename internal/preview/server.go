package preview

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/qcss/internal/errors"
	"github.com/vango-dev/qcss/pkg/htmldom"
	"github.com/vango-dev/qcss/pkg/hydrate"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/metrics"
)

// Routes served next to the pages.
const (
	ReloadPath   = "/_qcss/reload"
	ManifestPath = "/manifest.json"
	MetricsPath  = "/metrics"
)

// Options configures the preview server.
type Options struct {
	// Address is the listen address, host:port.
	Address string

	// Pages is the directory served at /.
	Pages string

	// Store supplies the manifest used for every request.
	Store *manifest.Store

	// IDAttr and RefAttr override the hydrator attribute names.
	IDAttr  string
	RefAttr string

	// Metrics records hydrations and client counts. May be nil.
	Metrics *metrics.Metrics

	// Gatherer backs /metrics; nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds Shutdown; zero means 5s.
	ShutdownTimeout time.Duration
}

// Server serves pages hydrated against the live manifest.
type Server struct {
	opts       Options
	logger     *slog.Logger
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
	listener   net.Listener
	unsub      func()
	mu         sync.Mutex
	running    bool
}

// NewServer wires the routes and subscribes the hub to the store.
func NewServer(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = manifest.NewStore(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		hub:    NewHub(opts.Metrics, opts.Logger),
	}
	s.unsub = opts.Store.Subscribe(func(m *manifest.Manifest) {
		s.hub.NotifyManifest(opts.Store.Version(), m)
	})
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get(ReloadPath, s.hub.HandleWebSocket)
	r.Get(ManifestPath, s.handleManifest)
	r.Handle(MetricsPath, promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/*", s.handlePage)
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.opts.Store.Load()); err != nil {
		s.logger.Warn("preview: encode manifest", "error", err)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))
	if strings.HasSuffix(r.URL.Path, "/") || name == "/" {
		name = path.Join(name, "index.html")
	}
	if path.Ext(name) != ".html" {
		http.FileServer(http.Dir(s.opts.Pages)).ServeHTTP(w, r)
		return
	}

	f, err := http.Dir(s.opts.Pages).Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	doc, err := htmldom.Parse(f, name)
	if err != nil {
		s.logger.Warn("preview: parse page", "page", name, "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	st := s.hydrate(doc)
	s.logger.Debug("preview: served", "page", name,
		"assigned", st.Assigned, "missed", st.Missed)

	script := doc.CreateElement("script")
	script.AppendText(ClientScript)
	doc.BodyElement().AppendChild(script)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := doc.Render(w); err != nil {
		s.logger.Warn("preview: render page", "page", name, "error", err)
	}
}

func (s *Server) hydrate(doc *htmldom.Document) hydrate.Stats {
	var opts []hydrate.Option
	if s.opts.IDAttr != "" {
		opts = append(opts, hydrate.WithIDAttr(s.opts.IDAttr))
	}
	if s.opts.RefAttr != "" {
		opts = append(opts, hydrate.WithRefAttr(s.opts.RefAttr))
	}
	opts = append(opts, hydrate.WithLogger(s.logger))

	start := time.Now()
	st := hydrate.New(s.opts.Store.Load(), opts...).Hydrate(doc.Body(), "")
	s.opts.Metrics.ObserveHydrate(st, time.Since(start))
	return st
}

// Start listens on Options.Address and serves in the background. The
// bound address is available from Addr once Start returns.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return errors.New("E141").WithDetail(s.opts.Address).Wrap(err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true

	go func() {
		s.logger.Info("preview: listening", "address", ln.Addr().String(), "pages", s.opts.Pages)
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("preview: serve", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run starts the server and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Shutdown(context.Background())
}

// Shutdown disconnects reload clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	s.unsub()
	s.hub.Close()

	s.mu.Lock()
	srv := s.httpServer
	s.running = false
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("preview: shutdown", "error", err)
			return errors.New("E141").WithDetail("shutdown").Wrap(err)
		}
	}
	s.logger.Info("preview: shutdown complete")
	return nil
}
