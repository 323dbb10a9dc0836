package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/logfields"
	"git.home.luguber.info/inful/docshelf/internal/metrics"
	"git.home.luguber.info/inful/docshelf/internal/server/handlers"
	smw "git.home.luguber.info/inful/docshelf/internal/server/middleware"
	"git.home.luguber.info/inful/docshelf/internal/switcher"
)

const (
	DefaultPort         = 6006
	DefaultBrowserDelay = 3 * time.Second
	HealthRoute         = "/healthz"

	defaultShutdownTimeout = 30 * time.Second
)

// Options configures a Server. A zero Port binds an ephemeral port.
type Options struct {
	Root         string
	Host         string
	Port         int
	OpenBrowser  bool
	BrowserDelay time.Duration
	DevMode      bool
	// WatchManifest logs newly published versions while serving.
	WatchManifest bool

	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
	Recorder       metrics.Recorder

	Opener          Opener
	ShutdownTimeout time.Duration
}

// Server serves a publish root.
type Server struct {
	opts      Options
	state     atomic.Int32
	startTime time.Time
	serving   string
	published publishedState

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// New returns a server for opts.
func New(opts Options) *Server {
	if opts.Opener == nil {
		opts.Opener = NewCommandOpener()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	return &Server{opts: opts, ready: make(chan struct{})}
}

// State returns the current lifecycle state.
func (s *Server) State() State { return State(s.state.Load()) }

func (s *Server) setState(st State) {
	s.state.Store(int32(st))
	slog.Debug("Server state changed", slog.String("state", st.String()))
}

// Ready is closed once the server is accepting connections.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound listener address, or nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) StartTime() time.Time { return s.startTime }

func (s *Server) Serving() string { return s.serving }

func (s *Server) Published() (string, []string) { return s.published.get() }

// Handler returns the HTTP handler for the publish root.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(HealthRoute, handlers.NewMonitoringHandlers(s).HandleHealthCheck)
	switcher.NewHandlers(s.opts.Root, s.opts.DevMode).Register(mux)
	if s.opts.MetricsHandler != nil {
		mux.Handle(s.opts.MetricsPath, s.opts.MetricsHandler)
	}
	mux.Handle("/", http.FileServer(http.Dir(s.opts.Root)))

	chain := smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default()), s.opts.Recorder)
	return chain(mux)
}

// Run resolves and validates the version to serve, then serves until ctx is
// done. It returns nil after a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.startTime = time.Now()

	s.setState(StateResolvingVersion)
	version, reason := ResolveLatest(s.opts.Root)
	if reason != nil {
		slog.Warn("Could not resolve latest version from manifest, falling back to alias",
			logfields.Version(version), logfields.Error(reason))
	}
	s.serving = version
	s.published.prime(s.opts.Root)

	s.setState(StateValidating)
	if err := Validate(s.opts.Root, version); err != nil {
		s.setState(StateFatal)
		return err
	}

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.setState(StateFatal)
		return derrors.WrapError(err, derrors.CategoryServer, "failed to bind listener").
			Fatal().
			WithContext("addr", addr).
			Build()
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if s.opts.WatchManifest {
		if watcher, werr := setupManifestWatcher(s.opts.Root); werr != nil {
			slog.Warn("Manifest watcher disabled", logfields.Error(werr))
		} else {
			defer func() { _ = watcher.Close() }()
			go runManifestWatch(watchCtx, watcher, s.opts.Root, &s.published)
		}
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.setState(StateServing)
	close(s.ready)

	url := browserURL(ln.Addr(), version)
	slog.Info("Serving docs", logfields.URL(url), logfields.Path(s.opts.Root), logfields.Version(version))
	if s.opts.OpenBrowser {
		s.scheduleBrowser(url)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = derrors.WrapError(err, derrors.CategoryServer, "docs server failed").Fatal().Build()
		}
	}

	s.setState(StateShuttingDown)
	slog.Info("Shutting down docs server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	s.setState(StateStopped)
	slog.Info("Docs server stopped")
	return runErr
}

// scheduleBrowser opens url once after the configured delay. The timer is not
// cancelled on shutdown.
func (s *Server) scheduleBrowser(url string) {
	time.AfterFunc(s.opts.BrowserDelay, func() {
		if err := s.opts.Opener.Open(url); err != nil {
			if errors.Is(err, ErrUnsupportedPlatform) {
				slog.Info("Skipping browser launch", logfields.URL(url), logfields.Error(err))
				return
			}
			slog.Warn("Failed to open browser", logfields.URL(url), logfields.Error(err))
			return
		}
		slog.Info("Opened browser", logfields.URL(url))
	})
}

// browserURL points at the bound address. Wildcard binds are opened on the
// loopback address.
func browserURL(addr net.Addr, version string) string {
	host, port := "127.0.0.1", 0
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return fmt.Sprintf("http://%s/%s/", net.JoinHostPort(host, strconv.Itoa(port)), version)
}
