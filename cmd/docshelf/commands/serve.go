package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docshelf/internal/metrics"
	"git.home.luguber.info/inful/docshelf/internal/serve"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Root    string `short:"r" help:"Publish root directory (overrides publish.root)"`
	Port    int    `short:"p" help:"Port to listen on (overrides PORT and serve.port)"`
	Host    string `help:"Interface to bind (default all)"`
	NoOpen  bool   `name:"no-open" help:"Do not open a browser"`
	DevMode bool   `name:"dev-mode" help:"Show the version switcher as a plain label"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if s.Root != "" {
		cfg.Publish.Root = s.Root
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Host != "" {
		cfg.Serve.Host = s.Host
	}

	opts := serve.Options{
		Root:          cfg.Publish.Root,
		Host:          cfg.Serve.Host,
		Port:          cfg.Serve.Port,
		OpenBrowser:   *cfg.Serve.OpenBrowser && !s.NoOpen,
		BrowserDelay:  cfg.Serve.BrowserDelayDuration(),
		DevMode:       cfg.Serve.DevMode || s.DevMode,
		WatchManifest: *cfg.Serve.Watch,
	}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		opts.MetricsHandler = metrics.HTTPHandler(reg)
		opts.MetricsPath = cfg.Metrics.Path
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return serve.New(opts).Run(ctx)
}
