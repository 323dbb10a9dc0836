package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	"git.home.luguber.info/inful/docshelf/internal/builder"
	"git.home.luguber.info/inful/docshelf/internal/config"
	"git.home.luguber.info/inful/docshelf/internal/history"
	"git.home.luguber.info/inful/docshelf/internal/logfields"
	"git.home.luguber.info/inful/docshelf/internal/metrics"
	"git.home.luguber.info/inful/docshelf/internal/notify"
	"git.home.luguber.info/inful/docshelf/internal/publish"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Root      string `short:"r" help:"Publish root directory (overrides publish.root)"`
	Package   string `name:"package" help:"Package manifest holding the version (overrides publish.package_file)"`
	Semver    string `name:"semver" help:"Semantic version to publish instead of the package version"`
	AliasMode string `name:"alias-mode" help:"How to create the latest alias: symlink or copy"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	p.applyOverrides(cfg)
	if err := config.Normalize(cfg); err != nil {
		return err
	}

	id, err := p.resolveVersion(cfg)
	if err != nil {
		return err
	}

	b := builder.NewCommandBuilder(cfg.Build.Command, cfg.Build.Dir, cfg.Build.Output)
	pub := publish.New(publish.Options{
		Root:      cfg.Publish.Root,
		Version:   id,
		AliasMode: cfg.Publish.AliasMode,
		SortOrder: cfg.Publish.SortOrder,
		WorkDir:   cfg.Build.Dir,
	}, b)

	var reg *prom.Registry
	if cfg.Metrics.Enabled || cfg.Metrics.Textfile != "" {
		reg = prom.NewRegistry()
		pub.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	if cfg.History.Enabled {
		store, herr := history.Open(cfg.History.Path)
		if herr != nil {
			slog.Warn("Publish history disabled", logfields.Path(cfg.History.Path), logfields.Error(herr))
		} else {
			defer func() { _ = store.Close() }()
			pub.WithHistory(store)
		}
	}

	if cfg.Notify.NATSURL != "" {
		n := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject)
		defer func() { _ = n.Close() }()
		pub.WithNotifier(n)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, runErr := pub.Run(ctx)

	if reg != nil && cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, reg); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Published %s\n", report)
	for _, w := range report.Warnings() {
		_, _ = fmt.Fprintf(out, "  warning: %v\n", w)
	}
	return nil
}

func (p *PublishCmd) applyOverrides(cfg *config.Config) {
	if p.Root != "" {
		cfg.Publish.Root = p.Root
	}
	if p.Package != "" {
		cfg.Publish.PackageFile = p.Package
	}
	if p.AliasMode != "" {
		cfg.Publish.AliasMode = alias.Mode(p.AliasMode)
	}
}

func (p *PublishCmd) resolveVersion(cfg *config.Config) (string, error) {
	if p.Semver != "" {
		return versioning.NewIdentifier(strings.TrimPrefix(p.Semver, versioning.Prefix))
	}
	return versioning.IdentifierFromPackage(cfg.Publish.PackageFile)
}
