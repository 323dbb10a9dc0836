package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docshelf/internal/fsutil"
	"git.home.luguber.info/inful/docshelf/internal/logfields"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

// VersionsCmd implements the 'versions' command.
type VersionsCmd struct {
	Root string `short:"r" help:"Publish root directory (overrides publish.root)"`
	JSON bool   `name:"json" help:"Print the manifest as JSON"`
}

func (v *VersionsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if v.Root != "" {
		cfg.Publish.Root = v.Root
	}

	// The directories are the source of truth; the manifest only adds latest.
	var versions []string
	if fsutil.Exists(cfg.Publish.Root) {
		versions, err = manifest.ScanVersions(cfg.Publish.Root, cfg.Publish.SortOrder)
		if err != nil {
			return err
		}
	}
	latest := ""
	if m, merr := manifest.Read(cfg.Publish.Root); merr == nil {
		latest = m.Latest
	} else {
		slog.Debug("No usable manifest", logfields.Error(merr))
	}

	out := g.out()
	if v.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if versions == nil {
			versions = []string{}
		}
		return enc.Encode(manifest.Manifest{Latest: latest, Versions: versions})
	}

	if len(versions) == 0 {
		_, _ = fmt.Fprintln(out, "No versions published")
		return nil
	}
	for _, id := range versions {
		marker := " "
		if id == latest {
			marker = "*"
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", marker, id)
	}
	return nil
}
