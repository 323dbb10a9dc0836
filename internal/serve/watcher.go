package serve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docshelf/internal/logfields"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

// publishedState tracks the manifest contents while the server runs.
type publishedState struct {
	mu       sync.RWMutex
	latest   string
	versions []string
}

func (p *publishedState) get() (string, []string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, slices.Clone(p.versions)
}

// update stores m and reports whether latest changed.
func (p *publishedState) update(m *manifest.Manifest) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	changed := p.latest != m.Latest
	p.latest = m.Latest
	p.versions = slices.Clone(m.Versions)
	return changed
}

// prime loads the manifest at startup without announcing it.
func (p *publishedState) prime(root string) {
	if m, err := manifest.Read(root); err == nil {
		p.update(m)
	}
}

// refresh reloads the manifest from root. Unreadable manifests keep the previous state.
func (p *publishedState) refresh(root string) {
	m, err := manifest.Read(root)
	if err != nil {
		slog.Debug("Manifest not readable", logfields.Error(err))
		return
	}
	prev, _ := p.get()
	if p.update(m) && m.Latest != "" {
		slog.Info("New version published", logfields.Version(m.Latest), slog.String("previous", prev))
	}
}

// setupManifestWatcher watches root for changes to versions.json. The manifest
// is rewritten in place by publish, so the directory is watched rather than the file.
func setupManifestWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	return watcher, nil
}

func runManifestWatch(ctx context.Context, watcher *fsnotify.Watcher, root string, state *publishedState) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != manifest.FileName {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Manifest change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			state.refresh(root)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}
