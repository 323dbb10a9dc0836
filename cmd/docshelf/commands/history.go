package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/docshelf/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show (0 for all)" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	out := g.out()
	if _, err := os.Stat(cfg.History.Path); err != nil {
		_, _ = fmt.Fprintln(out, "No publish history recorded")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No publish history recorded")
		return nil
	}

	_, _ = fmt.Fprintf(out, "%-20s  %-12s  %-9s  %-8s  %s\n", "STARTED", "VERSION", "OUTCOME", "COMMIT", "RUN")
	for _, r := range runs {
		commit := r.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		if commit == "" {
			commit = "-"
		}
		_, _ = fmt.Fprintf(out, "%-20s  %-12s  %-9s  %-8s  %s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Version, r.Outcome, commit, r.ID)
		for _, w := range r.Warnings {
			_, _ = fmt.Fprintf(out, "    %s\n", strings.TrimSpace(w))
		}
	}
	return nil
}
