// Package notify announces published versions to other systems.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "docshelf.published"

// Event describes a completed publish.
type Event struct {
	RunID    string   `json:"run_id"`
	Version  string   `json:"version"`
	Versions []string `json:"versions"`
}

// Notifier delivers publish events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close() error
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }
func (NoopNotifier) Close() error                        { return nil }

// NATSNotifier publishes events as JSON on a NATS subject. The connection is
// opened on first use.
type NATSNotifier struct {
	url     string
	subject string
	timeout time.Duration

	mu   sync.Mutex
	conn *nats.Conn
}

// NewNATSNotifier returns a notifier for url and subject. An empty subject
// means DefaultSubject.
func NewNATSNotifier(url, subject string) *NATSNotifier {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSNotifier{url: url, subject: subject, timeout: 2 * time.Second}
}

// Subject returns the subject events are published on.
func (n *NATSNotifier) Subject() string { return n.subject }

func (n *NATSNotifier) connect() (*nats.Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil && !n.conn.IsClosed() {
		return n.conn, nil
	}
	conn, err := nats.Connect(n.url,
		nats.Name("docshelf"),
		nats.Timeout(n.timeout),
		nats.NoReconnect(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	n.conn = conn
	return conn, nil
}

// Notify publishes ev and flushes the connection.
func (n *NATSNotifier) Notify(ctx context.Context, ev Event) error {
	if ev.Versions == nil {
		ev.Versions = []string{}
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := n.connect()
	if err != nil {
		return err
	}
	if err := conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", n.subject, err)
	}

	flushCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		flushCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	if err := conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("flush NATS connection: %w", err)
	}
	return nil
}

// Close drains and closes the connection if one was opened.
func (n *NATSNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Drain()
	n.conn = nil
	return err
}
