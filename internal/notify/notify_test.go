package notify

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	require.NoError(t, n.Notify(context.Background(), Event{Version: "v1.0.0"}))
	require.NoError(t, n.Close())
}

func TestNewNATSNotifierDefaultSubject(t *testing.T) {
	require.Equal(t, DefaultSubject, NewNATSNotifier("nats://127.0.0.1:4222", "").Subject())
	require.Equal(t, "docs.events", NewNATSNotifier("nats://127.0.0.1:4222", "docs.events").Subject())
}

func TestNATSNotifierUnreachableServer(t *testing.T) {
	// Reserve a port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	n := NewNATSNotifier("nats://"+addr, "")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = n.Notify(ctx, Event{RunID: "r1", Version: "v1.0.0", Versions: []string{"v1.0.0"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to connect to NATS")
	require.NoError(t, n.Close())
}

func TestEventJSONShape(t *testing.T) {
	data, err := json.Marshal(Event{RunID: "r1", Version: "v1.1.0", Versions: []string{"v1.1.0", "v1.0.0"}})
	require.NoError(t, err)
	require.JSONEq(t, `{"run_id":"r1","version":"v1.1.0","versions":["v1.1.0","v1.0.0"]}`, string(data))
}
