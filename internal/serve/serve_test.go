package serve

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

// publishRoot lays out a root with the given versions, the latest alias and a manifest.
func publishRoot(t *testing.T, latest string, versions ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, v := range versions {
		dir := filepath.Join(root, v)
		require.NoError(t, os.MkdirAll(dir, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("docs "+v), 0o600))
	}
	if latest != "" {
		require.NoError(t, alias.Update(root, latest, alias.ModeSymlink))
		require.NoError(t, manifest.Write(root, manifest.Manifest{Latest: latest, Versions: versions}))
	}
	return root
}

func TestResolveLatest(t *testing.T) {
	t.Run("manifest names latest", func(t *testing.T) {
		root := publishRoot(t, "v1.1.0", "v1.1.0", "v1.0.0")
		v, reason := ResolveLatest(root)
		require.NoError(t, reason)
		require.Equal(t, "v1.1.0", v)
	})

	t.Run("missing manifest", func(t *testing.T) {
		v, reason := ResolveLatest(t.TempDir())
		require.Error(t, reason)
		require.Equal(t, alias.Name, v)
	})

	t.Run("corrupt manifest", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(manifest.Path(root), []byte("not json"), 0o600))
		v, reason := ResolveLatest(root)
		require.Error(t, reason)
		require.Equal(t, alias.Name, v)
	})

	t.Run("manifest without latest", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(manifest.Path(root), []byte(`{"versions":["v1.0.0"]}`), 0o600))
		v, reason := ResolveLatest(root)
		require.ErrorIs(t, reason, manifest.ErrNoLatest)
		require.Equal(t, alias.Name, v)
	})
}

func TestValidate(t *testing.T) {
	root := publishRoot(t, "v1.0.0", "v1.0.0")
	require.NoError(t, Validate(root, "v1.0.0"))
	require.NoError(t, Validate(root, alias.Name))

	err := Validate(root, "v9.0.0")
	require.Error(t, err)
	require.Equal(t, derrors.CategoryNotFound, derrors.GetCategory(err))
	require.Equal(t, derrors.SeverityFatal, derrors.GetSeverity(err))

	require.Error(t, Validate(root, manifest.FileName))
}

func TestLaunchCommand(t *testing.T) {
	url := "http://127.0.0.1:6006/v1.0.0/"
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{url}},
		{"windows", "cmd", []string{"/c", "start", "", url}},
		{"linux", "xdg-open", []string{url}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := LaunchCommand(tt.goos, url)
			require.NoError(t, err)
			require.Equal(t, tt.name, name)
			require.Equal(t, tt.args, args)
		})
	}

	_, _, err := LaunchCommand("plan9", url)
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestCommandOpener(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := &CommandOpener{GOOS: "linux", Start: func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}
	require.NoError(t, o.Open("http://127.0.0.1:6006/latest/"))
	require.Equal(t, "xdg-open", gotName)
	require.Equal(t, []string{"http://127.0.0.1:6006/latest/"}, gotArgs)

	o.GOOS = "aix"
	require.ErrorIs(t, o.Open("http://x"), ErrUnsupportedPlatform)
}

func TestBrowserURLUsesBoundHost(t *testing.T) {
	tests := []struct {
		name string
		addr net.Addr
		want string
	}{
		{"specific interface", &net.TCPAddr{IP: net.ParseIP("192.168.1.5"), Port: 6006}, "http://192.168.1.5:6006/v1.0.0/"},
		{"loopback", &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 6006}, "http://127.0.0.1:6006/v1.0.0/"},
		{"ipv4 wildcard", &net.TCPAddr{IP: net.IPv4zero, Port: 6006}, "http://127.0.0.1:6006/v1.0.0/"},
		{"ipv6 wildcard", &net.TCPAddr{IP: net.IPv6unspecified, Port: 7000}, "http://127.0.0.1:7000/v1.0.0/"},
		{"ipv6 loopback", &net.TCPAddr{IP: net.IPv6loopback, Port: 6006}, "http://[::1]:6006/v1.0.0/"},
		{"no ip", &net.TCPAddr{Port: 6006}, "http://127.0.0.1:6006/v1.0.0/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, browserURL(tt.addr, "v1.0.0"))
		})
	}
}

func TestStateString(t *testing.T) {
	require.Equal(t, "serving", StateServing.String())
	require.Equal(t, "unknown", State(99).String())
}

func TestRunFailsWithoutVersionDirectory(t *testing.T) {
	opened := false
	s := New(Options{
		Root:        t.TempDir(),
		Host:        "127.0.0.1",
		OpenBrowser: true,
		Opener:      OpenerFunc(func(string) error { opened = true; return nil }),
	})

	err := s.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, derrors.CategoryNotFound, derrors.GetCategory(err))
	require.Equal(t, StateFatal, s.State())
	require.Nil(t, s.Addr())
	require.Equal(t, alias.Name, s.Serving())
	select {
	case <-s.Ready():
		t.Fatal("server should not become ready")
	default:
	}
	require.False(t, opened)
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func startServer(t *testing.T, opts Options) (*Server, string, func() error) {
	t.Helper()
	s := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-s.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not become ready")
	}

	stop := func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return errors.New("server did not stop")
		}
	}
	return s, "http://" + s.Addr().String(), stop
}

func TestRunServesPublishRoot(t *testing.T) {
	root := publishRoot(t, "v1.0.0", "v1.0.0")
	opened := make(chan string, 1)
	s, base, stop := startServer(t, Options{
		Root:          root,
		Host:          "127.0.0.1",
		OpenBrowser:   true,
		BrowserDelay:  10 * time.Millisecond,
		WatchManifest: true,
		Opener:        OpenerFunc(func(url string) error { opened <- url; return nil }),
	})
	require.Equal(t, StateServing, s.State())
	require.Equal(t, "v1.0.0", s.Serving())

	resp, body := get(t, base+"/v1.0.0/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "docs v1.0.0", body)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body = get(t, base+"/latest/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "docs v1.0.0", body)

	resp, body = get(t, base+"/versions.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"latest": "v1.0.0"`)

	resp, body = get(t, base+HealthRoute)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"serving":"v1.0.0"`)

	req, err := http.NewRequest(http.MethodOptions, base+"/versions.json", nil)
	require.NoError(t, err)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = preflight.Body.Close()
	require.Equal(t, http.StatusNoContent, preflight.StatusCode)

	select {
	case url := <-opened:
		require.Equal(t, base+"/v1.0.0/", url)
	case <-time.After(5 * time.Second):
		t.Fatal("browser was not opened")
	}

	// A new publish rewrites the manifest while the server runs.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "v1.1.0"), 0o750))
	require.NoError(t, manifest.Write(root, manifest.Manifest{Latest: "v1.1.0", Versions: []string{"v1.1.0", "v1.0.0"}}))
	require.Eventually(t, func() bool {
		latest, _ := s.Published()
		return latest == "v1.1.0"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, stop())
	require.Equal(t, StateStopped, s.State())
}

func TestRunFallsBackToLatestAlias(t *testing.T) {
	root := publishRoot(t, "v1.0.0", "v1.0.0")
	require.NoError(t, os.Remove(manifest.Path(root)))

	s, base, stop := startServer(t, Options{Root: root, Host: "127.0.0.1"})
	require.Equal(t, alias.Name, s.Serving())

	resp, body := get(t, base+"/latest/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "docs v1.0.0", body)
	require.NoError(t, stop())
}

func TestRunWithoutManifestOrAliasIsFatal(t *testing.T) {
	root := publishRoot(t, "", "v1.0.0")
	err := New(Options{Root: root, Host: "127.0.0.1"}).Run(context.Background())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}

func TestHandlerRoutes(t *testing.T) {
	root := publishRoot(t, "v1.0.0", "v1.0.0")
	metricsHit := false
	s := New(Options{
		Root: root,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			metricsHit = true
			w.WriteHeader(http.StatusOK)
		}),
	})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.True(t, metricsHit)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_switch?version=v1.0.0", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/v1.0.0/index.html", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_switcher", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<select")
}
