package serve

import (
	"errors"
	"log/slog"
	"os/exec"
	"runtime"

	"git.home.luguber.info/inful/docshelf/internal/logfields"
)

// ErrUnsupportedPlatform is returned when no browser launcher is known for the OS.
var ErrUnsupportedPlatform = errors.New("no browser launcher for this platform")

// Opener opens a URL in the user's browser.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// LaunchCommand returns the command that opens url on goos.
func LaunchCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		// The empty argument is the window title expected by start.
		return "cmd", []string{"/c", "start", "", url}, nil
	case "linux":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, ErrUnsupportedPlatform
	}
}

// CommandOpener launches the platform browser command without waiting for it.
type CommandOpener struct {
	GOOS  string
	Start func(name string, args ...string) error
}

// NewCommandOpener returns an opener for the running platform.
func NewCommandOpener() *CommandOpener {
	return &CommandOpener{GOOS: runtime.GOOS, Start: startDetached}
}

func (o *CommandOpener) Open(url string) error {
	name, args, err := LaunchCommand(o.GOOS, url)
	if err != nil {
		return err
	}
	return o.Start(name, args...)
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("Browser launcher exited with error", logfields.Error(err))
		}
	}()
	return nil
}
