package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync/atomic"
)

// SystemOpener opens URLs in the platform's default browser. Since an
// external browser gives us no real window geometry, Bounds reports a
// nominal desktop rectangle and the requested popup bounds are advisory.
type SystemOpener struct {
	// command overrides the launcher binary, for tests.
	command string
}

func NewSystemOpener() *SystemOpener {
	return &SystemOpener{}
}

func (o *SystemOpener) Bounds() Rect {
	return Rect{Width: 1280, Height: 800}
}

func (o *SystemOpener) Open(url, name string, bounds Rect) (Window, error) {
	cmd := exec.Command(o.launcher(), url)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("opening browser: %w", err)
	}

	w := &processWindow{}
	go func() {
		if err := cmd.Wait(); err != nil {
			w.failed.Store(true)
		}
	}()
	return w, nil
}

func (o *SystemOpener) launcher() string {
	if o.command != "" {
		return o.command
	}
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32"
	default:
		return "xdg-open"
	}
}

// processWindow tracks the launcher process. Launchers like xdg-open hand the
// URL to an existing browser and exit successfully right away, so a clean
// exit tells us nothing about the tab; only a failed launch is reported as a
// closed window. An abandoned tab is bounded by the caller's context instead.
type processWindow struct {
	failed atomic.Bool
}

func (w *processWindow) Closed() bool {
	return w.failed.Load()
}
