// Package browser is the boundary to the window system: opening popup
// windows, navigating the current surface, and the cross-window message
// channel OAuth popups report back on.
//
// The auth and oauth packages depend only on the interfaces here; the
// concrete implementations (system browser + loopback callback relay) live
// in this package too, and tests substitute fakes.
package browser

import "errors"

// ErrNavigationUnsupported is returned by navigators that have no surface to
// redirect (e.g. a headless run). Callers treat navigation as best-effort.
var ErrNavigationUnsupported = errors.New("navigation not supported")

// Rect is a window rectangle in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Window is an open popup window. Closed reports whether the user (or the
// remote page) has dismissed it; the owner polls this, it is not a blocking
// wait.
type Window interface {
	Closed() bool
}

// Opener opens popup windows and knows the bounds of the opener surface so
// popups can be centered over it.
type Opener interface {
	Bounds() Rect
	Open(url, name string, bounds Rect) (Window, error)
}

// Navigator points the current surface at a new location, like assigning
// window.location in a browser. Implementations may legitimately fail
// (nothing to navigate); callers must not treat that as fatal.
type Navigator interface {
	Navigate(path string) error
}

// NopNavigator is a Navigator for surfaces that cannot be redirected, such
// as a terminal session. Navigate always reports ErrNavigationUnsupported.
type NopNavigator struct{}

func (NopNavigator) Navigate(string) error { return ErrNavigationUnsupported }

// PopupRect computes the rectangle for a w×h popup centered over the opener
// bounds, raised slightly above true center. Offsets never go negative so a
// popup larger than the opener still lands on screen.
func PopupRect(opener Rect, w, h int) Rect {
	left := opener.X + max(0, (opener.Width-w)/2)
	top := opener.Y + max(0, (opener.Height-h)/2-40)
	return Rect{X: left, Y: top, Width: w, Height: h}
}
