package oauth

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/zipboard/zipboard/internal/browser"
	"github.com/zipboard/zipboard/internal/logging"
	"github.com/zipboard/zipboard/internal/models"
)

// DefaultPollInterval is how often the popup window is checked for
// user-initiated closure.
const DefaultPollInterval = 400 * time.Millisecond

const (
	popupWidth  = 520
	popupHeight = 640
)

var (
	// ErrPopupBlocked: the window never opened. No listener or timer was
	// registered.
	ErrPopupBlocked = errors.New("popup blocked")

	// ErrPopupClosed: the user dismissed the popup before a completion
	// message arrived.
	ErrPopupClosed = errors.New("popup closed")

	// ErrPopupInFlight: a second popup attempt was started while one is
	// still waiting. One attempt at a time.
	ErrPopupInFlight = errors.New("popup authentication already in flight")
)

// TokenExchanger turns a bearer token into a committed session. The auth
// service implements it.
type TokenExchanger interface {
	LoginWithToken(ctx context.Context, token string) (*models.User, error)
}

// Result is a completed popup authentication: the refreshed user and the
// post-login redirect hint carried by the completion message.
type Result struct {
	User     *models.User
	Redirect string
}

// PopupFlow authenticates through a popup window. An attempt walks
// opening → waiting → settled: the window opens at the provider URL with the
// popup marker, then two triggers race — a liveness poll noticing the window
// was closed, and the completion message on the bus. Whichever fires first
// settles the attempt; settling stops the poll and drops the subscription
// exactly once, and every later trigger is a no-op.
type PopupFlow struct {
	urls     URLBuilder
	opener   browser.Opener
	bus      browser.Bus
	exchange TokenExchanger
	poll     time.Duration
	log      logging.Logger

	inFlight atomic.Bool
}

// NewPopupFlow wires a popup flow. poll <= 0 selects DefaultPollInterval.
func NewPopupFlow(urls URLBuilder, opener browser.Opener, bus browser.Bus, exchange TokenExchanger, poll time.Duration, log logging.Logger) *PopupFlow {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if log == nil {
		log = logging.Nop()
	}
	return &PopupFlow{urls: urls, opener: opener, bus: bus, exchange: exchange, poll: poll, log: log}
}

// Start runs one popup authentication attempt and blocks until it settles.
// There is no internal timeout: the wait is bounded only by the user closing
// the popup or ctx being cancelled.
func (f *PopupFlow) Start(ctx context.Context, provider, redirectPath string) (*Result, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, ErrPopupInFlight
	}
	defer f.inFlight.Store(false)

	providerURL := f.urls.ProviderURL(provider, redirectPath, true)
	bounds := browser.PopupRect(f.opener.Bounds(), popupWidth, popupHeight)

	win, err := f.opener.Open(providerURL, "oauth_popup_"+provider, bounds)
	if err != nil || win == nil {
		f.log.Warn(ctx, "popup failed to open", "provider", provider, "error", err)
		return nil, ErrPopupBlocked
	}

	msgs, unsub := f.bus.Subscribe()
	ticker := time.NewTicker(f.poll)

	a := &attempt{
		win:         win,
		stopTicker:  ticker.Stop,
		unsubscribe: unsub,
		outcome:     make(chan outcome, 1),
	}

	// Event dispatch is sequential: each case runs to completion before the
	// next is selected, so the settled flag needs no lock.
	for !a.settled {
		select {
		case <-ticker.C:
			a.onTick()
		case m, ok := <-msgs:
			if !ok {
				msgs = nil
				continue
			}
			a.onMessage(m)
		case <-ctx.Done():
			a.settle(outcome{err: ctx.Err()})
		}
	}

	o := <-a.outcome
	if o.err != nil {
		f.log.Info(ctx, "popup rejected", "provider", provider, "reason", o.err)
		return nil, o.err
	}

	user, err := f.exchange.LoginWithToken(ctx, o.msg.Token)
	if err != nil {
		return nil, err
	}

	f.log.Info(ctx, "popup completed", "provider", provider, "user", user.ID)
	return &Result{User: user, Redirect: o.msg.Redirect}, nil
}

type outcome struct {
	msg *browser.Message
	err error
}

// attempt is one in-flight popup authentication: the window handle, the
// release hooks for the liveness ticker and the bus subscription, and the
// settled flag that makes settlement a one-time action.
type attempt struct {
	win         browser.Window
	stopTicker  func()
	unsubscribe func()
	settled     bool
	outcome     chan outcome
}

// settle records the first outcome and releases the ticker and the
// subscription. Later calls are no-ops: when both triggers fire back to
// back, only the first is honored. The window itself is never force-closed;
// the provider page closes it after posting the message.
func (a *attempt) settle(o outcome) {
	if a.settled {
		return
	}
	a.settled = true
	a.stopTicker()
	a.unsubscribe()
	a.outcome <- o
}

// onTick is the liveness poll: a closed window settles as rejected.
func (a *attempt) onTick() {
	if a.win.Closed() {
		a.settle(outcome{err: ErrPopupClosed})
	}
}

// onMessage inspects one cross-window message. Payloads without the popup
// discriminant are ignored without affecting state; a matching message
// settles as completed.
func (a *attempt) onMessage(m browser.Message) {
	if m.Source != browser.MessageSource {
		return
	}
	a.settle(outcome{msg: &m})
}
