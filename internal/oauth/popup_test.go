package oauth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipboard/zipboard/internal/browser"
	"github.com/zipboard/zipboard/internal/models"
)

// ---- fakes ----

type fakeWindow struct {
	closed atomic.Bool
}

func (w *fakeWindow) Closed() bool { return w.closed.Load() }

type fakeOpener struct {
	Win     browser.Window
	Err     error
	Opens   atomic.Int32
	LastURL string
	LastNm  string
	LastB   browser.Rect
}

func (o *fakeOpener) Bounds() browser.Rect {
	return browser.Rect{X: 0, Y: 0, Width: 1200, Height: 900}
}

func (o *fakeOpener) Open(url, name string, bounds browser.Rect) (browser.Window, error) {
	o.Opens.Add(1)
	o.LastURL = url
	o.LastNm = name
	o.LastB = bounds
	return o.Win, o.Err
}

// fakeBus counts subscriptions and unsubscription calls.
type fakeBus struct {
	ch     chan browser.Message
	subs   atomic.Int32
	unsubs atomic.Int32
}

func newFakeBus() *fakeBus {
	return &fakeBus{ch: make(chan browser.Message, 8)}
}

func (b *fakeBus) Subscribe() (<-chan browser.Message, func()) {
	b.subs.Add(1)
	return b.ch, func() { b.unsubs.Add(1) }
}

type fakeExchanger struct {
	User      *models.User
	Err       error
	LastToken string
	Calls     int
}

func (e *fakeExchanger) LoginWithToken(ctx context.Context, token string) (*models.User, error) {
	e.Calls++
	e.LastToken = token
	return e.User, e.Err
}

func newFlow(opener browser.Opener, bus browser.Bus, ex TokenExchanger) *PopupFlow {
	return NewPopupFlow(NewURLBuilder("http://localhost:4000"), opener, bus, ex, time.Millisecond, nil)
}

// ---- TESTS ----

func TestPopupFlow_Blocked(t *testing.T) {
	bus := newFakeBus()
	flow := newFlow(&fakeOpener{Win: nil}, bus, &fakeExchanger{})

	_, err := flow.Start(context.Background(), "github", "/profile")
	require.ErrorIs(t, err, ErrPopupBlocked)

	// No listener, no poll: nothing was ever registered.
	assert.Zero(t, bus.subs.Load())
}

func TestPopupFlow_OpenErrorIsBlocked(t *testing.T) {
	bus := newFakeBus()
	flow := newFlow(&fakeOpener{Err: errors.New("denied")}, bus, &fakeExchanger{})

	_, err := flow.Start(context.Background(), "github", "/profile")
	require.ErrorIs(t, err, ErrPopupBlocked)
	assert.Zero(t, bus.subs.Load())
}

func TestPopupFlow_OpensPopupURLWithGeometry(t *testing.T) {
	opener := &fakeOpener{Win: &fakeWindow{}}
	bus := newFakeBus()
	flow := newFlow(opener, bus, &fakeExchanger{User: &models.User{ID: "u1"}})

	bus.ch <- browser.Message{Source: browser.MessageSource, Token: "tok"}
	_, err := flow.Start(context.Background(), "github", "/profile")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000/auth/github?redirect=%2Fprofile&popup=1", opener.LastURL)
	assert.Equal(t, "oauth_popup_github", opener.LastNm)
	// 520×640 centered over 1200×900, top raised 40.
	assert.Equal(t, browser.Rect{X: 340, Y: 90, Width: 520, Height: 640}, opener.LastB)
}

func TestPopupFlow_CompletesOnMessage(t *testing.T) {
	user := &models.User{ID: "u1", Username: "alice"}
	bus := newFakeBus()
	ex := &fakeExchanger{User: user}
	flow := newFlow(&fakeOpener{Win: &fakeWindow{}}, bus, ex)

	go func() {
		time.Sleep(5 * time.Millisecond)
		bus.ch <- browser.Message{Source: browser.MessageSource, Token: "tok-oauth", Redirect: "/profile"}
	}()

	res, err := flow.Start(context.Background(), "github", "/profile")
	require.NoError(t, err)

	assert.Equal(t, user, res.User)
	assert.Equal(t, "/profile", res.Redirect)
	assert.Equal(t, "tok-oauth", ex.LastToken)
	assert.Equal(t, int32(1), bus.unsubs.Load())
}

func TestPopupFlow_IgnoresForeignMessages(t *testing.T) {
	bus := newFakeBus()
	ex := &fakeExchanger{User: &models.User{ID: "u1"}}
	flow := newFlow(&fakeOpener{Win: &fakeWindow{}}, bus, ex)

	bus.ch <- browser.Message{Source: "analytics", Token: "nope"}
	bus.ch <- browser.Message{Source: browser.MessageSource, Token: "tok-real"}

	res, err := flow.Start(context.Background(), "github", "/profile")
	require.NoError(t, err)
	assert.Equal(t, "tok-real", ex.LastToken)
	assert.Equal(t, 1, ex.Calls)
	assert.NotNil(t, res.User)
}

func TestPopupFlow_RejectsWhenWindowClosed(t *testing.T) {
	win := &fakeWindow{}
	win.closed.Store(true)
	bus := newFakeBus()
	ex := &fakeExchanger{}
	flow := newFlow(&fakeOpener{Win: win}, bus, ex)

	_, err := flow.Start(context.Background(), "github", "/profile")
	require.ErrorIs(t, err, ErrPopupClosed)

	assert.Zero(t, ex.Calls)
	assert.Equal(t, int32(1), bus.unsubs.Load())
}

func TestPopupFlow_ExchangeErrorPropagates(t *testing.T) {
	boom := errors.New("exchange failed")
	bus := newFakeBus()
	flow := newFlow(&fakeOpener{Win: &fakeWindow{}}, bus, &fakeExchanger{Err: boom})

	bus.ch <- browser.Message{Source: browser.MessageSource, Token: "tok"}
	_, err := flow.Start(context.Background(), "github", "/profile")
	require.ErrorIs(t, err, boom)
}

func TestPopupFlow_ContextCancellation(t *testing.T) {
	bus := newFakeBus()
	flow := newFlow(&fakeOpener{Win: &fakeWindow{}}, bus, &fakeExchanger{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := flow.Start(ctx, "github", "/profile")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), bus.unsubs.Load())
}

func TestPopupFlow_SecondAttemptWhileWaiting(t *testing.T) {
	opener := &fakeOpener{Win: &fakeWindow{}}
	bus := newFakeBus()
	flow := newFlow(opener, bus, &fakeExchanger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := flow.Start(ctx, "github", "/profile")
		done <- err
	}()

	// The window opening means the first attempt holds the in-flight slot.
	require.Eventually(t, func() bool {
		return opener.Opens.Load() == 1
	}, time.Second, time.Millisecond)

	_, err := flow.Start(context.Background(), "github", "/profile")
	require.ErrorIs(t, err, ErrPopupInFlight)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

// Settlement is exactly-once even when both triggers fire back to back.
func TestAttempt_SettleIsIdempotent(t *testing.T) {
	win := &fakeWindow{}
	win.closed.Store(true)

	var stops, unsubs int
	a := &attempt{
		win:         win,
		stopTicker:  func() { stops++ },
		unsubscribe: func() { unsubs++ },
		outcome:     make(chan outcome, 1),
	}

	// Completion message and closure tick in immediate succession.
	a.onMessage(browser.Message{Source: browser.MessageSource, Token: "tok"})
	a.onTick()
	a.onTick()
	a.onMessage(browser.Message{Source: browser.MessageSource, Token: "late"})

	assert.True(t, a.settled)
	assert.Equal(t, 1, stops, "ticker released exactly once")
	assert.Equal(t, 1, unsubs, "listener released exactly once")

	// Only the first trigger is honored.
	o := <-a.outcome
	require.NotNil(t, o.msg)
	assert.Equal(t, "tok", o.msg.Token)
	assert.Empty(t, a.outcome)
}

func TestAttempt_ForeignMessageDoesNotSettle(t *testing.T) {
	a := &attempt{
		win:         &fakeWindow{},
		stopTicker:  func() {},
		unsubscribe: func() {},
		outcome:     make(chan outcome, 1),
	}

	a.onMessage(browser.Message{Source: "other"})
	assert.False(t, a.settled)

	// Open window: tick is a no-op too.
	a.onTick()
	assert.False(t, a.settled)
}
