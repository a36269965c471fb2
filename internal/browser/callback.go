package browser

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/zipboard/zipboard/internal/logging"
)

// CallbackRelay is the native stand-in for the popup→opener message channel.
// It listens on the loopback interface; when the provider callback finally
// redirects the popup to /callback?token=...&redirect=..., the relay turns
// the request into a MessageSource message on the bus and tells the popup
// page it can close.
type CallbackRelay struct {
	bus *LocalBus
	log logging.Logger

	srv  *http.Server
	addr string
}

func NewCallbackRelay(bus *LocalBus, log logging.Logger) *CallbackRelay {
	if log == nil {
		log = logging.Nop()
	}
	return &CallbackRelay{bus: bus, log: log}
}

// Start binds a loopback port and serves until Stop. Returns the base URL
// (http://127.0.0.1:<port>) the backend should redirect completed OAuth
// attempts to.
func (r *CallbackRelay) Start(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("callback relay listen: %w", err)
	}
	r.addr = "http://" + ln.Addr().String()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", r.handleCallback)
	r.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := r.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			r.log.Error(ctx, "callback relay stopped", "error", err)
		}
	}()

	r.log.Debug(ctx, "callback relay listening", "addr", r.addr)
	return r.addr, nil
}

// Addr returns the relay base URL; empty before Start.
func (r *CallbackRelay) Addr() string { return r.addr }

// Stop shuts the relay down, letting in-flight callbacks finish.
func (r *CallbackRelay) Stop(ctx context.Context) error {
	if r.srv == nil {
		return nil
	}
	return r.srv.Shutdown(ctx)
}

func (r *CallbackRelay) handleCallback(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	token := q.Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	r.bus.Publish(Message{
		Source:   MessageSource,
		Token:    token,
		Redirect: q.Get("redirect"),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!doctype html><title>Signed in</title>"+
		"<p>Signed in. You can close this window.</p>"+
		"<script>window.close()</script>")
}
