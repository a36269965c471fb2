// Package alerts keeps the in-memory queue of user-facing notifications.
// Rendering belongs to the UI; this package only owns the queue and the
// auto-dismiss timers.
package alerts

import (
	"sync"
	"time"
)

// DefaultTimeout is how long an alert stays up unless the caller overrides
// it. A zero timeout disables auto-dismiss.
const DefaultTimeout = 5 * time.Second

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Alert is one queued notification.
type Alert struct {
	ID   int64
	Kind Kind
	Text string
}

// Queue is a concurrency-safe alert queue. Timers fire on their own
// goroutines, so every mutation takes the lock.
type Queue struct {
	mu      sync.Mutex
	next    int64
	alerts  []Alert
	timers  map[int64]*time.Timer
	timeout time.Duration
}

// NewQueue builds a queue with the given default auto-dismiss timeout;
// timeout < 0 selects DefaultTimeout.
func NewQueue(timeout time.Duration) *Queue {
	if timeout < 0 {
		timeout = DefaultTimeout
	}
	return &Queue{timers: make(map[int64]*time.Timer), timeout: timeout}
}

// Push queues an alert and arms its auto-dismiss timer. Returns the alert ID
// for manual dismissal.
func (q *Queue) Push(kind Kind, text string) int64 {
	return q.PushTimeout(kind, text, q.timeout)
}

// PushTimeout is Push with a per-alert timeout; 0 disables auto-dismiss.
func (q *Queue) PushTimeout(kind Kind, text string, timeout time.Duration) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	id := q.next
	q.alerts = append(q.alerts, Alert{ID: id, Kind: kind, Text: text})

	if timeout > 0 {
		q.timers[id] = time.AfterFunc(timeout, func() { q.Dismiss(id) })
	}
	return id
}

func (q *Queue) Info(text string) int64    { return q.Push(KindInfo, text) }
func (q *Queue) Success(text string) int64 { return q.Push(KindSuccess, text) }
func (q *Queue) Error(text string) int64   { return q.Push(KindError, text) }

// Dismiss removes one alert and disarms its timer. Dismissing an unknown ID
// is a no-op, so a timer firing after a manual dismiss is harmless.
func (q *Queue) Dismiss(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if tm, ok := q.timers[id]; ok {
		tm.Stop()
		delete(q.timers, id)
	}
	for i, a := range q.alerts {
		if a.ID == id {
			q.alerts = append(q.alerts[:i], q.alerts[i+1:]...)
			return
		}
	}
}

// Clear drops every alert and disarms all timers.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, tm := range q.timers {
		tm.Stop()
		delete(q.timers, id)
	}
	q.alerts = nil
}

// Messages returns a snapshot of the queue in push order.
func (q *Queue) Messages() []Alert {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Alert, len(q.alerts))
	copy(out, q.alerts)
	return out
}
