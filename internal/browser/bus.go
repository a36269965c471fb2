package browser

import "sync"

// MessageSource is the discriminant carried by OAuth popup completion
// messages. Anything else on the channel is noise and must be ignored.
const MessageSource = "oauth-popup"

// Message is one cross-window message. Only messages with
// Source == MessageSource belong to this module; Token is the bearer token
// minted by the callback and Redirect an optional post-login path hint.
type Message struct {
	Source   string
	Token    string
	Redirect string
}

// Bus delivers cross-window messages to subscribers. Subscribe returns a
// receive channel and an unsubscribe func; the func is idempotent and closes
// the channel, so a drained subscriber never leaks.
type Bus interface {
	Subscribe() (<-chan Message, func())
}

// LocalBus is an in-process Bus. Publishing never blocks: a subscriber that
// has fallen behind its buffer simply misses the message, mirroring how
// window message events are fire-and-forget.
type LocalBus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Message
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]chan Message)}
}

func (b *LocalBus) Subscribe() (<-chan Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Message, 4)
	b.subs[id] = ch

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, unsub
}

// Publish delivers m to every current subscriber.
func (b *LocalBus) Publish(m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- m:
		default:
		}
	}
}
