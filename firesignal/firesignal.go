/*
Package firesignal provides named, process-wide signal channels.

PURPOSE:
  Decouples the alarm fire callback from whoever reacts to it. The callback
  posts to a channel looked up by name; listeners subscribe by the same
  name. Neither side holds a reference to the other, so the callback stays
  safely invocable when the rest of the application is not running.

CONTRACT:
  - Post MUST be non-blocking. A post with no listeners, or with listeners
    that have fallen behind, is dropped.
  - Subscribers receive on buffered channels.

  Delivery is therefore at-most-once per subscriber; the fire signal is a
  nudge, not a queue.
*/
package firesignal

import "sync"

// Signal is the token delivered on a fire-event channel.
type Signal struct {
	Token string
	ID    int32
}

const subscriberBuffer = 8

type channel struct {
	mu   sync.Mutex
	subs map[chan Signal]struct{}
}

var (
	mu       sync.Mutex
	channels = map[string]*channel{}
)

func lookup(name string) *channel {
	mu.Lock()
	defer mu.Unlock()
	ch := channels[name]
	if ch == nil {
		ch = &channel{subs: map[chan Signal]struct{}{}}
		channels[name] = ch
	}
	return ch
}

// Post delivers sig to every subscriber of the named channel. It never
// blocks; subscribers that cannot keep up miss the signal.
func Post(name string, sig Signal) {
	ch := lookup(name)
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for sub := range ch.subs {
		select {
		case sub <- sig:
		default:
		}
	}
}

// Subscribe registers a listener on the named channel. The returned cancel
// func removes the subscription; the channel is not closed, so a receive
// racing cancellation simply never completes.
func Subscribe(name string) (<-chan Signal, func()) {
	ch := lookup(name)
	sub := make(chan Signal, subscriberBuffer)

	ch.mu.Lock()
	ch.subs[sub] = struct{}{}
	ch.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			ch.mu.Lock()
			delete(ch.subs, sub)
			ch.mu.Unlock()
		})
	}
	return sub, cancel
}
