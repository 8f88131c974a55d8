package player

import (
	"sync"
	"time"
)

// EventType names a player event.
type EventType string

const (
	EventPlay        EventType = "play"
	EventPause       EventType = "pause"
	EventStop        EventType = "stop"
	EventEnded       EventType = "ended"
	EventPlaying     EventType = "playing"
	EventLoaded      EventType = "loaded"
	EventVerbose     EventType = "verbose"
	EventImageLoaded EventType = "imageloaded"
	EventLoadError   EventType = "loaderror"
)

// Event is a notification raised by a player.
type Event struct {
	Type   EventType `json:"type"`
	Player string    `json:"player"`
	Time   time.Time `json:"time"`

	// Frame is the current frame for playing, stop and ended.
	Frame int `json:"frame,omitempty"`
	// From and To are the play range for play.
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`
	// Image is the 1-based source image for imageloaded and loaderror.
	Image  int `json:"image,omitempty"`
	Loaded int `json:"loaded,omitempty"`
	Total  int `json:"total,omitempty"`
	// Text carries verbose output and load errors.
	Text string `json:"text,omitempty"`

	// run identifies the play invocation that was active when the event
	// was raised.
	run uint64
}

// Listener receives events.
type Listener func(Event)

// Subscription identifies a registered listener.
type Subscription uint64

type subscriber struct {
	id   Subscription
	typ  EventType // empty matches every event
	fn   Listener
	once bool
}

// Events is a listener registry.
type Events struct {
	mu   sync.Mutex
	next Subscription
	subs []subscriber
}

// On registers fn for events of type typ.
func (e *Events) On(typ EventType, fn Listener) Subscription {
	return e.add(typ, fn, false)
}

// Once registers fn for the next event of type typ only. The listener is
// removed before it runs.
func (e *Events) Once(typ EventType, fn Listener) Subscription {
	return e.add(typ, fn, true)
}

// OnAll registers fn for every event.
func (e *Events) OnAll(fn Listener) Subscription {
	return e.add("", fn, false)
}

func (e *Events) add(typ EventType, fn Listener, once bool) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.subs = append(e.subs, subscriber{id: e.next, typ: typ, fn: fn, once: once})
	return e.next
}

// Off removes a listener. It reports whether the listener was registered.
func (e *Events) Off(id Subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of listeners for typ, not counting OnAll ones.
func (e *Events) Count(typ EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, s := range e.subs {
		if s.typ == typ {
			n++
		}
	}
	return n
}

func (e *Events) clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = nil
}

func (e *Events) emit(ev Event) {
	e.mu.Lock()
	var fns []Listener
	kept := e.subs[:0]
	for _, s := range e.subs {
		if s.typ == "" || s.typ == ev.Type {
			fns = append(fns, s.fn)
			if s.once {
				continue
			}
		}
		kept = append(kept, s)
	}
	e.subs = kept
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
