package page

import (
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Event types dispatched by the site.
const (
	EventChange = "change"
	EventSubmit = "submit"
)

// Event is the payload handed to a listener.
type Event struct {
	Type   string
	Target *html.Node
	// Value is the new value of the target control (change events).
	Value string
	// Fields are the submitted form fields in document order (submit events).
	Fields []Field
}

// Entry is a single local-storage write.
type Entry struct {
	Key   string
	Value string
}

// Effect describes what a handler wants done. Handlers never perform side
// effects themselves; the caller applies the Effect.
type Effect struct {
	PreventDefault bool
	// Navigate is the URL the browsing context should move to.
	Navigate string
	// ColorScheme is the value for the root element's color-scheme.
	ColorScheme string
	// Persist is written to local storage when non-nil.
	Persist *Entry
}

// Handler maps an event to the side effects it asks for.
type Handler func(Event) Effect

type listener struct {
	id      uint64
	target  *html.Node
	typ     string
	handler Handler
}

// Listeners is an explicit event-listener registry. The zero value is
// ready to use.
type Listeners struct {
	mu      sync.Mutex
	nextID  uint64
	entries []listener
}

// On registers h for events of type typ on target and returns a function
// that removes the registration. Calling the disposer twice is harmless.
func (l *Listeners) On(target *html.Node, typ string, h Handler) (dispose func()) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listener{id: id, target: target, typ: typ, handler: h})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, e := range l.entries {
				if e.id == id {
					l.entries = append(l.entries[:i], l.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Dispatch delivers ev to every listener registered for its target and
// type, in registration order, and returns their effects. A change event
// on a <select> first updates the select's displayed value.
func (l *Listeners) Dispatch(ev Event) []Effect {
	if ev.Type == EventChange && ev.Target != nil && ev.Target.DataAtom == atom.Select {
		SetSelectValue(ev.Target, ev.Value)
	}

	l.mu.Lock()
	var matched []Handler
	for _, e := range l.entries {
		if e.target == ev.Target && e.typ == ev.Type {
			matched = append(matched, e.handler)
		}
	}
	l.mu.Unlock()

	effects := make([]Effect, 0, len(matched))
	for _, h := range matched {
		effects = append(effects, h(ev))
	}
	return effects
}
