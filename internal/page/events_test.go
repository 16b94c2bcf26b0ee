package page

import (
	"testing"

	"golang.org/x/net/html/atom"
)

func TestListeners_DispatchInOrder(t *testing.T) {
	var l Listeners
	form := Element(atom.Form)
	other := Element(atom.Form)

	l.On(form, EventSubmit, func(ev Event) Effect { return Effect{Navigate: "first"} })
	l.On(form, EventSubmit, func(ev Event) Effect { return Effect{Navigate: "second"} })
	l.On(other, EventSubmit, func(ev Event) Effect { return Effect{Navigate: "other"} })
	l.On(form, EventChange, func(ev Event) Effect { return Effect{Navigate: "change"} })

	effects := l.Dispatch(Event{Type: EventSubmit, Target: form})
	if len(effects) != 2 || effects[0].Navigate != "first" || effects[1].Navigate != "second" {
		t.Fatalf("effects = %+v", effects)
	}
}

func TestListeners_Dispose(t *testing.T) {
	var l Listeners
	form := Element(atom.Form)
	dispose := l.On(form, EventSubmit, func(ev Event) Effect { return Effect{PreventDefault: true} })
	if l.Len() != 1 {
		t.Fatalf("Len = %d", l.Len())
	}
	dispose()
	dispose()
	if l.Len() != 0 {
		t.Fatalf("Len after dispose = %d", l.Len())
	}
	if effects := l.Dispatch(Event{Type: EventSubmit, Target: form}); len(effects) != 0 {
		t.Errorf("disposed listener still fired: %+v", effects)
	}
}

func TestListeners_ChangeUpdatesSelectFirst(t *testing.T) {
	var l Listeners
	sel := Element(atom.Select)
	for _, v := range []string{"a", "b"} {
		opt := Element(atom.Option, "value", v)
		sel.AppendChild(opt)
	}

	var seen string
	l.On(sel, EventChange, func(ev Event) Effect {
		seen = SelectValue(ev.Target)
		return Effect{}
	})
	l.Dispatch(Event{Type: EventChange, Target: sel, Value: "b"})
	if seen != "b" {
		t.Errorf("handler saw select value %q, want b", seen)
	}
}
