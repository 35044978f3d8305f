package dom

import (
	"sort"
	"testing"
)

func TestClickInvokesListener(t *testing.T) {
	n := NewElement("button")
	calls := 0
	n.AddEventListener("click", func(e *Event) {
		calls++
		if e.Target != n || e.CurrentTarget != n {
			t.Error("target mismatch")
		}
	})

	if got := n.Click(); got != 1 {
		t.Errorf("Click() = %d listeners, want 1", got)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.OuterHTML() != "<button></button>" {
		t.Errorf("listeners must not serialize, got %q", n.OuterHTML())
	}
}

func TestEventBubbles(t *testing.T) {
	outer := NewElement("div")
	inner := NewElement("span")
	_ = outer.AppendChild(inner)

	var order []string
	outer.AddEventListener("click", func(e *Event) {
		order = append(order, "outer")
		if e.Target != inner || e.CurrentTarget != outer {
			t.Error("bubbled event has wrong targets")
		}
	})
	inner.AddEventListener("click", func(*Event) { order = append(order, "inner") })

	inner.Click()
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("order = %v", order)
	}
}

func TestStopPropagation(t *testing.T) {
	outer := NewElement("div")
	inner := NewElement("span")
	_ = outer.AppendChild(inner)

	outerCalled := false
	outer.AddEventListener("click", func(*Event) { outerCalled = true })
	inner.AddEventListener("click", func(e *Event) { e.StopPropagation() })
	inner.AddEventListener("click", func(*Event) {})

	if got := inner.Click(); got != 2 {
		t.Errorf("Click() = %d, want 2", got)
	}
	if outerCalled {
		t.Error("outer listener should not run after StopPropagation")
	}
}

func TestListenerBookkeeping(t *testing.T) {
	n := NewElement("input")
	n.AddEventListener("input", func(*Event) {})
	n.AddEventListener("input", func(*Event) {})
	n.AddEventListener("focus", func(*Event) {})
	n.AddEventListener("blur", nil)

	if n.ListenerCount("input") != 2 {
		t.Errorf("ListenerCount(input) = %d", n.ListenerCount("input"))
	}
	if n.ListenerCount("blur") != 0 {
		t.Error("nil listener should be ignored")
	}
	types := n.EventTypes()
	sort.Strings(types)
	if len(types) != 2 || types[0] != "focus" || types[1] != "input" {
		t.Errorf("EventTypes() = %v", types)
	}
	if n.DispatchEvent(&Event{Type: "change"}) != 0 {
		t.Error("no listeners should run for change")
	}
}
