package dom

// Event is dispatched to a node's listeners.
type Event struct {
	// Type is the event name, e.g. "click".
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *Node

	stopped bool
}

// StopPropagation prevents the event from bubbling to further ancestors.
// Remaining listeners on the current node still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event.
type Listener func(*Event)

// AddEventListener registers l for events of the given type.
func (n *Node) AddEventListener(eventType string, l Listener) {
	if l == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[eventType] = append(n.listeners[eventType], l)
}

// ListenerCount returns the number of listeners registered for eventType.
func (n *Node) ListenerCount(eventType string) int {
	return len(n.listeners[eventType])
}

// EventTypes returns the event types with at least one listener.
func (n *Node) EventTypes() []string {
	out := make([]string, 0, len(n.listeners))
	for t, ls := range n.listeners {
		if len(ls) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// DispatchEvent delivers ev to n and then to each ancestor of n.
// It returns the number of listeners invoked.
func (n *Node) DispatchEvent(ev *Event) int {
	ev.Target = n
	calls := 0
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		ev.CurrentTarget = cur
		// Copy so listeners added during dispatch do not run for this event.
		ls := append([]Listener(nil), cur.listeners[ev.Type]...)
		for _, l := range ls {
			l(ev)
			calls++
		}
	}
	ev.CurrentTarget = nil
	return calls
}

// Click dispatches a "click" event on n.
func (n *Node) Click() int {
	return n.DispatchEvent(&Event{Type: "click"})
}
