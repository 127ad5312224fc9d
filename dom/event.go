package dom

// Event is dispatched to a node and bubbles up to the root.
type Event struct {
	Type  string
	Value any

	Target        *Node
	CurrentTarget *Node

	stopped   bool
	prevented bool
}

func (e *Event) StopPropagation()         { e.stopped = true }
func (e *Event) PreventDefault()          { e.prevented = true }
func (e *Event) PropagationStopped() bool { return e.stopped }
func (e *Event) DefaultPrevented() bool   { return e.prevented }

type Listener interface {
	HandleEvent(e *Event)
}

type ListenerFunc func(e *Event)

func (f ListenerFunc) HandleEvent(e *Event) { f(e) }

// AddEventListener installs l for events named name. A node holds at most one
// listener per name; a previous one is replaced.
func (n *Node) AddEventListener(name string, l Listener) {
	if n.listeners == nil {
		n.listeners = make(map[string]Listener)
	}
	n.listeners[name] = l
}

func (n *Node) RemoveEventListener(name string) {
	delete(n.listeners, name)
}

func (n *Node) Listener(name string) Listener {
	return n.listeners[name]
}

func (n *Node) Listeners() []string {
	return sortedKeys(n.listeners)
}

// Dispatch delivers e to n and its ancestors until a listener stops
// propagation. It returns false if a listener prevented the default action.
func (n *Node) Dispatch(e *Event) bool {
	e.Target = n
	for cur := n; cur != nil && !e.stopped; cur = cur.parent {
		if l := cur.listeners[e.Type]; l != nil {
			e.CurrentTarget = cur
			l.HandleEvent(e)
		}
	}
	e.CurrentTarget = nil
	return !e.prevented
}
