package event

// Event is one notification raised by a weapon
type Event struct {
	Type    EventType
	Source  uint64 // Weapon id
	Payload any
}

// Handler processes routed events
type Handler interface {
	HandleEvent(ev Event)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleEvent(ev Event) { f(ev) }

// Subscription identifies a registration for Unsubscribe
type Subscription struct {
	Type EventType
	id   uint64
}

type entry struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously, in subscription order
// Single-threaded: owned by one weapon, never shared across goroutines
type Bus struct {
	handlers [eventTypeCount][]entry
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for t
func (b *Bus) Subscribe(t EventType, h Handler) Subscription {
	if t < 0 || t >= eventTypeCount || h == nil {
		return Subscription{Type: t}
	}
	b.nextID++
	b.handlers[t] = append(b.handlers[t], entry{id: b.nextID, handler: h})
	return Subscription{Type: t, id: b.nextID}
}

// Unsubscribe removes a registration; unknown or repeated subscriptions are ignored
func (b *Bus) Unsubscribe(s Subscription) {
	if s.id == 0 || s.Type < 0 || s.Type >= eventTypeCount {
		return
	}
	list := b.handlers[s.Type]
	for i, e := range list {
		if e.id == s.id {
			// Fresh slice so an in-flight Publish keeps iterating its snapshot
			next := make([]entry, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.handlers[s.Type] = next
			return
		}
	}
}

// Publish delivers ev to every handler registered for its type
func (b *Bus) Publish(ev Event) {
	if b == nil || ev.Type < 0 || ev.Type >= eventTypeCount {
		return
	}
	for _, e := range b.handlers[ev.Type] {
		e.handler.HandleEvent(ev)
	}
}

// HandlerCount returns the number of handlers registered for t
func (b *Bus) HandlerCount(t EventType) int {
	if t < 0 || t >= eventTypeCount {
		return 0
	}
	return len(b.handlers[t])
}
