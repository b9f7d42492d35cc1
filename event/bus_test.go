package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusOrderAndFilter(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(EventMagazineConsumed, HandlerFunc(func(ev Event) {
		got = append(got, "first")
	}))
	bus.Subscribe(EventMagazineConsumed, HandlerFunc(func(ev Event) {
		p := ev.Payload.(*MagazinePayload)
		assert.Equal(t, 4, p.Remaining)
		got = append(got, "second")
	}))
	bus.Subscribe(EventReloaded, HandlerFunc(func(ev Event) {
		got = append(got, "reload")
	}))

	bus.Publish(Event{Type: EventMagazineConsumed, Payload: &MagazinePayload{Remaining: 4}})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0
	var sub Subscription
	sub = bus.Subscribe(EventShellChanged, HandlerFunc(func(ev Event) {
		calls++
		bus.Unsubscribe(sub)
	}))
	bus.Subscribe(EventShellChanged, HandlerFunc(func(ev Event) { calls++ }))

	bus.Publish(Event{Type: EventShellChanged})
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, bus.HandlerCount(EventShellChanged))

	bus.Publish(Event{Type: EventShellChanged})
	assert.Equal(t, 3, calls)

	// Repeated and zero-value unsubscribes are ignored
	bus.Unsubscribe(sub)
	bus.Unsubscribe(Subscription{})
	assert.Equal(t, 1, bus.HandlerCount(EventShellChanged))
}

func TestPublishUnknownTypeIgnored(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: EventType(99)})
		bus.Subscribe(EventType(-1), HandlerFunc(func(Event) {}))
		var nilBus *Bus
		nilBus.Publish(Event{Type: EventReloaded})
	})
}
