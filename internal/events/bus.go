// Package events is the in-process event bus for routing, session and
// PCM state changes.
package events

import (
	"github.com/kelindar/event"
)

// Bus delivers each event to the subscribers of its concrete type.
type Bus struct {
	d *event.Dispatcher
}

// New creates a bus.
func New() *Bus {
	return &Bus{d: event.NewDispatcher()}
}

// Publish hands ev to the dispatcher. Publishing on a nil bus is a no-op,
// so components built without a bus need no guards.
func (b *Bus) Publish(ev Event) {
	if b == nil || ev == nil {
		return
	}
	ev.dispatch(b.d)
}

// On subscribes fn to events of type T and returns the unsubscribe func.
//
//	unsub := events.On(bus, func(e events.RouteAppliedEvent) { ... })
func On[T Event](b *Bus, fn func(T)) func() {
	return event.Subscribe(b.d, fn)
}

// Forward copies events of type T into ch without blocking. Events are
// dropped while ch is full.
func Forward[T Event](b *Bus, ch chan<- any) func() {
	return On(b, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
