package taxon

import "reflect"

// EventBus is a double-buffered, type-indexed event channel (spec §4.2
// "EventBus"). Emit writes land in the emit buffer; Listen reads come
// from the listen buffer populated by the most recent SwapBuffers call,
// which is the sole visibility boundary between producers and
// consumers within one tick.
//
// Grounded on the teacher's Registry[T]-style append-only interning
// (here a plain map keyed by reflect.Type, since an event's Go type is
// its only natural identity) and on storage.go's lock/operationQueue split
// between "things happening now" and "things visible after the current
// phase completes."
type EventBus struct {
	emit   map[reflect.Type][]any
	listen map[reflect.Type][]any
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		emit:   make(map[reflect.Type][]any),
		listen: make(map[reflect.Type][]any),
	}
}

// Emit queues event for delivery on the next SwapBuffers.
func Emit[T any](b *EventBus, event T) {
	t := reflect.TypeOf(event)
	b.emit[t] = append(b.emit[t], event)
}

// Listen returns every event of type T made visible by the last
// SwapBuffers call.
func Listen[T any](b *EventBus) []T {
	var zero T
	t := reflect.TypeOf(zero)
	raw := b.listen[t]
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out
}

// HasListeners reports whether any event of type T is currently visible.
func HasListeners[T any](b *EventBus) bool {
	return len(Listen[T](b)) > 0
}

// SwapBuffers publishes everything emitted since the last call and
// clears the emit buffer for the next tick.
func (b *EventBus) SwapBuffers() {
	b.listen = b.emit
	b.emit = make(map[reflect.Type][]any)
}

// eventTypesEmitted reports the set of event types queued in the emit
// buffer right now. The Scheduler does not call it: it orders systems
// from their Emitter/Listener declarations instead.
func (b *EventBus) eventTypesEmitted() map[reflect.Type]bool {
	out := make(map[reflect.Type]bool, len(b.emit))
	for t := range b.emit {
		out[t] = true
	}
	return out
}
