package taxon

// factory implements the factory pattern for taxon's top-level types,
// mirroring the teacher's package-level Factory value.
type factory struct{}

// Factory is the global factory instance for constructing worlds,
// schedulers, and event buses.
var Factory factory

// NewWorld constructs an empty, uninitialized World.
func (f factory) NewWorld() *World {
	return newWorld()
}

// NewEventBus constructs an empty EventBus.
func (f factory) NewEventBus() *EventBus {
	return NewEventBus()
}

// NewScheduler constructs a Scheduler bound to bus.
func (f factory) NewScheduler(bus *EventBus) *Scheduler {
	return NewScheduler(bus)
}

// FactoryNewPriorityQueue constructs an empty PriorityQueue[T]. It is a
// package-level function because Go methods cannot take type parameters.
func FactoryNewPriorityQueue[T any]() *PriorityQueue[T] {
	return NewPriorityQueue[T]()
}
