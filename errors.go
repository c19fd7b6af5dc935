package taxon

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// InvariantViolationError marks a categorical, unrecoverable violation of
// a core invariant (spec §7): the engine state is not guaranteed usable
// after one of these is raised.
type InvariantViolationError struct {
	Reason string
}

func (e InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

// invariantViolation wraps an InvariantViolationError with a stack trace,
// ready to panic with, the same way entity.go/query.go in the teacher
// wrap errors with bark.AddTrace before panicking.
func invariantViolation(reason string) error {
	return bark.AddTrace(InvariantViolationError{Reason: reason})
}

// CapacityExhaustedError marks the 31-bit entity id space running out.
type CapacityExhaustedError struct{}

func (e CapacityExhaustedError) Error() string {
	return "entity id space exhausted (31-bit ceiling reached)"
}

// ComponentExistsError reports an attempt to add a component type an
// entity already carries.
type ComponentExistsError struct {
	Entity Entity
	Type   ComponentTypeID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("entity %d already has component type %d", e.Entity, e.Type)
}

// ComponentNotFoundError reports an attempt to read or destroy a
// component record an entity does not carry.
type ComponentNotFoundError struct {
	Entity Entity
	Type   ComponentTypeID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("entity %d has no component of type %d", e.Entity, e.Type)
}

// MissingRegistryEntryError reports a named-registry lookup miss with no
// fallback loader supplied — a fatal, categorical failure per spec §7.
type MissingRegistryEntryError struct {
	Name string
}

func (e MissingRegistryEntryError) Error() string {
	return fmt.Sprintf("no registry entry named %q and no fallback loader supplied", e.Name)
}

// EmptyQueueError reports a pop/peek/top-priority call against an empty
// PriorityQueue.
type EmptyQueueError struct{}

func (e EmptyQueueError) Error() string {
	return "priority queue is empty"
}

// RunawayScheduleError reports a scheduled system that fired more
// entities in a single pass of Scheduler.drainScheduled than the
// scheduler guard allows without draining its queue — spec's
// only cancellation mechanism (§5), so buggy feedback loops cannot
// silently stall a tick.
type RunawayScheduleError struct {
	System    string
	Guard     int
	ClockTime float64
}

func (e RunawayScheduleError) Error() string {
	return fmt.Sprintf("system %q exceeded %d iterations in a single drain at clock %.3f", e.System, e.Guard, e.ClockTime)
}

// PrototypeEntityError reports an operation applied to an entity whose
// prototype flag does not allow it. World.Instantiate returns it when
// given an entity that is not a prototype.
type PrototypeEntityError struct {
	Entity    Entity
	Operation string
}

func (e PrototypeEntityError) Error() string {
	return fmt.Sprintf("operation %q is not allowed on entity %d given its prototype flag", e.Operation, e.Entity)
}

// NotInitializedError reports any World operation that requires
// Initialize to have run first (create_entity, make_query).
type NotInitializedError struct {
	Operation string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("world is not initialized: cannot %s", e.Operation)
}

// AlreadyInitializedError reports Initialize called more than once, or
// AddArchetype called after Initialize.
type AlreadyInitializedError struct{}

func (e AlreadyInitializedError) Error() string {
	return "world is already initialized: archetypes must be declared beforehand"
}
