package taxon

// WorldSnapshot is the serializable state spec §6 names: the entity
// allocator's free-list state plus the World's simulation time value.
// Nothing in this package advances that value (the Scheduler keeps its
// own Clock); only Restore sets it. Pool contents are not part of the
// snapshot: callers serialize them per entity through
// PoolHandle.Serialize, since a World has no fixed component list known
// in advance.
type WorldSnapshot struct {
	Entities AllocatorSnapshot
	SimTime  float64
}

// Snapshot captures the entity allocator and clock. Component data is
// intentionally out of scope (spec Non-goals: "save/load codec"); callers
// needing full persistence drive PoolHandle.Serialize per entity
// themselves, keyed by the component names ComponentByName resolves.
func (w *World) Snapshot() WorldSnapshot {
	return WorldSnapshot{
		Entities: w.allocator.Snapshot(),
		SimTime:  w.simTime,
	}
}

// Restore reinstates the entity allocator and clock captured by Snapshot.
// It does not touch pool contents, archetypes, or taxa.
func (w *World) Restore(s WorldSnapshot) {
	w.allocator.Restore(s.Entities)
	w.simTime = s.SimTime
}
