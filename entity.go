package taxon

// EntityAllocator owns the 31-bit id space and its free-list. It is the
// only place entity ids are minted or recycled; World embeds one.
//
// Grounded on the teacher's entity.go/storage.go pairing (a table.EntryID
// tracked alongside a Recycled() counter, globalEntities grown by
// doubling) but generalized from "one struct per live entity, one global
// slice" to an explicit free-list allocator, since taxon's Entity carries
// no component storage of its own — components live in pools, not on the
// entity value.
type EntityAllocator struct {
	slots       []Entity // slots[id] == e while e is alive; holds the free-list link otherwise
	recycleHead uint32   // 0 = free-list empty
	nextFree    uint32   // next never-used id to mint; starts at 1 (0 is NullEntity)
}

// NewEntityAllocator returns an allocator with no entities yet created.
func NewEntityAllocator() *EntityAllocator {
	return &EntityAllocator{
		slots:    make([]Entity, 1), // index 0 unused, reserved for NullEntity
		nextFree: 1,
	}
}

// Create mints a fresh entity, reusing a recycled id when the free-list
// is non-empty. Fails with CapacityExhaustedError once the 31-bit id
// space is exhausted.
func (a *EntityAllocator) Create(prototype bool) (Entity, error) {
	var id uint32
	if a.recycleHead != 0 {
		id = a.recycleHead
		a.recycleHead = uint32(a.slots[id])
	} else {
		if a.nextFree > maxEntityID {
			return NullEntity, CapacityExhaustedError{}
		}
		id = a.nextFree
		a.nextFree++
		a.slots = append(a.slots, NullEntity)
	}
	e := newEntity(id, prototype)
	a.slots[id] = e
	return e, nil
}

// Destroy recycles e's id into the free-list. The caller is responsible
// for freeing any components attached to e first.
func (a *EntityAllocator) Destroy(e Entity) {
	id := e.ID()
	a.slots[id] = Entity(a.recycleHead)
	a.recycleHead = id
}

// Exists reports whether e is currently live: slot[id] == e and
// id < next_free, per spec §3.
func (a *EntityAllocator) Exists(e Entity) bool {
	id := e.ID()
	return id != 0 && id < a.nextFree && a.slots[id] == e
}

// Len returns the number of ids ever minted, including recycled ones.
func (a *EntityAllocator) Len() int { return int(a.nextFree) - 1 }

// AllocatorSnapshot is the serializable allocator state used by
// World.Snapshot (spec §6: "World-level snapshot carries (entities_bytes,
// next_free, recycle_next, sim_time)"). The byte-level encoding of the
// entities themselves is left to the external save/load codec; this
// struct only carries what the codec cannot derive on its own.
type AllocatorSnapshot struct {
	NextFree    uint32
	RecycleNext uint32
	Slots       []Entity
}

// Snapshot captures the allocator's state for an external codec to persist.
func (a *EntityAllocator) Snapshot() AllocatorSnapshot {
	slots := make([]Entity, len(a.slots))
	copy(slots, a.slots)
	return AllocatorSnapshot{
		NextFree:    a.nextFree,
		RecycleNext: a.recycleHead,
		Slots:       slots,
	}
}

// Restore replaces the allocator's state with a previously captured
// snapshot, as the external save/load codec's replay step requires.
func (a *EntityAllocator) Restore(s AllocatorSnapshot) {
	a.nextFree = s.NextFree
	a.recycleHead = s.RecycleNext
	a.slots = make([]Entity, len(s.Slots))
	copy(a.slots, s.Slots)
}
