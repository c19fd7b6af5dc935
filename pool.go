package taxon

import (
	"io"

	"github.com/TheBitDrifter/table"
)

// PoolHandle is the type-erased interface every DataPool[T], ListPool[T]
// and FilterPool[T] satisfies, letting World and the Scheduler manage
// pools of unrelated T uniformly (spec §4.2 "Component pool"). Grounded
// on the teacher's componentaccessible.go tagged-variant pattern, which
// keeps a concrete T behind an interface boundary so storage.go can walk
// a heterogeneous slice of components without reflection at the call
// site.
type PoolHandle interface {
	// TypeID returns the ComponentTypeID this pool was declared with.
	TypeID() ComponentTypeID
	// Kind reports whether this pool holds data, list, or filter components.
	Kind() ComponentKind
	// HasComponent reports whether e currently holds a component in this pool.
	HasComponent(e Entity) bool
	// Destroy removes e's component, if any, applying swap-back removal.
	Destroy(e Entity)
	// UpdateTaxon migrates e's row from its current taxon to newTaxon,
	// called during reconciliation once the entity's new taxon is known.
	// A no-op if e has no component in this pool.
	UpdateTaxon(e Entity, newTaxon TaxonID)
	// Serialize writes this pool's component data for e to w.
	Serialize(e Entity, w io.Writer) error
	// Deserialize reads a component for e from r and adds it.
	Deserialize(e Entity, r io.Reader) error
}

// filterPoolHandle narrows PoolHandle for pools of filter components,
// which additionally need to expose their per-entity filter instance for
// FilterCombination recomputation during reconciliation (spec §4.1 step 1).
type filterPoolHandle interface {
	PoolHandle
	// InstanceOf returns the global FilterInstanceIndex currently bound
	// to e in this pool, and whether e has a component at all.
	InstanceOf(e Entity) (FilterInstanceIndex, bool)
}

// componentRecord is the bookkeeping every concrete pool keeps per live
// entity: the table.EntryID identifying its row. Because table.EntryIndex
// tracks an entry's current (table, position) across TransferEntries
// calls, looking the row up by this id always finds it, no matter how
// many times it has migrated between taxa.
//
// Grounded on the teacher's entity.go pattern of resolving an entity's
// live location through globalEntryIndex.Entry(id) rather than caching a
// (table, index) pair directly, generalized to one EntryIndex per pool
// instead of one shared across the whole world, since a single entity
// can hold rows in several pools at once.
type componentRecord struct {
	id    table.EntryID
	taxon TaxonID
}

// componentIndex packs rec's taxon together with e's position within
// that taxon's canonical entity_map into spec §3's ComponentIndex, the
// addressing scheme external callers (e.g. a save-file codec) use
// instead of a raw table.EntryID. Positions line up across every pool
// sharing a taxon because World.ProcessComponentChanges migrates all of
// an entity's pools into a new taxon within the same reconciliation
// step (spec invariant 2).
func componentIndex(w *World, rec componentRecord, e Entity) ComponentIndex {
	pos, ok := w.taxonPosition[rec.taxon][e]
	if !ok {
		return NullComponentIndex
	}
	return packComponentIndex(rec.taxon, uint32(pos))
}
