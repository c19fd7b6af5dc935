package taxon

import "github.com/TheBitDrifter/mask"

// Archetype is a user-declared bag of component types and filter
// types (spec §3 "Archetype"), interned at declaration time and
// referenced everywhere else by its ArchetypeIndex.
//
// Grounded on the teacher's storage.go archetypes bookkeeping
// (idsGroupedByMask, nextID) — generalized from "one archetype = one
// table.Table" to "one archetype = a declared bag that may be served by
// several taxa," since a single archetype can now overlap several
// meta-archetypes and filter combinations.
type Archetype struct {
	index         ArchetypeIndex
	components    []ComponentTypeID
	filters       []ComponentTypeID
	componentMask mask.Mask
	filterMask    mask.Mask
}

func newArchetypeDecl(index ArchetypeIndex, handles []PoolHandle) *Archetype {
	decl := &Archetype{index: index}
	for _, h := range handles {
		id := h.TypeID()
		if h.Kind() == KindFilter {
			decl.filters = append(decl.filters, id)
			decl.filterMask.Mark(uint32(id))
		} else {
			decl.components = append(decl.components, id)
			decl.componentMask.Mark(uint32(id))
		}
	}
	return decl
}
