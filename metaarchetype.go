package taxon

import (
	"sort"
	"strconv"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// metaArchetype is the internally derived, maximal bag that is the
// union-closure of every user archetype overlapping on a given entity's
// component set (spec §3 "Meta-archetype"). Index 0 is always the
// reserved default meta-archetype (empty bag), bound to TaxonDefault.
type metaArchetype struct {
	index         metaArchetypeIndex
	components    []ComponentTypeID
	filters       []ComponentTypeID
	componentMask mask.Mask
	filterMask    mask.Mask
}

func newMetaArchetype(index metaArchetypeIndex, components, filters []ComponentTypeID) *metaArchetype {
	components = sortedUnique(components)
	filters = sortedUnique(filters)
	m := &metaArchetype{index: index, components: components, filters: filters}
	for _, id := range components {
		m.componentMask.Mark(uint32(id))
	}
	for _, id := range filters {
		m.filterMask.Mark(uint32(id))
	}
	return m
}

func (m *metaArchetype) key() string {
	var b strings.Builder
	for _, id := range m.components {
		b.WriteString(strconv.Itoa(int(id)))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, id := range m.filters {
		b.WriteString(strconv.Itoa(int(id)))
		b.WriteByte(',')
	}
	return b.String()
}

// hasComponent reports whether t is part of this meta-archetype's declared
// component set (data or list kind).
func (m *metaArchetype) hasComponent(t ComponentTypeID) bool {
	return m.componentMask.ContainsAll(singletonMask(t))
}

// containsFilterType reports whether t is part of this meta-archetype's
// declared filter set.
func (m *metaArchetype) containsFilterType(t ComponentTypeID) bool {
	return m.filterMask.ContainsAll(singletonMask(t))
}

// overlaps reports whether m and o share at least one component type —
// the merge trigger in the greedy closure algorithm (spec §4.1 step 3).
func (m *metaArchetype) overlaps(o *metaArchetype) bool {
	return m.componentMask.ContainsAny(o.componentMask)
}

// isSubsetOf reports whether every component and filter type of m is
// also declared by o — the "subset relation" the closure algorithm
// checks before merging two bags.
func (m *metaArchetype) isSubsetOf(o *metaArchetype) bool {
	return o.componentMask.ContainsAll(m.componentMask) && o.filterMask.ContainsAll(m.filterMask)
}

// unionBag merges a and b's component and filter sets without allocating
// a metaArchetypeIndex — used mid-closure, before the final bag is
// interned into the world's global meta-archetype registry.
func unionBag(a, b *metaArchetype) (components, filters []ComponentTypeID) {
	components = sortedUnique(append(append([]ComponentTypeID{}, a.components...), b.components...))
	filters = sortedUnique(append(append([]ComponentTypeID{}, a.filters...), b.filters...))
	return components, filters
}

func sortedUnique(ids []ComponentTypeID) []ComponentTypeID {
	if len(ids) == 0 {
		return nil
	}
	cp := append([]ComponentTypeID{}, ids...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:1]
	for _, id := range cp[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func singletonMask(id ComponentTypeID) mask.Mask {
	var m mask.Mask
	m.Mark(uint32(id))
	return m
}
