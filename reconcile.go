package taxon

import "github.com/TheBitDrifter/mask"

// matchedArchetypes returns every declared archetype whose full
// component and filter set is covered by typeMask — the archetypes a
// given entity "satisfies" by virtue of the component types it
// currently holds (spec §4.1 step 2).
func (w *World) matchedArchetypes(typeMask, filterMask mask.Mask) []*Archetype {
	var out []*Archetype
	for _, decl := range w.archetypes {
		if typeMask.ContainsAll(decl.componentMask) && filterMask.ContainsAll(decl.filterMask) {
			out = append(out, decl)
		}
	}
	return out
}

// closureBag is one candidate meta-archetype mid-closure: either the
// declared bag of a matched archetype (members holds that one archetype)
// or the synthetic catch-all for component types no matched archetype
// covers (members is nil — nothing to bind into superArches for it).
type closureBag struct {
	bag     *metaArchetype
	members []*Archetype
}

// closeBags repeatedly merges or absorbs overlapping bags until no two
// remain in a genuine partial-overlap (spec §4.1 step 3: "Repeatedly
// pick two that share at least one component and are not in a subset
// relation; replace them with the union. Terminate when no two overlap
// without subset."). A bag that is a subset of another is absorbed into
// it directly (their union is the superset already, so no growth is
// needed) rather than merged, which is what keeps each final bag
// disjoint from every other — the minimal partition the spec describes.
func closeBags(bags []closureBag) []closureBag {
	for {
		merged := false
		for i := 0; i < len(bags) && !merged; i++ {
			for j := i + 1; j < len(bags); j++ {
				a, b := bags[i].bag, bags[j].bag
				switch {
				case a.isSubsetOf(b):
					bags[j].members = append(bags[j].members, bags[i].members...)
					bags = append(bags[:i], bags[i+1:]...)
					merged = true
				case b.isSubsetOf(a):
					bags[i].members = append(bags[i].members, bags[j].members...)
					bags = append(bags[:j], bags[j+1:]...)
					merged = true
				case a.overlaps(b):
					uc, uf := unionBag(a, b)
					union := closureBag{
						bag:     newMetaArchetype(0, uc, uf),
						members: append(append([]*Archetype{}, bags[i].members...), bags[j].members...),
					}
					bags = append(bags[:j], bags[j+1:]...)
					bags = append(bags[:i], bags[i+1:]...)
					bags = append(bags, union)
					merged = true
				}
				if merged {
					break
				}
			}
		}
		if !merged {
			return bags
		}
	}
}

// internMetaArchetype resolves bag's permanent metaArchetypeIndex,
// reusing an existing entry keyed by its component/filter set and never
// mutating one once registered — meta-archetypes are immutable after
// creation (spec §3).
func (w *World) internMetaArchetype(bag *metaArchetype) metaArchetypeIndex {
	key := bag.key()
	if idx, ok := w.metaByKey[key]; ok {
		return idx
	}
	idx := metaArchetypeIndex(len(w.metaArches))
	interned := newMetaArchetype(idx, bag.components, bag.filters)
	w.metaArches = append(w.metaArches, interned)
	w.metaByKey[interned.key()] = idx
	return idx
}

func (w *World) bindSuperArchetypes(matched []*Archetype, meta metaArchetypeIndex) {
	for _, decl := range matched {
		set := w.superArches[decl.index]
		if set == nil {
			set = make(map[metaArchetypeIndex]bool)
			w.superArches[decl.index] = set
		}
		set[meta] = true
	}
}

// GetExactTaxon returns the taxon for (meta, combo), allocating one if
// this is the first time the pairing has been observed.
func (w *World) GetExactTaxon(meta metaArchetypeIndex, combo filterCombinationIndex) TaxonID {
	return w.taxons.exactTaxon(meta, combo)
}

// ProcessComponentChanges reconciles every dirty entity (spec §4.1, the
// World's central algorithm). For each entity it:
//
//  1. finds every declared archetype the entity's current component set
//     satisfies (matchedArchetypes);
//  2. partitions the entity's components across the greedy overlap-closure
//     of those archetypes, plus one catch-all bag for any held component
//     type no matched archetype covers (closeBags) — metas are immutable
//     once interned, so a type is routed to whichever meta actually
//     contains it rather than collapsed into one meta per entity;
//  3. recomputes the entity's FilterCombination from every filter pool it
//     holds a value in;
//  4. derives the exact taxon for each final bag and migrates the
//     entity's world-level entity_map membership and every affected
//     pool's row to match.
//
// An entity with zero bags (it holds no components at all) is left in
// TaxonDefault.
func (w *World) ProcessComponentChanges() error {
	if !w.initialized {
		return NotInitializedError{Operation: "ProcessComponentChanges"}
	}
	for e := range w.dirty {
		if !w.allocator.Exists(e) {
			continue
		}
		typeMask := w.entityTypeMask[e]
		matched := w.matchedArchetypes(typeMask, typeMask)

		var bags []closureBag
		covered := map[ComponentTypeID]bool{}
		for _, decl := range matched {
			bags = append(bags, closureBag{
				bag:     newMetaArchetype(0, decl.components, decl.filters),
				members: []*Archetype{decl},
			})
			for _, id := range decl.components {
				covered[id] = true
			}
			for _, id := range decl.filters {
				covered[id] = true
			}
		}

		var uncoveredComponents, uncoveredFilters []ComponentTypeID
		var instances []FilterInstanceIndex
		for _, h := range w.pools {
			if !h.HasComponent(e) {
				continue
			}
			if fp, ok := h.(filterPoolHandle); ok {
				if inst, has := fp.InstanceOf(e); has {
					instances = append(instances, inst)
				}
				if !covered[h.TypeID()] {
					uncoveredFilters = append(uncoveredFilters, h.TypeID())
				}
				continue
			}
			if !covered[h.TypeID()] {
				uncoveredComponents = append(uncoveredComponents, h.TypeID())
			}
		}
		if len(uncoveredComponents) > 0 || len(uncoveredFilters) > 0 {
			bags = append(bags, closureBag{
				bag: newMetaArchetype(0, uncoveredComponents, uncoveredFilters),
			})
		}

		combo := w.filterCombos.intern(instances)

		typeTaxon := map[ComponentTypeID]TaxonID{}
		needed := map[TaxonID]bool{}
		if len(bags) == 0 {
			needed[TaxonDefault] = true
		} else {
			for _, closed := range closeBags(bags) {
				idx := w.internMetaArchetype(closed.bag)
				if len(closed.members) > 0 {
					w.bindSuperArchetypes(closed.members, idx)
				}
				taxon := w.GetExactTaxon(idx, combo)
				needed[taxon] = true
				for _, id := range closed.bag.components {
					typeTaxon[id] = taxon
				}
				for _, id := range closed.bag.filters {
					typeTaxon[id] = taxon
				}
			}
		}

		current := w.taxonMembers(e)
		for t := range current {
			if !needed[t] {
				w.leaveTaxon(t, e)
			}
		}
		for t := range needed {
			w.joinTaxon(t, e)
		}

		for _, h := range w.pools {
			if !h.HasComponent(e) {
				continue
			}
			if taxon, ok := typeTaxon[h.TypeID()]; ok {
				h.UpdateTaxon(e, taxon)
			}
		}
	}
	w.dirty = make(map[Entity]bool)
	return nil
}
