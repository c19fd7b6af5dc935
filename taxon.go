package taxon

// taxonRegistry interns (meta-archetype, filter-combination) pairs
// behind a 16-bit TaxonID, lazily allocating new ids on first use and
// never freeing one during a run (spec §3 "Taxon" lifecycle).
type taxonRegistry struct {
	byKey   map[taxonKey]TaxonID
	metaOf  []metaArchetypeIndex
	comboOf []filterCombinationIndex
	byMeta  map[metaArchetypeIndex][]TaxonID
	next    TaxonID
}

type taxonKey struct {
	meta  metaArchetypeIndex
	combo filterCombinationIndex
}

func newTaxonRegistry() *taxonRegistry {
	r := &taxonRegistry{
		byKey:   make(map[taxonKey]TaxonID),
		byMeta:  make(map[metaArchetypeIndex][]TaxonID),
		metaOf:  make([]metaArchetypeIndex, firstFreeTaxon),
		comboOf: make([]filterCombinationIndex, firstFreeTaxon),
		next:    firstFreeTaxon,
	}
	// TaxonPrototype and TaxonDefault are reserved placeholders; Default
	// is formally bound to (meta=0, combo=0) when newWorld constructs a World.
	return r
}

// bind forces key (meta,combo) to resolve to id — used once, by newWorld,
// to reserve TaxonDefault for the default meta-archetype.
func (r *taxonRegistry) bind(id TaxonID, meta metaArchetypeIndex, combo filterCombinationIndex) {
	key := taxonKey{meta, combo}
	r.byKey[key] = id
	r.metaOf[id] = meta
	r.comboOf[id] = combo
	r.byMeta[meta] = append(r.byMeta[meta], id)
}

// exactTaxon returns the taxon naming (meta, combo), allocating one if
// this pair has not been seen before.
func (r *taxonRegistry) exactTaxon(meta metaArchetypeIndex, combo filterCombinationIndex) TaxonID {
	key := taxonKey{meta, combo}
	if id, ok := r.byKey[key]; ok {
		return id
	}
	if uint32(r.next) > maxTaxonID {
		panic(invariantViolation("taxon id space exhausted"))
	}
	id := r.next
	r.next++
	r.metaOf = append(r.metaOf, meta)
	r.comboOf = append(r.comboOf, combo)
	r.byKey[key] = id
	r.byMeta[meta] = append(r.byMeta[meta], id)
	return id
}

func (r *taxonRegistry) metaArchetypeOf(t TaxonID) metaArchetypeIndex {
	return r.metaOf[t]
}

func (r *taxonRegistry) combinationOf(t TaxonID) filterCombinationIndex {
	return r.comboOf[t]
}

// taxaOf returns every taxon ever allocated for meta, in allocation order.
func (r *taxonRegistry) taxaOf(meta metaArchetypeIndex) []TaxonID {
	return r.byMeta[meta]
}
