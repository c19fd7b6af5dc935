package taxon

import "sort"

// Query is a compiled, ordered list of taxa matching one archetype, and
// optionally narrowed to a filter combination (spec §4.2
// "Query/QueryEngine").
//
// Grounded on the teacher's query.go (QueryNode And/Or/Not composite tree
// evaluated against each archetype's mask), generalized: instead of
// walking archetype tables directly, a Query resolves to the set of taxa
// whose meta-archetype is a superset of the requested archetype and
// (if filters are given) whose filter combination is an exact or
// superset match of the requested filter values.
type Query struct {
	taxa []TaxonID
}

// Taxa returns the taxon ids this query matched, in ascending id order,
// so the order is stable for a given World state.
func (q Query) Taxa() []TaxonID { return q.taxa }

// MakeQuery compiles every taxon whose meta-archetype fully covers decl,
// regardless of filter combination. Must be called after Initialize,
// once every archetype has had a chance to be bound to the
// meta-archetypes reconciliation derives.
func (w *World) MakeQuery(decl *Archetype) (Query, error) {
	if !w.initialized {
		return Query{}, NotInitializedError{Operation: "MakeQuery"}
	}
	var taxa []TaxonID
	for meta := range w.superArches[decl.index] {
		taxa = append(taxa, w.taxons.taxaOf(meta)...)
	}
	sort.Slice(taxa, func(i, j int) bool { return taxa[i] < taxa[j] })
	return Query{taxa: taxa}, nil
}

// MakeFilteredQuery compiles every taxon whose meta-archetype covers
// decl AND whose filter combination contains every filter instance in
// values (exact match or any precomputed proper superset). Filter
// instances never yet observed together yield an empty query, per spec
// §4.1 rather than silently interning a new combination.
func (w *World) MakeFilteredQuery(decl *Archetype, values []FilterInstanceIndex) (Query, error) {
	if !w.initialized {
		return Query{}, NotInitializedError{Operation: "MakeFilteredQuery"}
	}
	exact, ok := w.filterCombos.lookup(values)
	if !ok {
		return Query{}, nil
	}
	combos := append([]filterCombinationIndex{exact}, w.filterCombos.properSupersetsOf(exact)...)
	var taxa []TaxonID
	for meta := range w.superArches[decl.index] {
		for _, combo := range combos {
			if t, ok := w.taxons.byKey[taxonKey{meta, combo}]; ok {
				taxa = append(taxa, t)
			}
		}
	}
	sort.Slice(taxa, func(i, j int) bool { return taxa[i] < taxa[j] })
	return Query{taxa: taxa}, nil
}
