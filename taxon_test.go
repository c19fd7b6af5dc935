package taxon

import "testing"

func TestTaxonRegistryReservedSlots(t *testing.T) {
	r := newTaxonRegistry()
	r.bind(TaxonDefault, 0, 0)

	if got := r.metaArchetypeOf(TaxonDefault); got != 0 {
		t.Errorf("metaArchetypeOf(TaxonDefault) = %d, want 0", got)
	}
	if got, ok := r.byKey[taxonKey{0, 0}]; !ok || got != TaxonDefault {
		t.Errorf("byKey[{0,0}] = (%d, %v), want (%d, true)", got, ok, TaxonDefault)
	}
}

func TestTaxonRegistryExactTaxonLazyAllocation(t *testing.T) {
	r := newTaxonRegistry()

	a := r.exactTaxon(5, 2)
	b := r.exactTaxon(5, 2)
	if a != b {
		t.Errorf("exactTaxon(5,2) called twice returned %d then %d, want equal ids", a, b)
	}

	c := r.exactTaxon(5, 3)
	if c == a {
		t.Errorf("exactTaxon(5,3) collided with exactTaxon(5,2)'s id %d", a)
	}
}

func TestTaxonRegistryTaxaOfGroupsByMeta(t *testing.T) {
	r := newTaxonRegistry()
	t1 := r.exactTaxon(7, 0)
	t2 := r.exactTaxon(7, 1)
	other := r.exactTaxon(8, 0)

	taxa := r.taxaOf(7)
	if len(taxa) != 2 {
		t.Fatalf("taxaOf(7) = %v, want 2 entries", taxa)
	}
	seen := map[TaxonID]bool{taxa[0]: true, taxa[1]: true}
	if !seen[t1] || !seen[t2] {
		t.Errorf("taxaOf(7) = %v, want to contain %d and %d", taxa, t1, t2)
	}
	if seen[other] {
		t.Errorf("taxaOf(7) incorrectly included taxon %d from a different meta-archetype", other)
	}
}
