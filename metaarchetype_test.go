package taxon

import "testing"

func TestMetaArchetypeKeyStableUnderOrdering(t *testing.T) {
	a := newMetaArchetype(0, []ComponentTypeID{2, 1}, []ComponentTypeID{5})
	b := newMetaArchetype(0, []ComponentTypeID{1, 2}, []ComponentTypeID{5})
	if a.key() != b.key() {
		t.Errorf("key() differed for the same bag declared in different order: %q vs %q", a.key(), b.key())
	}
}

func TestMetaArchetypeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b []ComponentTypeID
		want bool
	}{
		{"disjoint", []ComponentTypeID{1}, []ComponentTypeID{2}, false},
		{"shared member", []ComponentTypeID{1, 2}, []ComponentTypeID{2, 3}, true},
		{"identical", []ComponentTypeID{1, 2}, []ComponentTypeID{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma := newMetaArchetype(0, tt.a, nil)
			mb := newMetaArchetype(0, tt.b, nil)
			if got := ma.overlaps(mb); got != tt.want {
				t.Errorf("overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetaArchetypeIsSubsetOf(t *testing.T) {
	small := newMetaArchetype(0, []ComponentTypeID{1}, nil)
	big := newMetaArchetype(1, []ComponentTypeID{1, 2, 3}, nil)

	if !small.isSubsetOf(big) {
		t.Errorf("expected {1} to be a subset of {1,2,3}")
	}
	if big.isSubsetOf(small) {
		t.Errorf("did not expect {1,2,3} to be a subset of {1}")
	}
	if !small.isSubsetOf(small) {
		t.Errorf("a bag must be a subset of itself (non-strict ⊆)")
	}
}

func TestUnionBagDedups(t *testing.T) {
	a := newMetaArchetype(0, []ComponentTypeID{1, 2}, []ComponentTypeID{9})
	b := newMetaArchetype(1, []ComponentTypeID{2, 3}, []ComponentTypeID{9})

	components, filters := unionBag(a, b)
	if len(components) != 3 {
		t.Errorf("unionBag() components = %v, want 3 distinct ids", components)
	}
	if len(filters) != 1 {
		t.Errorf("unionBag() filters = %v, want 1 distinct id (deduped)", filters)
	}
}

func TestSortedUnique(t *testing.T) {
	got := sortedUnique([]ComponentTypeID{3, 1, 2, 1, 3})
	want := []ComponentTypeID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("sortedUnique() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sortedUnique()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
