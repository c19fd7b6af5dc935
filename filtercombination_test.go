package taxon

import "testing"

func TestFilterComboRegistryInternDedup(t *testing.T) {
	r := newFilterComboRegistry()

	a := r.intern([]FilterInstanceIndex{3, 1, 2})
	b := r.intern([]FilterInstanceIndex{1, 2, 3})
	if a != b {
		t.Errorf("intern() of the same set in different order returned %d then %d, want equal", a, b)
	}
}

func TestFilterComboRegistryDefaultIsEmpty(t *testing.T) {
	r := newFilterComboRegistry()
	if idx, ok := r.lookup(nil); !ok || idx != 0 {
		t.Errorf("lookup(nil) = (%d, %v), want (0, true) for the reserved default combination", idx, ok)
	}
}

func TestFilterComboRegistryLookupMissDoesNotIntern(t *testing.T) {
	r := newFilterComboRegistry()
	before := len(r.combos)

	if _, ok := r.lookup([]FilterInstanceIndex{99}); ok {
		t.Errorf("lookup() of a never-interned set unexpectedly hit")
	}
	if len(r.combos) != before {
		t.Errorf("lookup() grew the combo table from %d to %d entries; it must never allocate on a miss", before, len(r.combos))
	}
}

func TestFilterComboRegistryProperSupersets(t *testing.T) {
	r := newFilterComboRegistry()

	sub := r.intern([]FilterInstanceIndex{1})
	super := r.intern([]FilterInstanceIndex{1, 2})
	unrelated := r.intern([]FilterInstanceIndex{3})

	supers := r.properSupersetsOf(sub)
	found := false
	for _, s := range supers {
		if s == super {
			found = true
		}
		if s == unrelated {
			t.Errorf("properSupersetsOf(%d) incorrectly included unrelated combo %d", sub, unrelated)
		}
	}
	if !found {
		t.Errorf("properSupersetsOf(%d) = %v, want to include %d", sub, supers, super)
	}
}

func TestSupersetOf(t *testing.T) {
	tests := []struct {
		name  string
		super []FilterInstanceIndex
		sub   []FilterInstanceIndex
		want  bool
	}{
		{"empty sub always matches", []FilterInstanceIndex{1, 2}, nil, true},
		{"exact match", []FilterInstanceIndex{1, 2}, []FilterInstanceIndex{1, 2}, true},
		{"proper superset", []FilterInstanceIndex{1, 2, 3}, []FilterInstanceIndex{1, 3}, true},
		{"missing member", []FilterInstanceIndex{1, 2}, []FilterInstanceIndex{1, 3}, false},
		{"sub longer than super", []FilterInstanceIndex{1}, []FilterInstanceIndex{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := supersetOf(tt.super, tt.sub); got != tt.want {
				t.Errorf("supersetOf(%v, %v) = %v, want %v", tt.super, tt.sub, got, tt.want)
			}
		})
	}
}
