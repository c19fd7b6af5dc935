package taxon

import "testing"

func TestFilterPoolInternDedup(t *testing.T) {
	w := Factory.NewWorld()
	team := DeclareFilter[string](w)
	w.Initialize()

	e1, _ := w.CreateEntity(false)
	e2, _ := w.CreateEntity(false)
	team.Add(e1, "red")
	team.Add(e2, "red")

	i1, _ := team.InstanceOf(e1)
	i2, _ := team.InstanceOf(e2)
	if i1 != i2 {
		t.Errorf("two entities with the same filter value got distinct instances %d and %d", i1, i2)
	}
}

func TestFilterPoolDistinctValuesDistinctInstances(t *testing.T) {
	w := Factory.NewWorld()
	team := DeclareFilter[string](w)
	w.Initialize()

	e1, _ := w.CreateEntity(false)
	e2, _ := w.CreateEntity(false)
	team.Add(e1, "red")
	team.Add(e2, "blue")

	i1, _ := team.InstanceOf(e1)
	i2, _ := team.InstanceOf(e2)
	if i1 == i2 {
		t.Errorf("distinct filter values %q and %q got the same instance %d", "red", "blue", i1)
	}
}

func TestFilterPoolReadAfterAdd(t *testing.T) {
	w := Factory.NewWorld()
	team := DeclareFilter[string](w)
	w.Initialize()

	e, _ := w.CreateEntity(false)
	team.Add(e, "green")

	v, ok := team.Read(e)
	if !ok || v != "green" {
		t.Errorf("Read() = (%q, %v), want (\"green\", true)", v, ok)
	}
}

func TestFilterPoolSetUpdatesValueAndMarksDirty(t *testing.T) {
	w := Factory.NewWorld()
	team := DeclareFilter[string](w)
	w.Initialize()

	e, _ := w.CreateEntity(false)
	team.Add(e, "red")
	w.ProcessComponentChanges()

	if err := team.Set(e, "blue"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok := team.Read(e)
	if !ok || v != "blue" {
		t.Errorf("Read() after Set = (%q, %v), want (\"blue\", true)", v, ok)
	}
	if w.DirtyCount() == 0 {
		t.Errorf("DirtyCount() = 0 after Set changed e's filter value, want e marked dirty")
	}
}

func TestFilterPoolRegistryMonotonicGrowth(t *testing.T) {
	w := Factory.NewWorld()
	team := DeclareFilter[string](w)
	w.Initialize()

	e1, _ := w.CreateEntity(false)
	team.Add(e1, "red")
	before := team.values.Len()

	team.Destroy(e1)
	if team.values.Len() != before {
		t.Errorf("values.Len() = %d after destroying the last holder, want %d (interned values never reclaim their slot)", team.values.Len(), before)
	}
}

func TestFilterPoolFilterValueChangeTriggersTaxonMigration(t *testing.T) {
	w := Factory.NewWorld()
	position := DeclareData[Position](w)
	team := DeclareFilter[string](w)
	decl, err := w.AddArchetype([]PoolHandle{position, team}, nil)
	if err != nil {
		t.Fatalf("AddArchetype() error = %v", err)
	}
	w.Initialize()

	e, _ := w.CreateEntity(false)
	position.Add(e, Position{X: 1})
	team.Add(e, "red")
	w.ProcessComponentChanges()

	redTaxon := position.Index(e).Taxon()

	team.Set(e, "blue")
	w.ProcessComponentChanges()

	blueTaxon := position.Index(e).Taxon()
	if blueTaxon == redTaxon {
		t.Errorf("expected a changed filter value to migrate e to a new taxon, stayed at %d", redTaxon)
	}

	query, err := w.MakeFilteredQuery(decl, []FilterInstanceIndex{mustInstance(t, team, e)})
	if err != nil {
		t.Fatalf("MakeFilteredQuery() error = %v", err)
	}
	found := false
	for _, tx := range query.Taxa() {
		if tx == blueTaxon {
			found = true
		}
	}
	if !found {
		t.Errorf("MakeFilteredQuery() for e's current filter value did not include its taxon %d", blueTaxon)
	}
}

func mustInstance(t *testing.T, pool *FilterPool[string], e Entity) FilterInstanceIndex {
	t.Helper()
	inst, ok := pool.InstanceOf(e)
	if !ok {
		t.Fatalf("InstanceOf() returned false for an entity known to carry this filter")
	}
	return inst
}
