package taxon

import "testing"

func TestWorldInitializeOnlyOnce(t *testing.T) {
	w := Factory.NewWorld()
	if err := w.Initialize(); err != nil {
		t.Fatalf("first Initialize() error = %v", err)
	}
	if err := w.Initialize(); err == nil {
		t.Errorf("expected AlreadyInitializedError on second Initialize()")
	}
}

func TestWorldProcessComponentChangesBeforeInitialize(t *testing.T) {
	w := Factory.NewWorld()
	if err := w.ProcessComponentChanges(); err == nil {
		t.Errorf("expected NotInitializedError before Initialize()")
	}
}

func TestWorldPrototypeNeverDirty(t *testing.T) {
	w := Factory.NewWorld()
	position := DeclareData[Position](w)
	w.Initialize()

	proto, _ := w.CreateEntity(true)
	position.Add(proto, Position{X: 9})

	if w.DirtyCount() != 0 {
		t.Errorf("DirtyCount() = %d after only touching a prototype entity, want 0", w.DirtyCount())
	}
}

func TestWorldInstantiateRequiresPrototype(t *testing.T) {
	w := Factory.NewWorld()
	w.Initialize()

	live, _ := w.CreateEntity(false)
	if _, err := w.Instantiate(live); err == nil {
		t.Errorf("expected PrototypeEntityError when instantiating a non-prototype entity")
	}
}

func TestWorldInstantiateCopiesDataComponent(t *testing.T) {
	w := Factory.NewWorld()
	position := DeclareData[Position](w)
	w.Initialize()

	proto, _ := w.CreateEntity(true)
	position.Add(proto, Position{X: 4, Y: 5})

	e, err := w.Instantiate(proto)
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}

	got := position.Get(e)
	if got == nil || *got != (Position{X: 4, Y: 5}) {
		t.Errorf("instantiated component = %v, want {4 5}", got)
	}
}

func TestWorldDestroyRemovesFromAllPools(t *testing.T) {
	w := Factory.NewWorld()
	position := DeclareData[Position](w)
	team := DeclareFilter[string](w)
	w.Initialize()

	e, _ := w.CreateEntity(false)
	position.Add(e, Position{X: 1})
	team.Add(e, "red")

	w.Destroy(e)

	if position.HasComponent(e) {
		t.Errorf("position pool still has e after Destroy")
	}
	if team.HasComponent(e) {
		t.Errorf("team pool still has e after Destroy")
	}
	if w.allocator.Exists(e) {
		t.Errorf("allocator still reports e alive after Destroy")
	}
}

func TestWorldSnapshotRestore(t *testing.T) {
	w := Factory.NewWorld()
	w.Initialize()

	e1, _ := w.CreateEntity(false)
	e2, _ := w.CreateEntity(false)
	w.Destroy(e1)

	snap := w.Snapshot()

	fresh := Factory.NewWorld()
	fresh.Initialize()
	fresh.Restore(snap)

	if !fresh.allocator.Exists(e2) {
		t.Errorf("expected %v to exist after Restore", e2)
	}
	if fresh.allocator.Exists(e1) {
		t.Errorf("expected %v to remain destroyed after Restore", e1)
	}
}

func TestWorldArchetypeByNameMissing(t *testing.T) {
	w := Factory.NewWorld()
	if _, err := w.ArchetypeByName("unknown"); err == nil {
		t.Errorf("expected MissingRegistryEntryError for an undeclared archetype name")
	}
}

func TestWorldArchetypeByName(t *testing.T) {
	w := Factory.NewWorld()
	position := DeclareData[Position](w)
	name := "movable"
	decl, err := w.AddArchetype([]PoolHandle{position}, &name)
	if err != nil {
		t.Fatalf("AddArchetype() error = %v", err)
	}

	got, err := w.ArchetypeByName("movable")
	if err != nil {
		t.Fatalf("ArchetypeByName() error = %v", err)
	}
	if got != decl {
		t.Errorf("ArchetypeByName() returned a different *Archetype than AddArchetype")
	}
}

func TestComponentByName(t *testing.T) {
	w := Factory.NewWorld()
	position := DeclareData[Position](w)

	handle, err := ComponentByName(w, "taxon.Position")
	if err != nil {
		t.Fatalf("ComponentByName() error = %v", err)
	}
	if handle.TypeID() != position.TypeID() {
		t.Errorf("ComponentByName() resolved a different pool than DeclareData returned")
	}
}

func TestComponentByNameMissing(t *testing.T) {
	w := Factory.NewWorld()
	if _, err := ComponentByName(w, "nonexistent.Type"); err == nil {
		t.Errorf("expected MissingRegistryEntryError for an undeclared component name")
	}
}
