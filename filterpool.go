package taxon

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

var _ PoolHandle = (*FilterPool[string])(nil)
var _ filterPoolHandle = (*FilterPool[string])(nil)

// FilterPool stores one interned value of T per entity (spec §4.2
// "FilterPool<T>"). Unlike Data/ListPool, the table row holds only a
// uint16 local registry index; the values themselves live in an
// append-only Registry[T] that never shrinks, matching the Open
// Question decision recorded for FilterPool.RemoveComponent in the
// design ledger: dropping the last holder of a value does not reclaim
// its slot, since other FilterCombinations may still reference the
// value's already-interned FilterInstanceIndex.
//
// Grounded on the teacher's SimpleCache[T] (string-keyed append-only
// registration table), generalized from a capacity-bounded cache to an
// unbounded Registry[T], and on DataPool for the table-backed row
// storage and taxon migration mechanics.
type FilterPool[T comparable] struct {
	world       *World
	typeID      ComponentTypeID
	elementType table.ElementType
	accessor    table.Accessor[uint16]
	entryIndex  table.EntryIndex
	tables      map[TaxonID]table.Table
	records     map[Entity]componentRecord
	values      *Registry[T]
	globalOf    []FilterInstanceIndex // indexed by local registry index
}

func newFilterPool[T comparable](w *World, typeID ComponentTypeID) *FilterPool[T] {
	elementType := table.FactoryNewElementType[uint16]()
	return &FilterPool[T]{
		world:       w,
		typeID:      typeID,
		elementType: elementType,
		accessor:    table.FactoryNewAccessor[uint16](elementType),
		entryIndex:  table.Factory.NewEntryIndex(),
		tables:      make(map[TaxonID]table.Table),
		records:     make(map[Entity]componentRecord),
		values:      NewRegistry[T](),
	}
}

func (p *FilterPool[T]) TypeID() ComponentTypeID { return p.typeID }
func (p *FilterPool[T]) Kind() ComponentKind     { return KindFilter }

func (p *FilterPool[T]) tableFor(t TaxonID) table.Table {
	tbl, ok := p.tables[t]
	if ok {
		return tbl
	}
	schema := table.Factory.NewSchema()
	schema.Register(p.elementType)
	built, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(p.entryIndex).
		WithElementTypes(p.elementType).
		Build()
	if err != nil {
		panic(bark.AddTrace(err))
	}
	p.tables[t] = built
	return built
}

func (p *FilterPool[T]) entry(rec componentRecord) table.Entry {
	en, err := p.entryIndex.Entry(int(rec.id))
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return en
}

// globalInstance returns the world-wide FilterInstanceIndex for local
// registry index local, minting one on first sight of this value.
func (p *FilterPool[T]) globalInstance(local uint16) FilterInstanceIndex {
	for len(p.globalOf) <= int(local) {
		p.globalOf = append(p.globalOf, 0)
	}
	if p.globalOf[local] == 0 {
		p.globalOf[local] = p.world.internFilterInstance(p.typeID)
	}
	return p.globalOf[local]
}

func (p *FilterPool[T]) HasComponent(e Entity) bool {
	_, ok := p.records[e]
	return ok
}

// Index returns e's ComponentIndex in this pool, or NullComponentIndex
// if e holds no component here.
func (p *FilterPool[T]) Index(e Entity) ComponentIndex {
	rec, ok := p.records[e]
	if !ok {
		return NullComponentIndex
	}
	return componentIndex(p.world, rec, e)
}

// Add attaches value to e, interning it if not already seen by this pool.
func (p *FilterPool[T]) Add(e Entity, value T) error {
	if _, ok := p.records[e]; ok {
		return ComponentExistsError{Entity: e, Type: p.typeID}
	}
	local := p.values.Intern(value)
	taxon := p.world.placementTaxon(e)
	tbl := p.tableFor(taxon)
	entries, err := tbl.NewEntries(1)
	if err != nil {
		return err
	}
	entry := entries[0]
	*p.accessor.Get(entry.Index(), tbl) = local
	p.records[e] = componentRecord{id: entry.ID(), taxon: taxon}
	p.world.markComponentAdded(e, p.typeID)
	if cb := Config.poolEvents.OnComponentCreated; cb != nil {
		cb(p.typeID, e)
	}
	return nil
}

// Set reassigns e's value in place, interning value if new and marking e
// dirty so its FilterCombination is recomputed, without disturbing the
// entity's component-set membership. If e holds no value in this pool
// yet, Set behaves as Add.
func (p *FilterPool[T]) Set(e Entity, value T) error {
	rec, ok := p.records[e]
	if !ok {
		return p.Add(e, value)
	}
	local := p.values.Intern(value)
	en := p.entry(rec)
	*p.accessor.Get(en.Index(), en.Table()) = local
	p.world.markFilterValueChanged(e, p.typeID)
	return nil
}

// Read returns e's current value and whether e holds one.
func (p *FilterPool[T]) Read(e Entity) (T, bool) {
	rec, ok := p.records[e]
	if !ok {
		var zero T
		return zero, false
	}
	en := p.entry(rec)
	local := *p.accessor.Get(en.Index(), en.Table())
	return p.values.Value(local), true
}

// InstanceOf returns the global FilterInstanceIndex e currently carries,
// satisfying filterPoolHandle for FilterCombination recomputation.
func (p *FilterPool[T]) InstanceOf(e Entity) (FilterInstanceIndex, bool) {
	rec, ok := p.records[e]
	if !ok {
		return 0, false
	}
	en := p.entry(rec)
	local := *p.accessor.Get(en.Index(), en.Table())
	return p.globalInstance(local), true
}

func (p *FilterPool[T]) Destroy(e Entity) {
	rec, ok := p.records[e]
	if !ok {
		return
	}
	en := p.entry(rec)
	if _, err := en.Table().DeleteEntries(en.Index()); err != nil {
		panic(bark.AddTrace(err))
	}
	delete(p.records, e)
	p.world.markComponentRemoved(e, p.typeID)
	if cb := Config.poolEvents.OnComponentDestroyed; cb != nil {
		cb(p.typeID, e)
	}
}

func (p *FilterPool[T]) UpdateTaxon(e Entity, newTaxon TaxonID) {
	rec, ok := p.records[e]
	if !ok {
		return
	}
	if rec.taxon == newTaxon {
		return
	}
	en := p.entry(rec)
	dst := p.tableFor(newTaxon)
	if err := en.Table().TransferEntries(dst, en.Index()); err != nil {
		panic(bark.AddTrace(err))
	}
	p.records[e] = componentRecord{id: rec.id, taxon: newTaxon}
}

func (p *FilterPool[T]) Slice(t TaxonID) FilterTaxonSlice[T] {
	return FilterTaxonSlice[T]{pool: p, taxon: t}
}

func (p *FilterPool[T]) Serialize(e Entity, w io.Writer) error {
	v, ok := p.Read(e)
	if !ok {
		return ComponentNotFoundError{Entity: e, Type: p.typeID}
	}
	return gob.NewEncoder(w).Encode(v)
}

func (p *FilterPool[T]) Deserialize(e Entity, r io.Reader) error {
	var v T
	if err := gob.NewDecoder(r).Decode(&v); err != nil {
		return fmt.Errorf("decode filter component: %w", err)
	}
	return p.Add(e, v)
}
