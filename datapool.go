package taxon

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

var _ PoolHandle = (*DataPool[int])(nil)

// DataPool stores one fixed-size value of T per entity that holds this
// component (spec §4.2 "DataPool<T>"). Rows live in a dense,
// taxon-partitioned table.Table, one table per taxon the component
// currently appears in, so iteration over a taxon never touches an
// entity outside it.
//
// Grounded on the teacher's storage.go/archetype.go (one table.Table per
// archetype, built from a shared schema via table.NewTableBuilder, rows
// relocated with TransferEntries on component changes), generalized from
// archetype-granularity tables to component-type-granularity tables so a
// single component's data can be partitioned by taxon independent of its
// sibling components. Each pool keeps its own table.EntryIndex, since
// one entity can hold rows in several pools simultaneously, unlike the
// teacher where an entity lives in exactly one archetype table.
type DataPool[T any] struct {
	world       *World
	typeID      ComponentTypeID
	elementType table.ElementType
	accessor    table.Accessor[T]
	entryIndex  table.EntryIndex
	tables      map[TaxonID]table.Table
	records     map[Entity]componentRecord
}

func newDataPool[T any](w *World, typeID ComponentTypeID) *DataPool[T] {
	elementType := table.FactoryNewElementType[T]()
	schema := table.Factory.NewSchema()
	schema.Register(elementType)
	return &DataPool[T]{
		world:       w,
		typeID:      typeID,
		elementType: elementType,
		accessor:    table.FactoryNewAccessor[T](elementType),
		entryIndex:  table.Factory.NewEntryIndex(),
		tables:      make(map[TaxonID]table.Table),
		records:     make(map[Entity]componentRecord),
	}
}

func (p *DataPool[T]) TypeID() ComponentTypeID { return p.typeID }
func (p *DataPool[T]) Kind() ComponentKind     { return KindData }

func (p *DataPool[T]) tableFor(t TaxonID) table.Table {
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

func (p *DataPool[T]) entry(rec componentRecord) table.Entry {
	en, err := p.entryIndex.Entry(int(rec.id))
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return en
}

// Add attaches value to e, placing the row in e's placement taxon
// (TaxonPrototype for a prototype, TaxonDefault otherwise) and marking a
// non-prototype e dirty for reconciliation (spec §4.1 step 1).
func (p *DataPool[T]) Add(e Entity, value T) error {
	if _, ok := p.records[e]; ok {
		return ComponentExistsError{Entity: e, Type: p.typeID}
	}
	taxon := p.world.placementTaxon(e)
	tbl := p.tableFor(taxon)
	entries, err := tbl.NewEntries(1)
	if err != nil {
		return err
	}
	entry := entries[0]
	*p.accessor.Get(entry.Index(), tbl) = value
	p.records[e] = componentRecord{id: entry.ID(), taxon: taxon}
	p.world.markComponentAdded(e, p.typeID)
	if cb := Config.poolEvents.OnComponentCreated; cb != nil {
		cb(p.typeID, e)
	}
	return nil
}

func (p *DataPool[T]) HasComponent(e Entity) bool {
	_, ok := p.records[e]
	return ok
}

// Index returns e's ComponentIndex in this pool, or NullComponentIndex
// if e holds no component here.
func (p *DataPool[T]) Index(e Entity) ComponentIndex {
	rec, ok := p.records[e]
	if !ok {
		return NullComponentIndex
	}
	return componentIndex(p.world, rec, e)
}

// Get returns a pointer to e's value, or nil if e holds no such component.
func (p *DataPool[T]) Get(e Entity) *T {
	rec, ok := p.records[e]
	if !ok {
		return nil
	}
	en := p.entry(rec)
	return p.accessor.Get(en.Index(), en.Table())
}

// Destroy removes e's component via swap-back, if present.
func (p *DataPool[T]) Destroy(e Entity) {
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

// UpdateTaxon migrates e's row to newTaxon, used during reconciliation
// once the entity's exact taxon for this meta-archetype is known.
func (p *DataPool[T]) UpdateTaxon(e Entity, newTaxon TaxonID) {
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

// Slice returns every value currently stored for taxon t, walking the
// world's canonical entity_map for t so iteration order matches every
// other pool sharing that taxon (spec invariant 2).
func (p *DataPool[T]) Slice(t TaxonID) DataTaxonSlice[T] {
	return DataTaxonSlice[T]{pool: p, taxon: t}
}

func (p *DataPool[T]) Serialize(e Entity, w io.Writer) error {
	v := p.Get(e)
	if v == nil {
		return ComponentNotFoundError{Entity: e, Type: p.typeID}
	}
	return gob.NewEncoder(w).Encode(v)
}

func (p *DataPool[T]) Deserialize(e Entity, r io.Reader) error {
	var v T
	if err := gob.NewDecoder(r).Decode(&v); err != nil {
		return fmt.Errorf("decode data component: %w", err)
	}
	return p.Add(e, v)
}
