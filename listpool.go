package taxon

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

var _ PoolHandle = (*ListPool[int])(nil)

// ListPool stores one owned, growable NestedList[T] per entity (spec
// §4.2 "ListPool<T>"). Because a NestedList value is just a slice
// header, relocating a row between taxa with table.Table.TransferEntries
// moves ownership of the backing array without copying its elements, as
// spec §4.3 requires.
//
// Grounded the same way as DataPool, generalized further: the stored
// element type is NestedList[T] rather than T itself.
type ListPool[T any] struct {
	world       *World
	typeID      ComponentTypeID
	elementType table.ElementType
	accessor    table.Accessor[NestedList[T]]
	entryIndex  table.EntryIndex
	tables      map[TaxonID]table.Table
	records     map[Entity]componentRecord
}

func newListPool[T any](w *World, typeID ComponentTypeID) *ListPool[T] {
	elementType := table.FactoryNewElementType[NestedList[T]]()
	return &ListPool[T]{
		world:       w,
		typeID:      typeID,
		elementType: elementType,
		accessor:    table.FactoryNewAccessor[NestedList[T]](elementType),
		entryIndex:  table.Factory.NewEntryIndex(),
		tables:      make(map[TaxonID]table.Table),
		records:     make(map[Entity]componentRecord),
	}
}

func (p *ListPool[T]) TypeID() ComponentTypeID { return p.typeID }
func (p *ListPool[T]) Kind() ComponentKind     { return KindList }

func (p *ListPool[T]) tableFor(t TaxonID) table.Table {
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

func (p *ListPool[T]) entry(rec componentRecord) table.Entry {
	en, err := p.entryIndex.Entry(int(rec.id))
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return en
}

// Add attaches an empty list to e and returns an accessor to grow it.
func (p *ListPool[T]) Add(e Entity) (ListAccessor[T], error) {
	if _, ok := p.records[e]; ok {
		return ListAccessor[T]{}, ComponentExistsError{Entity: e, Type: p.typeID}
	}
	taxon := p.world.placementTaxon(e)
	tbl := p.tableFor(taxon)
	entries, err := tbl.NewEntries(1)
	if err != nil {
		return ListAccessor[T]{}, err
	}
	entry := entries[0]
	p.records[e] = componentRecord{id: entry.ID(), taxon: taxon}
	p.world.markComponentAdded(e, p.typeID)
	if cb := Config.poolEvents.OnComponentCreated; cb != nil {
		cb(p.typeID, e)
	}
	return ListAccessor[T]{list: p.accessor.Get(entry.Index(), tbl)}, nil
}

func (p *ListPool[T]) HasComponent(e Entity) bool {
	_, ok := p.records[e]
	return ok
}

// Index returns e's ComponentIndex in this pool, or NullComponentIndex
// if e holds no component here.
func (p *ListPool[T]) Index(e Entity) ComponentIndex {
	rec, ok := p.records[e]
	if !ok {
		return NullComponentIndex
	}
	return componentIndex(p.world, rec, e)
}

// Get returns an accessor for e's list, or the zero accessor if absent.
func (p *ListPool[T]) Get(e Entity) ListAccessor[T] {
	rec, ok := p.records[e]
	if !ok {
		return ListAccessor[T]{}
	}
	en := p.entry(rec)
	return ListAccessor[T]{list: p.accessor.Get(en.Index(), en.Table())}
}

func (p *ListPool[T]) Destroy(e Entity) {
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

func (p *ListPool[T]) UpdateTaxon(e Entity, newTaxon TaxonID) {
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

// instantiate copies src's list contents into a fresh row for e, element
// by element, rather than sharing src's backing array (spec §4.3
// prototype instantiation semantics).
func (p *ListPool[T]) instantiate(proto, e Entity) error {
	src, ok := p.records[proto]
	if !ok {
		return nil
	}
	srcEntry := p.entry(src)
	srcList := p.accessor.Get(srcEntry.Index(), srcEntry.Table())
	acc, err := p.Add(e)
	if err != nil {
		return err
	}
	clone := cloneNestedList(srcList)
	*acc.list = clone
	return nil
}

func (p *ListPool[T]) Slice(t TaxonID) ListTaxonSlice[T] {
	return ListTaxonSlice[T]{pool: p, taxon: t}
}

func (p *ListPool[T]) Serialize(e Entity, w io.Writer) error {
	rec, ok := p.records[e]
	if !ok {
		return ComponentNotFoundError{Entity: e, Type: p.typeID}
	}
	en := p.entry(rec)
	list := p.accessor.Get(en.Index(), en.Table())
	return gob.NewEncoder(w).Encode(list.All())
}

func (p *ListPool[T]) Deserialize(e Entity, r io.Reader) error {
	var values []T
	if err := gob.NewDecoder(r).Decode(&values); err != nil {
		return fmt.Errorf("decode list component: %w", err)
	}
	acc, err := p.Add(e)
	if err != nil {
		return err
	}
	for _, v := range values {
		acc.Append(v)
	}
	return nil
}
