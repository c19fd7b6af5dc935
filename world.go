package taxon

import (
	"bytes"

	"github.com/TheBitDrifter/mask"
)

// World is the taxonomer: it owns entity allocation, component pool
// registration, the derived archetype/meta-archetype/taxon hierarchy,
// and the reconciliation pass that keeps them consistent (spec §4.2
// "World/Taxonizer").
//
// Grounded on the teacher's storage.go (archetype registry, locking,
// operation queue) generalized from "one table per archetype" to the
// three-level taxon hierarchy this system adds on top.
type World struct {
	allocator *EntityAllocator

	pools      map[ComponentTypeID]PoolHandle
	poolNames  map[string]ComponentTypeID
	nextTypeID ComponentTypeID

	archetypes    []*Archetype
	archetypeFor  map[ArchetypeIndex]*Archetype
	metaArches    []*metaArchetype
	metaByKey     map[string]metaArchetypeIndex
	superArches   map[ArchetypeIndex]map[metaArchetypeIndex]bool
	filterCombos  *filterComboRegistry
	taxons        *taxonRegistry

	entityTypeMask map[Entity]mask.Mask

	// taxonEntities/taxonPosition/memberTaxa together implement the
	// per-taxon entity_map: an entity can be a member of several taxa at
	// once (its components partition across meta-archetypes, spec §3), so
	// membership is keyed by (taxon, entity) rather than one taxon per
	// entity.
	taxonEntities map[TaxonID][]Entity
	taxonPosition map[TaxonID]map[Entity]int
	memberTaxa    map[Entity]map[TaxonID]bool

	dirty map[Entity]bool

	nextFilterInstance FilterInstanceIndex
	filterInstanceType []ComponentTypeID

	initialized bool
	simTime     float64

	namedArchetypes map[string]ArchetypeIndex
}

func newWorld() *World {
	w := &World{
		allocator:       NewEntityAllocator(),
		pools:           make(map[ComponentTypeID]PoolHandle),
		poolNames:       make(map[string]ComponentTypeID),
		archetypeFor:    make(map[ArchetypeIndex]*Archetype),
		metaByKey:       make(map[string]metaArchetypeIndex),
		superArches:     make(map[ArchetypeIndex]map[metaArchetypeIndex]bool),
		filterCombos:    newFilterComboRegistry(),
		taxons:          newTaxonRegistry(),
		entityTypeMask:  make(map[Entity]mask.Mask),
		taxonEntities:   make(map[TaxonID][]Entity),
		taxonPosition:   make(map[TaxonID]map[Entity]int),
		memberTaxa:      make(map[Entity]map[TaxonID]bool),
		dirty:           make(map[Entity]bool),
		namedArchetypes: make(map[string]ArchetypeIndex),
		nextFilterInstance: 1,
	}
	// index 0 of the default (empty) meta-archetype, bound to TaxonDefault.
	def := newMetaArchetype(0, nil, nil)
	w.metaArches = append(w.metaArches, def)
	w.metaByKey[def.key()] = 0
	w.taxons.bind(TaxonDefault, 0, 0)
	return w
}

// allocTypeID reserves a fresh ComponentTypeID for a new pool.
func (w *World) allocTypeID() ComponentTypeID {
	id := w.nextTypeID
	w.nextTypeID++
	return id
}

// bindPool files a declared pool under its reserved type id and name.
func (w *World) bindPool(id ComponentTypeID, name string, h PoolHandle) {
	w.pools[id] = h
	if name != "" {
		w.poolNames[name] = id
	}
}

// CreateEntity allocates a fresh entity. prototype entities are inert
// templates: they never enter reconciliation or any taxon's entity_map;
// their component rows stay in TaxonPrototype (spec §3 "Prototype
// entity" lifecycle).
func (w *World) CreateEntity(prototype bool) (Entity, error) {
	if !w.initialized {
		return NullEntity, NotInitializedError{Operation: "CreateEntity"}
	}
	e, err := w.allocator.Create(prototype)
	if err != nil {
		return NullEntity, err
	}
	if prototype {
		return e, nil
	}
	w.joinTaxon(TaxonDefault, e)
	w.dirty[e] = true
	return e, nil
}

// Instantiate creates a new live entity by copying every component proto
// currently holds (spec §4.3). proto must be a prototype entity.
func (w *World) Instantiate(proto Entity) (Entity, error) {
	if !proto.IsPrototype() {
		return NullEntity, PrototypeEntityError{Entity: proto, Operation: "Instantiate"}
	}
	e, err := w.CreateEntity(false)
	if err != nil {
		return NullEntity, err
	}
	for _, h := range w.pools {
		if !h.HasComponent(proto) {
			continue
		}
		if lp, ok := h.(interface{ instantiate(Entity, Entity) error }); ok {
			if err := lp.instantiate(proto, e); err != nil {
				return NullEntity, err
			}
			continue
		}
		if err := copyComponentGeneric(h, proto, e); err != nil {
			return NullEntity, err
		}
	}
	return e, nil
}

// copyComponentGeneric round-trips a component through Serialize/
// Deserialize to copy it from proto to e, used for Data/Filter pools
// which have no bespoke instantiate path (unlike ListPool, which copies
// its backing array directly to avoid aliasing).
func copyComponentGeneric(h PoolHandle, proto, e Entity) error {
	buf := &bytes.Buffer{}
	if err := h.Serialize(proto, buf); err != nil {
		return err
	}
	return h.Deserialize(e, buf)
}

// Destroy removes e from every pool that holds a component for it and
// releases its id for recycling.
func (w *World) Destroy(e Entity) {
	for _, h := range w.pools {
		if h.HasComponent(e) {
			h.Destroy(e)
		}
	}
	taxa := make([]TaxonID, 0, len(w.memberTaxa[e]))
	for t := range w.memberTaxa[e] {
		taxa = append(taxa, t)
	}
	for _, t := range taxa {
		w.leaveTaxon(t, e)
	}
	delete(w.memberTaxa, e)
	delete(w.entityTypeMask, e)
	delete(w.dirty, e)
	w.allocator.Destroy(e)
}

// AddArchetype declares a new archetype bag from the given component and
// filter pool handles (spec §3 "Archetype"). Must be called before
// Initialize: an archetype declared afterward could never be bound to a
// meta-archetype, since reconciliation only runs once the world is live.
func (w *World) AddArchetype(handles []PoolHandle, name *string) (*Archetype, error) {
	if w.initialized {
		return nil, AlreadyInitializedError{}
	}
	idx := ArchetypeIndex(len(w.archetypes) + 1)
	decl := newArchetypeDecl(idx, handles)
	w.archetypes = append(w.archetypes, decl)
	w.archetypeFor[idx] = decl
	w.superArches[idx] = make(map[metaArchetypeIndex]bool)
	if name != nil {
		w.namedArchetypes[*name] = idx
	}
	return decl, nil
}

// ArchetypeByName resolves a previously named archetype, or reports
// MissingRegistryEntryError.
func (w *World) ArchetypeByName(name string) (*Archetype, error) {
	idx, ok := w.namedArchetypes[name]
	if !ok {
		return nil, MissingRegistryEntryError{Name: name}
	}
	return w.archetypeFor[idx], nil
}

// Initialize finalizes archetype declarations prior to first use. Must
// be called exactly once, after all archetypes are declared and before
// any entity is reconciled.
func (w *World) Initialize() error {
	if w.initialized {
		return AlreadyInitializedError{}
	}
	w.initialized = true
	return nil
}

// placementTaxon returns the taxon a brand-new component row should be
// filed under before reconciliation has ever run for e. It is a pure
// function of e's identity, not of any bookkeeping: reconciliation always
// relocates the row to its correct taxon afterward regardless of which
// bucket it started in, so no "current taxon" lookup is needed here.
func (w *World) placementTaxon(e Entity) TaxonID {
	if e.IsPrototype() {
		return TaxonPrototype
	}
	return TaxonDefault
}

// joinTaxon adds e to t's entity_map, a no-op if e is already a member.
func (w *World) joinTaxon(t TaxonID, e Entity) {
	members, ok := w.memberTaxa[e]
	if ok && members[t] {
		return
	}
	positions, ok := w.taxonPosition[t]
	if !ok {
		positions = make(map[Entity]int)
		w.taxonPosition[t] = positions
	}
	positions[e] = len(w.taxonEntities[t])
	w.taxonEntities[t] = append(w.taxonEntities[t], e)
	if members == nil {
		members = make(map[TaxonID]bool)
		w.memberTaxa[e] = members
	}
	members[t] = true
}

// leaveTaxon removes e from t's entity_map via O(1) swap-back, a no-op
// if e is not a member.
func (w *World) leaveTaxon(t TaxonID, e Entity) {
	members := w.memberTaxa[e]
	if !members[t] {
		return
	}
	list := w.taxonEntities[t]
	positions := w.taxonPosition[t]
	pos, ok := positions[e]
	if !ok || pos >= len(list) {
		return
	}
	last := len(list) - 1
	list[pos] = list[last]
	positions[list[pos]] = pos
	w.taxonEntities[t] = list[:last]
	delete(positions, e)
	delete(members, t)
}

// taxonMembers returns every taxon e currently belongs to.
func (w *World) taxonMembers(e Entity) map[TaxonID]bool {
	return w.memberTaxa[e]
}

func (w *World) entitiesIn(t TaxonID) []Entity {
	return w.taxonEntities[t]
}

func (w *World) markComponentAdded(e Entity, typeID ComponentTypeID) {
	m := w.entityTypeMask[e]
	m.Mark(uint32(typeID))
	w.entityTypeMask[e] = m
	if !e.IsPrototype() {
		w.dirty[e] = true
	}
}

func (w *World) markComponentRemoved(e Entity, typeID ComponentTypeID) {
	m := w.entityTypeMask[e]
	m.Unmark(uint32(typeID))
	w.entityTypeMask[e] = m
	if !e.IsPrototype() {
		w.dirty[e] = true
	}
}

func (w *World) markFilterValueChanged(e Entity, typeID ComponentTypeID) {
	if !e.IsPrototype() {
		w.dirty[e] = true
	}
}

func (w *World) internFilterInstance(typeID ComponentTypeID) FilterInstanceIndex {
	idx := w.nextFilterInstance
	w.nextFilterInstance++
	w.filterInstanceType = append(w.filterInstanceType, typeID)
	return idx
}

// DirtyCount reports how many entities are awaiting reconciliation.
func (w *World) DirtyCount() int { return len(w.dirty) }

// FilterInstanceType reports which component type minted the given
// global filter instance, index 0-based into filterInstanceType since
// instance indices start at 1.
func (w *World) FilterInstanceType(inst FilterInstanceIndex) (ComponentTypeID, bool) {
	if inst == 0 || int(inst) > len(w.filterInstanceType) {
		return 0, false
	}
	return w.filterInstanceType[inst-1], true
}
