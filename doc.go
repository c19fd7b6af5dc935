/*
Package taxon provides the storage and scheduling core of an
Entity-Component-System (ECS) runtime.

Taxon organizes component records into dense, contiguously indexed groups
called taxa so that iteration over any subset of entities matching a
declared shape (an archetype) and a set of exact-match discriminator
values (filters) is a linear scan over aligned arrays.

Core Concepts:

  - Entity: a 31-bit recycled id plus a prototype flag.
  - ComponentType: an interned type identity, one of three kinds — data,
    list, or filter.
  - Archetype: a user-declared bag of component types and filter types.
  - MetaArchetype: the internally derived union-closure of archetypes
    that overlap on a given entity's component set.
  - Taxon: the storage bucket naming a (meta-archetype, filter-combination)
    pair; every component record lives in exactly one taxon per pool.

Basic Usage:

	world := taxon.Factory.NewWorld()

	position := taxon.DeclareData[Position](world)
	team := taxon.DeclareFilter[string](world)

	withPosition, _ := world.AddArchetype([]taxon.PoolHandle{position}, nil)
	world.Initialize()

	e, _ := world.CreateEntity(false)
	position.Add(e, Position{X: 1, Y: 2})
	team.Add(e, "red")
	world.ProcessComponentChanges()

	query, _ := world.MakeQuery(withPosition)
	for _, t := range query.Taxa() {
		position.Slice(t).ForEach(func(_ taxon.Entity, p *Position) {
			p.X++
		})
	}

Taxon is the underlying ECS core for the Bappa Framework but also works
as a standalone library. JSON prototype loading, a save/load codec,
rendering, input, and any host-application main loop are external
collaborators reached through the contracts in this package — not part
of the core.
*/
package taxon
