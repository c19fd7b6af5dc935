package taxon

// Registry is append-only interning of a value type behind a stable
// 16-bit index, with optional name lookup backed by a fallback loader
// (spec §2, §6). Once a value is interned its index never changes and is
// never reused, even if every reference to it is later dropped — the
// same monotonic-growth behavior spec.md requires of FilterPool's
// unique-value table and of the component/archetype registries.
//
// Grounded on cache.go's SimpleCache[T] (Register/GetIndex/GetItem),
// generalized from a capacity-bounded cache keyed purely by name to an
// unbounded registry that can also intern by value equality.
type Registry[T comparable] struct {
	values  []T
	byValue map[T]uint16
	names   []string
	byName  map[string]uint16
}

// NewRegistry returns an empty Registry.
func NewRegistry[T comparable]() *Registry[T] {
	return &Registry[T]{
		byValue: make(map[T]uint16),
		byName:  make(map[string]uint16),
	}
}

// Intern returns the stable index for v, allocating one if v has not
// been seen before. Safe to call repeatedly with an equal value — spec's
// "after interning the same value twice, the unique-value table has
// exactly one entry for it."
func (r *Registry[T]) Intern(v T) uint16 {
	if idx, ok := r.byValue[v]; ok {
		return idx
	}
	idx := uint16(len(r.values))
	r.values = append(r.values, v)
	r.names = append(r.names, "")
	r.byValue[v] = idx
	return idx
}

// Value returns the value interned at idx.
func (r *Registry[T]) Value(idx uint16) T {
	return r.values[idx]
}

// Len returns how many distinct values have been interned.
func (r *Registry[T]) Len() int { return len(r.values) }

// IndexOf reports the index of v if it has already been interned.
func (r *Registry[T]) IndexOf(v T) (uint16, bool) {
	idx, ok := r.byValue[v]
	return idx, ok
}

// RegisterNamed interns v (if new) and additionally binds name to its
// index, enabling later Lookup/LookupOrLoad by name.
func (r *Registry[T]) RegisterNamed(name string, v T) uint16 {
	idx := r.Intern(v)
	r.names[idx] = name
	r.byName[name] = idx
	return idx
}

// Lookup resolves a previously registered name to its index.
func (r *Registry[T]) Lookup(name string) (uint16, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// LookupOrLoad resolves name, invoking loader on a miss and registering
// its result. A nil loader on a miss is a fatal, categorical failure per
// spec §7 ("name lookup in a named registry without fallback").
func (r *Registry[T]) LookupOrLoad(name string, loader func() (T, error)) (uint16, error) {
	if idx, ok := r.byName[name]; ok {
		return idx, nil
	}
	if loader == nil {
		return 0, MissingRegistryEntryError{Name: name}
	}
	v, err := loader()
	if err != nil {
		return 0, err
	}
	return r.RegisterNamed(name, v), nil
}

// NameOf returns the name bound to idx, or "" if it was interned
// anonymously (via Intern rather than RegisterNamed).
func (r *Registry[T]) NameOf(idx uint16) string {
	return r.names[idx]
}
