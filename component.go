package taxon

import "reflect"

// DeclareData registers T as a data component type and returns its pool.
// Declaration functions are package-level generic functions rather than
// methods on *World because Go does not support type parameters on
// methods.
func DeclareData[T any](w *World) *DataPool[T] {
	id := w.allocTypeID()
	pool := newDataPool[T](w, id)
	w.bindPool(id, typeName[T](), pool)
	return pool
}

// DeclareList registers T as a list component type and returns its pool.
func DeclareList[T any](w *World) *ListPool[T] {
	id := w.allocTypeID()
	pool := newListPool[T](w, id)
	w.bindPool(id, typeName[T](), pool)
	return pool
}

// DeclareFilter registers T as a filter component type and returns its pool.
func DeclareFilter[T comparable](w *World) *FilterPool[T] {
	id := w.allocTypeID()
	pool := newFilterPool[T](w, id)
	w.bindPool(id, typeName[T](), pool)
	return pool
}

// ComponentByName resolves a previously declared component pool by its
// Go type name, for callers that only have a string (e.g. a save-file
// component tag). Reports MissingRegistryEntryError if name was never
// declared via DeclareData/DeclareList/DeclareFilter.
func ComponentByName(w *World, name string) (PoolHandle, error) {
	if id, ok := w.poolNames[name]; ok {
		return w.pools[id], nil
	}
	return nil, MissingRegistryEntryError{Name: name}
}

func typeName[T any]() string {
	var zero T
	return reflect.TypeOf(&zero).Elem().String()
}
