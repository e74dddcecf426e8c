// Package reconcile applies confirmed create/edit/delete results to a local
// collection so a screen can stay in sync without re-fetching. Every function
// returns a new slice and leaves its input untouched.
package reconcile

// Identifiable is implemented by entities whose identity comes from the backend.
type Identifiable interface {
	EntityID() int64
}

// ApplyCreate appends created to the end of collection.
func ApplyCreate[T any](collection []T, created T) []T {
	out := make([]T, 0, len(collection)+1)
	out = append(out, collection...)
	return append(out, created)
}

// ApplyEdit replaces the element whose id matches with patch(element). When no
// element matches, the collection is returned unchanged.
func ApplyEdit[T Identifiable](collection []T, id int64, patch func(T) T) []T {
	out := make([]T, len(collection))
	copy(out, collection)
	for i, item := range out {
		if item.EntityID() == id {
			out[i] = patch(item)
			return out
		}
	}
	return out
}

// ApplyDelete removes the element whose id matches. Absent ids are a no-op.
func ApplyDelete[T Identifiable](collection []T, id int64) []T {
	return RemoveWhere(collection, func(item T) bool { return item.EntityID() == id })
}

// RemoveWhere drops every element for which remove returns true. It is used to
// mirror cascading deletes performed by the backend.
func RemoveWhere[T any](collection []T, remove func(T) bool) []T {
	out := make([]T, 0, len(collection))
	for _, item := range collection {
		if !remove(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the element with the given id.
func Find[T Identifiable](collection []T, id int64) (T, bool) {
	for _, item := range collection {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
