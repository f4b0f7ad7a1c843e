// Package lutgenerr defines the error taxonomy every core package reports
// through: sentinel errors checked with errors.Is, wrapped with the
// teacher's fmt.Errorf("...: %w", err) idiom. CacheMiss/CacheCorrupt are
// deliberately absent here — the cache package never returns an error for
// either, per spec.
package lutgenerr

import "errors"

var (
	// ErrInvalidParameter marks a parameter outside its documented range:
	// level out of [2,16], an empty palette, a non-positive shape/power,
	// or a malformed hex literal in a palette file.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound marks a named palette absent from both the custom
	// palette directory and the built-in catalog.
	ErrNotFound = errors.New("not found")

	// ErrInternal marks a condition the design asserts cannot happen,
	// such as an empty k-d tree being queried. Surfacing it as an error
	// rather than panicking keeps main's exit-code policy uniform.
	ErrInternal = errors.New("internal error")
)
