package deepcopy

import (
	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

// Copy returns a deep copy of src so callers can hand controller state to
// the view layer without sharing slices or pointers.
//
// A nil src yields (nil, nil).
func Copy[T any](src *T) (*T, error) {
	if src == nil {
		return nil, nil
	}

	var dst T
	if err := deepcopy.Copy(&dst, src); err != nil {
		return nil, errors.Wrapf(err, "failed to deep copy type %T", src)
	}
	return &dst, nil
}

// MustCopy is Copy for types known to be copyable; it panics on failure.
func MustCopy[T any](src *T) *T {
	dst, err := Copy(src)
	if err != nil {
		panic(err)
	}
	return dst
}
