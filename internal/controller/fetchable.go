// Package controller holds state shared by the list and form controllers.
package controller

import "time"

// LoadState tracks the progression of a remote fetch.
type LoadState string

const (
	LoadIdle    LoadState = "idle"    // never fetched
	LoadLoading LoadState = "loading" // first fetch in flight
	LoadReady   LoadState = "ready"   // data present
	LoadError   LoadState = "error"   // failed, no prior data
)

// Fetchable wraps a value with its fetch status. A failed refresh keeps
// previously loaded data and records the error next to it.
type Fetchable[T any] struct {
	Data      T
	State     LoadState
	Fetching  bool
	Err       error
	FetchedAt time.Time
}

// Start marks a fetch as in flight.
func (f *Fetchable[T]) Start() {
	f.Fetching = true
	if !f.HasData() {
		f.State = LoadLoading
	}
}

// SetData stores a successful response.
func (f *Fetchable[T]) SetData(data T) {
	f.Data = data
	f.State = LoadReady
	f.Fetching = false
	f.Err = nil
	f.FetchedAt = time.Now()
}

// SetError records a failure. Prior data is kept as stale.
func (f *Fetchable[T]) SetError(err error) {
	f.Err = err
	f.Fetching = false
	if !f.HasData() {
		f.State = LoadError
	}
}

// HasData reports whether a response was ever stored.
func (f *Fetchable[T]) HasData() bool {
	return !f.FetchedAt.IsZero()
}
