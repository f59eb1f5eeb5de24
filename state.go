package gopaginator

import "slices"

// Status describes the engine's position in its loading state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

func (s Status) Valid() bool {
	return s == StatusIdle || s == StatusLoading || s == StatusReady || s == StatusError
}

// PageState is an immutable snapshot of the engine's observable state.
// A new snapshot is published on every transition; callers never observe
// in-place mutation and may retain snapshots freely.
type PageState[T any] struct {
	// Items all accumulated elements. Append-only across LoadNext calls
	// within one pagination run; replaced wholesale by LoadInitial, Refresh
	// and UpdateFilter. An error transition never clears it.
	Items []T
	// Status current state-machine position.
	Status Status
	// Err failure behind StatusError. Nil otherwise.
	Err error
	// HasMore false once the backend reported the last page.
	HasMore bool
	// FromCache true when Items were last satisfied by the cache store.
	FromCache bool
	// Refreshing true while a cache-first background refresh is in flight.
	Refreshing bool
	// RetryAttempt ordinal of the retry in progress (1, 2, ...). Zero when
	// no retry is pending.
	RetryAttempt int
}

// clone detaches the snapshot from engine-owned storage.
func (s PageState[T]) clone() PageState[T] {
	s.Items = slices.Clone(s.Items)
	if s.Items == nil {
		s.Items = []T{}
	}

	return s
}
