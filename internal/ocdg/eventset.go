package ocdg

import "slices"

// ObjectID identifies an object within one log.
type ObjectID uint64

// EventID identifies an event within one log.
type EventID uint64

// EventSet is an unordered set of event ids used as relation evidence.
type EventSet map[EventID]struct{}

// NewEventSet returns a set holding the given events.
func NewEventSet(events ...EventID) EventSet {
	s := make(EventSet, len(events))
	for _, e := range events {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e.
func (s EventSet) Add(e EventID) {
	s[e] = struct{}{}
}

// Contains reports whether e is in the set.
func (s EventSet) Contains(e EventID) bool {
	_, ok := s[e]
	return ok
}

// Union adds every element of other to s.
func (s EventSet) Union(other EventSet) {
	for e := range other {
		s[e] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s EventSet) Clone() EventSet {
	out := make(EventSet, len(s))
	out.Union(s)
	return out
}

// Equal reports set equality.
func (s EventSet) Equal(other EventSet) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// Sorted returns the elements in ascending order.
func (s EventSet) Sorted() []EventID {
	out := make([]EventID, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}
