package ocdg

import (
	"maps"
	"slices"
)

// Lifeline is an object's type label and the ordered events it takes part in.
// The first event is the object's birth, the last its death.
type Lifeline struct {
	Type   string
	Events []EventID
}

// Len returns the number of events in the lifeline.
func (l Lifeline) Len() int { return len(l.Events) }

// Birth returns the first event. ok is false for an empty lifeline.
func (l Lifeline) Birth() (EventID, bool) {
	if len(l.Events) == 0 {
		return 0, false
	}
	return l.Events[0], true
}

// Death returns the last event. ok is false for an empty lifeline.
func (l Lifeline) Death() (EventID, bool) {
	if len(l.Events) == 0 {
		return 0, false
	}
	return l.Events[len(l.Events)-1], true
}

// Set returns the lifeline's events as a set.
func (l Lifeline) Set() EventSet {
	return NewEventSet(l.Events...)
}

type lifelineEntry struct {
	Lifeline
	registered bool
}

// LifelineStore accumulates lifelines during ingestion.
// It is not safe for concurrent use; Freeze it before sharing.
type LifelineStore struct {
	entries map[ObjectID]*lifelineEntry
}

// NewLifelineStore returns an empty store.
func NewLifelineStore() *LifelineStore {
	return &LifelineStore{entries: make(map[ObjectID]*lifelineEntry)}
}

func (s *LifelineStore) entry(oid ObjectID) *lifelineEntry {
	e, ok := s.entries[oid]
	if !ok {
		e = &lifelineEntry{}
		s.entries[oid] = e
	}
	return e
}

// Register records the object's type. The entry is created on first sighting.
func (s *LifelineStore) Register(oid ObjectID, typ string) {
	e := s.entry(oid)
	e.Type = typ
	e.registered = true
}

// Registered reports whether Register was called for oid.
func (s *LifelineStore) Registered(oid ObjectID) bool {
	e, ok := s.entries[oid]
	return ok && e.registered
}

// Append extends the object's lifeline with eid. Until Register is called the
// entry carries the default empty type.
func (s *LifelineStore) Append(oid ObjectID, eid EventID) {
	e := s.entry(oid)
	e.Events = append(e.Events, eid)
}

// Get returns the object's current lifeline. The returned Events slice aliases
// the store and must not be modified.
func (s *LifelineStore) Get(oid ObjectID) (Lifeline, error) {
	e, ok := s.entries[oid]
	if !ok || !e.registered {
		return Lifeline{}, newMissingLifelineError(oid)
	}
	return e.Lifeline, nil
}

// Len returns the number of objects seen.
func (s *LifelineStore) Len() int { return len(s.entries) }

// Freeze returns a deep-copied, read-only snapshot of every registered lifeline.
func (s *LifelineStore) Freeze() *Lifelines {
	lines := make(map[ObjectID]Lifeline, len(s.entries))
	for oid, e := range s.entries {
		if !e.registered {
			continue
		}
		lines[oid] = Lifeline{Type: e.Type, Events: slices.Clone(e.Events)}
	}
	return &Lifelines{lines: lines}
}

// Lifelines is an immutable lifeline snapshot, safe for concurrent readers.
type Lifelines struct {
	lines map[ObjectID]Lifeline
}

// Get returns the frozen lifeline of oid.
func (l *Lifelines) Get(oid ObjectID) (Lifeline, error) {
	line, ok := l.lines[oid]
	if !ok {
		return Lifeline{}, newMissingLifelineError(oid)
	}
	return line, nil
}

// Len returns the number of lifelines.
func (l *Lifelines) Len() int { return len(l.lines) }

// Objects returns the ids of every object with a lifeline, ascending.
func (l *Lifelines) Objects() []ObjectID {
	return slices.Sorted(maps.Keys(l.lines))
}
