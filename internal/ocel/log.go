package ocel

import (
	"fmt"
	"iter"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ocdg/internal/ocdg"
)

// Object is a declared object and its type label.
type Object struct {
	ID   ocdg.ObjectID
	Type string
}

// Event is one log entry. Objects is a sorted set.
type Event struct {
	ID       ocdg.EventID
	Seq      int64
	Activity string
	Objects  []ocdg.ObjectID
}

// Log is an in-memory object-centric event log. It implements ocdg.EventLog.
//
// A Log is built once and then only read; concurrent reads are safe.
type Log struct {
	objects     map[ocdg.ObjectID]Object
	objectOrder []ocdg.ObjectID
	events      []Event
	eventIndex  map[ocdg.EventID]int
}

var _ ocdg.EventLog = (*Log)(nil)

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{
		objects:    make(map[ocdg.ObjectID]Object),
		eventIndex: make(map[ocdg.EventID]int),
	}
}

// AddObject declares an object. The type label is NFC-normalized.
func (l *Log) AddObject(id ocdg.ObjectID, typ string) error {
	if _, ok := l.objects[id]; ok {
		return &LoadError{Code: ErrCodeDuplicateID, Message: fmt.Sprintf("duplicate object id %d", id)}
	}
	l.objects[id] = Object{ID: id, Type: norm.NFC.String(typ)}
	l.objectOrder = append(l.objectOrder, id)
	return nil
}

// AddEvent appends an event at the end of the log and stamps its Seq.
// Repeated objects are collapsed; objects need not be declared yet, the
// builder reports undeclared ones.
func (l *Log) AddEvent(ev Event) error {
	if _, ok := l.eventIndex[ev.ID]; ok {
		return &LoadError{Code: ErrCodeDuplicateID, Message: fmt.Sprintf("duplicate event id %d", ev.ID)}
	}
	objs := slices.Clone(ev.Objects)
	slices.Sort(objs)
	ev.Objects = slices.Compact(objs)
	ev.Seq = int64(len(l.events) + 1)
	l.eventIndex[ev.ID] = len(l.events)
	l.events = append(l.events, ev)
	return nil
}

// Events yields events in log order.
func (l *Log) Events() iter.Seq2[ocdg.EventID, []ocdg.ObjectID] {
	return func(yield func(ocdg.EventID, []ocdg.ObjectID) bool) {
		for _, ev := range l.events {
			if !yield(ev.ID, ev.Objects) {
				return
			}
		}
	}
}

// ObjectType returns the declared type of an object.
func (l *Log) ObjectType(oid ocdg.ObjectID) (string, bool) {
	obj, ok := l.objects[oid]
	return obj.Type, ok
}

// EventObjects returns the object set of an event.
func (l *Log) EventObjects(eid ocdg.EventID) ([]ocdg.ObjectID, bool) {
	i, ok := l.eventIndex[eid]
	if !ok {
		return nil, false
	}
	return l.events[i].Objects, true
}

// Event returns the event with the given id.
func (l *Log) Event(eid ocdg.EventID) (Event, bool) {
	i, ok := l.eventIndex[eid]
	if !ok {
		return Event{}, false
	}
	return l.events[i], true
}

// Objects returns declared objects in declaration order.
func (l *Log) Objects() []Object {
	out := make([]Object, len(l.objectOrder))
	for i, id := range l.objectOrder {
		out[i] = l.objects[id]
	}
	return out
}

// EventList returns events in log order.
func (l *Log) EventList() []Event {
	return slices.Clone(l.events)
}

// NumObjects returns the number of declared objects.
func (l *Log) NumObjects() int { return len(l.objectOrder) }

// NumEvents returns the number of events.
func (l *Log) NumEvents() int { return len(l.events) }
