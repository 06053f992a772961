package ocdg

import "iter"

// memLog is a minimal EventLog for in-package tests.
type memLog struct {
	types  map[ObjectID]string
	order  []EventID
	events map[EventID][]ObjectID
}

func newMemLog() *memLog {
	return &memLog{types: map[ObjectID]string{}, events: map[EventID][]ObjectID{}}
}

func (l *memLog) object(oid ObjectID, typ string) *memLog {
	l.types[oid] = typ
	return l
}

func (l *memLog) event(eid EventID, objs ...ObjectID) *memLog {
	l.order = append(l.order, eid)
	l.events[eid] = objs
	return l
}

func (l *memLog) Events() iter.Seq2[EventID, []ObjectID] {
	return func(yield func(EventID, []ObjectID) bool) {
		for _, eid := range l.order {
			if !yield(eid, l.events[eid]) {
				return
			}
		}
	}
}

func (l *memLog) ObjectType(oid ObjectID) (string, bool) {
	typ, ok := l.types[oid]
	return typ, ok
}

func (l *memLog) EventObjects(eid EventID) ([]ObjectID, bool) {
	objs, ok := l.events[eid]
	return objs, ok
}

func line(typ string, events ...EventID) Lifeline {
	return Lifeline{Type: typ, Events: events}
}
