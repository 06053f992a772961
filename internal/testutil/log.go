package testutil

import (
	"fmt"

	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
)

// LogBuilder assembles fixture logs. Events are appended in call order, which
// becomes the log order.
//
// Builder methods panic on duplicate ids: a broken fixture is a test bug.
type LogBuilder struct {
	log *ocel.Log
}

// NewLog starts an empty fixture log.
func NewLog() *LogBuilder {
	return &LogBuilder{log: ocel.NewLog()}
}

// Objects declares objects of one type.
func (b *LogBuilder) Objects(typ string, ids ...uint64) *LogBuilder {
	for _, id := range ids {
		if err := b.log.AddObject(ocdg.ObjectID(id), typ); err != nil {
			panic(fmt.Sprintf("testutil: %v", err))
		}
	}
	return b
}

// Event appends an event involving the given objects.
func (b *LogBuilder) Event(id uint64, objs ...uint64) *LogBuilder {
	ev := ocel.Event{ID: ocdg.EventID(id), Objects: make([]ocdg.ObjectID, len(objs))}
	for i, oid := range objs {
		ev.Objects[i] = ocdg.ObjectID(oid)
	}
	if err := b.log.AddEvent(ev); err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return b
}

// Log returns the assembled log.
func (b *LogBuilder) Log() *ocel.Log {
	return b.log
}

// ChainLog is the three-object chain: o1, o2, o3 of type A with
// e1={o1,o2} followed by e2={o2,o3}.
func ChainLog() *ocel.Log {
	return NewLog().
		Objects("A", 1, 2, 3).
		Event(1, 1, 2).
		Event(2, 2, 3).
		Log()
}

// SplitLog has order 1 dying in event 3, where orders 2 and 3 are born:
//
//	e1={1,4} e2={1,4} e3={1,2,3} e4={2} e5={3}
//
// Object 4 is of type "customer"; the rest are "order".
func SplitLog() *ocel.Log {
	return NewLog().
		Objects("order", 1, 2, 3).
		Objects("customer", 4).
		Event(1, 1, 4).
		Event(2, 1, 4).
		Event(3, 1, 2, 3).
		Event(4, 2).
		Event(5, 3).
		Log()
}
