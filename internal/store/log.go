package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
)

// ErrLogConflict is returned by WriteLog when the database already holds a
// different log.
var ErrLogConflict = errors.New("log conflict")

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// WriteLog stores every object and event of log in one transaction.
//
// A database holds a single log. Writing the log it already holds is a
// no-op; writing any other log fails with ErrLogConflict and leaves the
// stored rows untouched.
func (s *Store) WriteLog(ctx context.Context, log *ocel.Log) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write log: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stored, err := readLog(ctx, tx)
	if err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	if stored.NumObjects() > 0 || stored.NumEvents() > 0 {
		if err := compareLogs(stored, log); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
		return nil
	}

	for _, obj := range log.Objects() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO objects (id, type) VALUES (?, ?)`,
			int64(obj.ID), obj.Type); err != nil {
			return fmt.Errorf("write log: object %d: %w", obj.ID, err)
		}
	}

	for _, ev := range log.EventList() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, seq, activity) VALUES (?, ?, ?)`,
			int64(ev.ID), ev.Seq, ev.Activity); err != nil {
			return fmt.Errorf("write log: event %d: %w", ev.ID, err)
		}
		for _, oid := range ev.Objects {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO event_objects (event_id, object_id) VALUES (?, ?)`,
				int64(ev.ID), int64(oid)); err != nil {
				return fmt.Errorf("write log: event %d object %d: %w", ev.ID, oid, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write log: commit: %w", err)
	}
	return nil
}

// compareLogs returns an ErrLogConflict naming the first difference between
// the stored log and the incoming one.
func compareLogs(stored, incoming *ocel.Log) error {
	if stored.NumObjects() != incoming.NumObjects() {
		return fmt.Errorf("%w: database holds %d object(s), log declares %d",
			ErrLogConflict, stored.NumObjects(), incoming.NumObjects())
	}
	for _, obj := range incoming.Objects() {
		typ, ok := stored.ObjectType(obj.ID)
		if !ok {
			return fmt.Errorf("%w: object %d not in database", ErrLogConflict, obj.ID)
		}
		if typ != obj.Type {
			return fmt.Errorf("%w: object %d has type %q, database holds %q",
				ErrLogConflict, obj.ID, obj.Type, typ)
		}
	}

	have, want := stored.EventList(), incoming.EventList()
	if len(have) != len(want) {
		return fmt.Errorf("%w: database holds %d event(s), log has %d",
			ErrLogConflict, len(have), len(want))
	}
	for i := range want {
		h, w := have[i], want[i]
		switch {
		case h.ID != w.ID:
			return fmt.Errorf("%w: event #%d is %d, database holds %d", ErrLogConflict, i+1, w.ID, h.ID)
		case h.Activity != w.Activity:
			return fmt.Errorf("%w: event %d activity %q, database holds %q", ErrLogConflict, w.ID, w.Activity, h.Activity)
		case !slices.Equal(h.Objects, w.Objects):
			return fmt.Errorf("%w: event %d objects %v, database holds %v", ErrLogConflict, w.ID, w.Objects, h.Objects)
		}
	}
	return nil
}

// ReadLog rebuilds the stored log. Events come back ORDER BY seq ASC.
//
// Each query is drained and closed before the next starts: the store keeps a
// single connection.
func (s *Store) ReadLog(ctx context.Context) (*ocel.Log, error) {
	return readLog(ctx, s.db)
}

func readLog(ctx context.Context, q querier) (*ocel.Log, error) {
	log := ocel.NewLog()

	objects, err := readObjects(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		if err := log.AddObject(obj.ID, obj.Type); err != nil {
			return nil, err
		}
	}

	members, err := readEventObjects(ctx, q)
	if err != nil {
		return nil, err
	}

	events, err := readEvents(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		ev.Objects = members[int64(ev.ID)]
		if err := log.AddEvent(ev); err != nil {
			return nil, err
		}
	}

	return log, nil
}

func readObjects(ctx context.Context, q querier) ([]ocel.Object, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, type FROM objects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var objects []ocel.Object
	for rows.Next() {
		var id int64
		var typ string
		if err := rows.Scan(&id, &typ); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		objects = append(objects, ocel.Object{ID: ocdg.ObjectID(id), Type: typ})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	return objects, nil
}

func readEvents(ctx context.Context, q querier) ([]ocel.Event, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, activity FROM events ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []ocel.Event
	for rows.Next() {
		var id int64
		var activity string
		if err := rows.Scan(&id, &activity); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ocel.Event{ID: ocdg.EventID(id), Activity: activity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func readEventObjects(ctx context.Context, q querier) (map[int64][]ocdg.ObjectID, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT event_id, object_id FROM event_objects
		ORDER BY event_id ASC, object_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query event objects: %w", err)
	}
	defer rows.Close()

	members := make(map[int64][]ocdg.ObjectID)
	for rows.Next() {
		var eid, oid int64
		if err := rows.Scan(&eid, &oid); err != nil {
			return nil, fmt.Errorf("scan event object: %w", err)
		}
		members[eid] = append(members[eid], ocdg.ObjectID(oid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event objects: %w", err)
	}
	return members, nil
}
