package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/ocdg/internal/export"
)

// BuildRecord describes one stored build.
type BuildRecord struct {
	ID        string   `json:"id"`
	Seq       int64    `json:"seq"`
	Relations []string `json:"relations"`
	Digest    string   `json:"digest"`
	Nodes     int      `json:"nodes"`
	Edges     int      `json:"edges"`
}

// WriteBuild stores an exported graph under a fresh build id.
// The build is stamped with the next logical seq; nodes and evidence rows are
// written in the same transaction.
func (s *Store) WriteBuild(ctx context.Context, doc export.Document) (BuildRecord, error) {
	digest, err := export.Digest(doc)
	if err != nil {
		return BuildRecord{}, fmt.Errorf("write build: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BuildRecord{}, fmt.Errorf("write build: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&seq); err != nil {
		return BuildRecord{}, fmt.Errorf("write build: next seq: %w", err)
	}

	rec := BuildRecord{
		ID:        s.runID.Generate(),
		Seq:       seq,
		Relations: doc.Relations,
		Digest:    digest,
		Nodes:     len(doc.Nodes),
		Edges:     len(doc.Edges),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO builds (id, seq, relations, digest, node_count, edge_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Seq, strings.Join(rec.Relations, ","), rec.Digest, rec.Nodes, rec.Edges); err != nil {
		return BuildRecord{}, fmt.Errorf("write build: insert: %w", err)
	}

	for _, n := range doc.Nodes {
		lifeline, err := json.Marshal(n.Lifeline)
		if err != nil {
			return BuildRecord{}, fmt.Errorf("write build: node %d: %w", n.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO build_nodes (build_id, object_id, type, lifeline)
			VALUES (?, ?, ?, ?)
		`, rec.ID, int64(n.ID), n.Type, string(lifeline)); err != nil {
			return BuildRecord{}, fmt.Errorf("write build: node %d: %w", n.ID, err)
		}
	}

	for _, e := range doc.Edges {
		for relation, events := range e.Relations {
			for _, eid := range events {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO build_evidence (build_id, source, target, relation, event_id)
					VALUES (?, ?, ?, ?, ?)
					ON CONFLICT DO NOTHING
				`, rec.ID, int64(e.Source), int64(e.Target), relation, int64(eid)); err != nil {
					return BuildRecord{}, fmt.Errorf("write build: edge %d->%d: %w", e.Source, e.Target, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return BuildRecord{}, fmt.Errorf("write build: commit: %w", err)
	}
	return rec, nil
}

// ListBuilds returns every stored build ORDER BY seq ASC.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListBuilds(ctx context.Context) ([]BuildRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, relations, digest, node_count, edge_count
		FROM builds
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	records := []BuildRecord{}
	for rows.Next() {
		rec, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner) (BuildRecord, error) {
	var rec BuildRecord
	var relations string
	if err := row.Scan(&rec.ID, &rec.Seq, &relations, &rec.Digest, &rec.Nodes, &rec.Edges); err != nil {
		return BuildRecord{}, fmt.Errorf("scan build: %w", err)
	}
	rec.Relations = splitRelations(relations)
	return rec, nil
}

func splitRelations(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// ReadBuild returns a stored build as an export document.
// Returns an error wrapping sql.ErrNoRows if the build does not exist.
func (s *Store) ReadBuild(ctx context.Context, id string) (export.Document, BuildRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, relations, digest, node_count, edge_count
		FROM builds
		WHERE id = ?
	`, id)
	rec, err := scanBuild(row)
	if err != nil {
		return export.Document{}, BuildRecord{}, fmt.Errorf("read build %s: %w", id, err)
	}

	doc := export.Document{Relations: rec.Relations}
	if doc.Nodes, err = s.readBuildNodes(ctx, id); err != nil {
		return export.Document{}, BuildRecord{}, err
	}
	if doc.Edges, err = s.readBuildEdges(ctx, id); err != nil {
		return export.Document{}, BuildRecord{}, err
	}
	return doc, rec, nil
}

func (s *Store) readBuildNodes(ctx context.Context, id string) ([]export.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id, type, lifeline
		FROM build_nodes
		WHERE build_id = ?
		ORDER BY object_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query build nodes: %w", err)
	}
	defer rows.Close()

	nodes := []export.Node{}
	for rows.Next() {
		var oid int64
		var n export.Node
		var lifeline string
		if err := rows.Scan(&oid, &n.Type, &lifeline); err != nil {
			return nil, fmt.Errorf("scan build node: %w", err)
		}
		n.ID = uint64(oid)
		if err := json.Unmarshal([]byte(lifeline), &n.Lifeline); err != nil {
			return nil, fmt.Errorf("decode lifeline of %d: %w", oid, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build nodes: %w", err)
	}
	return nodes, nil
}

func (s *Store) readBuildEdges(ctx context.Context, id string) ([]export.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, target, relation, event_id
		FROM build_evidence
		WHERE build_id = ?
		ORDER BY source ASC, target ASC, relation ASC, event_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query build evidence: %w", err)
	}
	defer rows.Close()

	edges := []export.Edge{}
	for rows.Next() {
		var src, tgt, eid int64
		var relation string
		if err := rows.Scan(&src, &tgt, &relation, &eid); err != nil {
			return nil, fmt.Errorf("scan build evidence: %w", err)
		}
		last := len(edges) - 1
		if last < 0 || edges[last].Source != uint64(src) || edges[last].Target != uint64(tgt) {
			edges = append(edges, export.Edge{
				Source:    uint64(src),
				Target:    uint64(tgt),
				Relations: make(map[string][]uint64),
			})
			last++
		}
		edges[last].Relations[relation] = append(edges[last].Relations[relation], uint64(eid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build evidence: %w", err)
	}
	return edges, nil
}
