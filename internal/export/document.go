package export

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/ocdg/internal/ocdg"
)

// Node is an exported object with its type and lifeline.
type Node struct {
	ID       uint64   `json:"id"`
	Type     string   `json:"type"`
	Lifeline []uint64 `json:"lifeline"`
}

// Edge is an exported directed edge. Relations maps a relation name to its
// sorted evidence events.
type Edge struct {
	Source    uint64              `json:"source"`
	Target    uint64              `json:"target"`
	Relations map[string][]uint64 `json:"relations"`
}

// Document is the deterministic, export-ready form of a build.
// Nodes are sorted by id, edges by (source, target).
type Document struct {
	Relations []string `json:"relations"`
	Nodes     []Node   `json:"nodes"`
	Edges     []Edge   `json:"edges"`
}

// FromResult converts a build result. Edges established only by
// co-occurrence, with no selected relation firing on them, are left out.
func FromResult(res *ocdg.Result) Document {
	doc := Document{
		Relations: res.Selection.Names(),
		Nodes:     []Node{},
		Edges:     []Edge{},
	}
	if doc.Relations == nil {
		doc.Relations = []string{}
	}

	for _, oid := range res.Lifelines.Objects() {
		if !res.Graph.HasNode(oid) {
			continue
		}
		line, err := res.Lifelines.Get(oid)
		if err != nil {
			continue
		}
		node := Node{ID: uint64(oid), Type: line.Type, Lifeline: make([]uint64, len(line.Events))}
		for i, e := range line.Events {
			node.Lifeline[i] = uint64(e)
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for _, e := range res.Graph.Edges() {
		rels := res.Graph.Relations(e.Source, e.Target)
		if len(rels) == 0 {
			continue
		}
		edge := Edge{
			Source:    uint64(e.Source),
			Target:    uint64(e.Target),
			Relations: make(map[string][]uint64, len(rels)),
		}
		for kind, events := range rels {
			edge.Relations[kind.String()] = eventIDs(events)
		}
		doc.Edges = append(doc.Edges, edge)
	}
	SortEdges(doc.Edges)
	return doc
}

// SortEdges orders edges by (source, target).
func SortEdges(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
}

func eventIDs(set ocdg.EventSet) []uint64 {
	sorted := set.Sorted()
	out := make([]uint64, len(sorted))
	for i, e := range sorted {
		out[i] = uint64(e)
	}
	return out
}

// Edge returns the edge source→target, if exported.
func (d Document) Edge(source, target uint64) (Edge, bool) {
	for _, e := range d.Edges {
		if e.Source == source && e.Target == target {
			return e, true
		}
	}
	return Edge{}, false
}

// Node returns the node with the given id, if exported.
func (d Document) Node(id uint64) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// FormatRelations renders relations as "KIND[e1 e2] KIND[e3]", sorted by name.
func FormatRelations(rels map[string][]uint64) string {
	if len(rels) == 0 {
		return "(none)"
	}
	names := slices.Sorted(maps.Keys(rels))
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s%v", name, rels[name])
	}
	return strings.Join(parts, " ")
}
