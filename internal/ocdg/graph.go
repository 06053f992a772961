package ocdg

import "slices"

// Edge is a directed object pair. At most one edge exists per ordered pair,
// however many relation kinds justify it.
type Edge struct {
	Source ObjectID
	Target ObjectID
}

type edgeSlot struct {
	Edge
	evidence [numRelationKinds]EventSet
}

// Graph is the node/edge structure plus the evidence index keyed by
// (source, target, kind).
//
// Thread-safety: all read methods may run concurrently with each other.
// Writes (EnsureNode, EnsureEdge, AddEvidence) must not overlap with anything;
// Build confines them to its sequential phases.
type Graph struct {
	nodes     []ObjectID
	nodeIndex map[ObjectID]int
	edges     []*edgeSlot
	edgeIndex map[Edge]int
	out       map[ObjectID][]ObjectID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[ObjectID]int),
		edgeIndex: make(map[Edge]int),
		out:       make(map[ObjectID][]ObjectID),
	}
}

// EnsureNode adds oid as a node if absent. Returns true if it was created.
func (g *Graph) EnsureNode(oid ObjectID) bool {
	if _, ok := g.nodeIndex[oid]; ok {
		return false
	}
	g.nodeIndex[oid] = len(g.nodes)
	g.nodes = append(g.nodes, oid)
	return true
}

// HasNode reports whether oid is a node.
func (g *Graph) HasNode(oid ObjectID) bool {
	_, ok := g.nodeIndex[oid]
	return ok
}

// EnsureEdge returns the edge src→tgt, creating it if absent. Both endpoints
// must already be nodes.
func (g *Graph) EnsureEdge(src, tgt ObjectID) (Edge, error) {
	_, err := g.ensureSlot(src, tgt)
	if err != nil {
		return Edge{}, err
	}
	return Edge{Source: src, Target: tgt}, nil
}

func (g *Graph) ensureSlot(src, tgt ObjectID) (*edgeSlot, error) {
	key := Edge{Source: src, Target: tgt}
	if i, ok := g.edgeIndex[key]; ok {
		return g.edges[i], nil
	}
	if !g.HasNode(src) {
		return nil, newMissingNodeError(src)
	}
	if !g.HasNode(tgt) {
		return nil, newMissingNodeError(tgt)
	}
	slot := &edgeSlot{Edge: key}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, slot)
	g.out[src] = append(g.out[src], tgt)
	return slot, nil
}

// HasEdge reports whether the edge src→tgt exists.
func (g *Graph) HasEdge(src, tgt ObjectID) bool {
	_, ok := g.edgeIndex[Edge{Source: src, Target: tgt}]
	return ok
}

// AddEvidence unions events into the evidence of (src, tgt, kind), creating
// the edge and the triple as needed. An empty events set creates the edge but
// leaves the kind invisible.
func (g *Graph) AddEvidence(src, tgt ObjectID, kind RelationKind, events EventSet) error {
	slot, err := g.ensureSlot(src, tgt)
	if err != nil {
		return err
	}
	if !kind.Valid() || len(events) == 0 {
		return nil
	}
	if slot.evidence[kind] == nil {
		slot.evidence[kind] = make(EventSet, len(events))
	}
	slot.evidence[kind].Union(events)
	return nil
}

// HasAnyRelation reports whether src→tgt has been established. Edges are only
// created by co-occurrence during ingestion or by a fired relation, so this is
// the gate for instance-tier evaluation.
func (g *Graph) HasAnyRelation(src, tgt ObjectID) bool {
	return g.HasEdge(src, tgt)
}

// Evidence returns a copy of the evidence for (src, tgt, kind).
func (g *Graph) Evidence(src, tgt ObjectID, kind RelationKind) (EventSet, bool) {
	i, ok := g.edgeIndex[Edge{Source: src, Target: tgt}]
	if !ok || !kind.Valid() {
		return nil, false
	}
	set := g.edges[i].evidence[kind]
	if set == nil {
		return nil, false
	}
	return set.Clone(), true
}

// Relations returns copies of every fired kind's evidence on src→tgt.
func (g *Graph) Relations(src, tgt ObjectID) map[RelationKind]EventSet {
	i, ok := g.edgeIndex[Edge{Source: src, Target: tgt}]
	if !ok {
		return nil
	}
	rels := make(map[RelationKind]EventSet)
	for k, set := range g.edges[i].evidence {
		if set != nil {
			rels[RelationKind(k)] = set.Clone()
		}
	}
	return rels
}

// Nodes returns the node ids in creation order.
func (g *Graph) Nodes() []ObjectID {
	return slices.Clone(g.nodes)
}

// Edges returns every edge in creation order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, slot := range g.edges {
		out[i] = slot.Edge
	}
	return out
}

// Neighbors returns the targets of oid's outgoing edges in creation order.
func (g *Graph) Neighbors(oid ObjectID) []ObjectID {
	return slices.Clone(g.out[oid])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// RelationCount returns how many edges carry evidence for kind.
func (g *Graph) RelationCount(kind RelationKind) int {
	if !kind.Valid() {
		return 0
	}
	n := 0
	for _, slot := range g.edges {
		if slot.evidence[kind] != nil {
			n++
		}
	}
	return n
}
