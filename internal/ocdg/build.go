package ocdg

import (
	"iter"
	"log/slog"
)

// EventLog is the read-only object-centric event log consumed by Build.
type EventLog interface {
	// Events yields every event with its object set, in log order. The order
	// is taken to be chronological; lifelines follow it exactly.
	Events() iter.Seq2[EventID, []ObjectID]

	// ObjectType returns the declared type label of an object.
	ObjectType(oid ObjectID) (string, bool)

	// EventObjects returns the object set of a single event.
	EventObjects(eid EventID) ([]ObjectID, bool)
}

// Stats summarizes a build.
type Stats struct {
	Events             int
	Nodes              int
	Edges              int
	PrimitiveProposals int
	ParallelProposals  int

	// Relations counts the edges carrying evidence, per selected kind.
	Relations map[RelationKind]int
}

// Result is a finished build. The graph and lifelines are read-only.
type Result struct {
	Graph     *Graph
	Lifelines *Lifelines
	Selection Selection
	Stats     Stats
}

// BuildOption configures a Builder.
type BuildOption func(*Builder)

// WithWorkers bounds the number of goroutines used by the evaluation phase.
// Values <= 0 mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) BuildOption {
	return func(b *Builder) {
		b.workers = n
	}
}

// Builder constructs graphs from one log and relation selection.
// A Builder holds no build state; every Build call starts from scratch.
type Builder struct {
	log     EventLog
	sel     Selection
	workers int
}

// NewBuilder returns a builder for log computing the kinds in sel.
func NewBuilder(log EventLog, sel Selection, opts ...BuildOption) *Builder {
	b := &Builder{log: log, sel: sel}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is shorthand for NewBuilder(log, sel, opts...).Build().
func Build(log EventLog, sel Selection, opts ...BuildOption) (*Result, error) {
	return NewBuilder(log, sel, opts...).Build()
}

// build carries the mutable state of one Build call.
type build struct {
	*Builder
	lines *LifelineStore
	graph *Graph
	stats Stats
}

// Build runs ingestion, parallel evaluation and reconciliation.
// It returns an *IntegrityError if the log references an undeclared object.
func (b *Builder) Build() (*Result, error) {
	st := &build{
		Builder: b,
		lines:   NewLifelineStore(),
		graph:   NewGraph(),
	}

	if err := st.ingest(); err != nil {
		return nil, err
	}
	slog.Debug("ingestion complete",
		"events", st.stats.Events,
		"nodes", st.graph.NodeCount(),
		"edges", st.graph.EdgeCount())

	frozen := st.lines.Freeze()
	proposals, err := st.evaluate(frozen)
	if err != nil {
		return nil, err
	}
	slog.Debug("evaluation complete", "proposals", st.stats.ParallelProposals)

	if err := st.reconcile(proposals); err != nil {
		return nil, err
	}

	st.stats.Nodes = st.graph.NodeCount()
	st.stats.Edges = st.graph.EdgeCount()
	st.stats.Relations = make(map[RelationKind]int)
	for _, k := range b.sel.Kinds() {
		st.stats.Relations[k] = st.graph.RelationCount(k)
	}
	slog.Info("graph built",
		"relations", b.sel.String(),
		"nodes", st.stats.Nodes,
		"edges", st.stats.Edges)

	return &Result{
		Graph:     st.graph,
		Lifelines: frozen,
		Selection: b.sel,
		Stats:     st.stats,
	}, nil
}

// ingest walks the log once, in order. Each event first extends the
// lifelines of all its objects, then primitive relations are evaluated for
// every ordered pair and merged immediately.
func (st *build) ingest() error {
	primitives := st.sel.InTier(TierPrimitive)

	for eid, objs := range st.log.Events() {
		st.stats.Events++
		for _, oid := range objs {
			if !st.lines.Registered(oid) {
				typ, ok := st.log.ObjectType(oid)
				if !ok {
					return newUnknownObjectError(oid, eid)
				}
				st.lines.Register(oid, typ)
				st.graph.EnsureNode(oid)
			}
			st.lines.Append(oid, eid)
		}

		for _, a := range objs {
			for _, c := range objs {
				if a == c {
					continue
				}
				// Adjacency is recorded regardless of the selection; it gates
				// the instance tier.
				if _, err := st.graph.EnsureEdge(a, c); err != nil {
					return err
				}
				for _, k := range primitives {
					props, err := primitiveEvaluators[k](st.lines, a, c, eid)
					if err != nil {
						return err
					}
					st.stats.PrimitiveProposals += len(props)
					if err := st.merge(props); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// evaluate fans out one read-only task per node.
func (st *build) evaluate(frozen *Lifelines) ([][]Proposal, error) {
	whole := st.sel.InTier(TierWhole)
	instance := st.sel.InTier(TierInstance)
	if len(whole) == 0 && len(instance) == 0 {
		return nil, nil
	}

	v := &view{log: st.log, lines: frozen, graph: st.graph}
	nodes := st.graph.Nodes()
	results, err := mapTasks(len(nodes), st.workers, func(i int) ([]Proposal, error) {
		return v.evaluateNode(nodes[i], whole, instance)
	})
	if err != nil {
		return nil, err
	}
	for _, props := range results {
		st.stats.ParallelProposals += len(props)
	}
	return results, nil
}

// evaluateNode runs the whole-tier evaluators once for a, then the instance
// evaluators for every established neighbour.
func (v *view) evaluateNode(a ObjectID, whole, instance []RelationKind) ([]Proposal, error) {
	la, err := v.lines.Get(a)
	if err != nil {
		return nil, err
	}
	neighbors := v.graph.Neighbors(a)

	var out []Proposal
	for _, k := range whole {
		props, err := wholeEvaluators[k](v, a, la, neighbors)
		if err != nil {
			return nil, err
		}
		out = append(out, props...)
	}

	for _, b := range neighbors {
		if !v.graph.HasAnyRelation(a, b) {
			continue
		}
		lb, err := v.lines.Get(b)
		if err != nil {
			return nil, err
		}
		for _, k := range instance {
			props, err := instanceEvaluators[k](v, a, b, la, lb)
			if err != nil {
				return nil, err
			}
			out = append(out, props...)
		}
	}
	return out, nil
}

// reconcile folds every task's proposals into the graph, in node order.
func (st *build) reconcile(results [][]Proposal) error {
	for _, props := range results {
		if err := st.merge(props); err != nil {
			return err
		}
	}
	return nil
}

func (st *build) merge(props []Proposal) error {
	for _, p := range props {
		if err := st.graph.AddEvidence(p.Source, p.Target, p.Kind, p.Events); err != nil {
			return err
		}
	}
	return nil
}
