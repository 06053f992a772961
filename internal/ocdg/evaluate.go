package ocdg

import "slices"

// Proposal is one evaluator result: kind fired on source→target with the
// given evidence. Proposals are merged by the builder, never by evaluators.
type Proposal struct {
	Source ObjectID
	Target ObjectID
	Kind   RelationKind
	Events EventSet
}

func propose(src, tgt ObjectID, kind RelationKind, events EventSet) Proposal {
	return Proposal{Source: src, Target: tgt, Kind: kind, Events: events}
}

// proposeBoth emits kind in both directions with independent evidence sets.
func proposeBoth(a, b ObjectID, kind RelationKind, events EventSet) []Proposal {
	return []Proposal{
		propose(a, b, kind, events),
		propose(b, a, kind, events.Clone()),
	}
}

// primitiveEvaluator runs during ingestion, right after event eid has been
// appended to the lifelines of every object it involves.
type primitiveEvaluator func(lines *LifelineStore, a, b ObjectID, eid EventID) ([]Proposal, error)

// instanceEvaluator runs in the parallel phase on an adjacent pair a→b.
type instanceEvaluator func(v *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error)

// wholeEvaluator runs in the parallel phase on an object's outgoing neighbourhood.
type wholeEvaluator func(v *view, a ObjectID, la Lifeline, neighbors []ObjectID) ([]Proposal, error)

var primitiveEvaluators = [numRelationKinds]primitiveEvaluator{
	Interacts:   evalInteracts,
	Descendants: evalDescendants,
}

var instanceEvaluators = [numRelationKinds]instanceEvaluator{
	Colife:      evalColife,
	Cobirth:     evalCobirth,
	Codeath:     evalCodeath,
	Inheritance: evalInheritance,
	Consumes:    evalConsumes,
	Merge:       evalMerge,
	Minion:      evalMinion,
	Peeler:      evalPeeler,
	Engages:     evalEngages,
}

var wholeEvaluators = [numRelationKinds]wholeEvaluator{
	Split: evalSplit,
}

// view is the read-only state shared by phase-2 tasks.
type view struct {
	log   EventLog
	lines *Lifelines
	graph *Graph
}

func evalInteracts(_ *LifelineStore, a, b ObjectID, eid EventID) ([]Proposal, error) {
	return []Proposal{propose(a, b, Interacts, NewEventSet(eid))}, nil
}

// evalDescendants fires when a already existed and eid is b's first event.
func evalDescendants(lines *LifelineStore, a, b ObjectID, eid EventID) ([]Proposal, error) {
	la, err := lines.Get(a)
	if err != nil {
		return nil, err
	}
	lb, err := lines.Get(b)
	if err != nil {
		return nil, err
	}
	if la.Len() > 1 && lb.Len() == 1 {
		return []Proposal{propose(a, b, Descendants, NewEventSet(eid))}, nil
	}
	return nil, nil
}

func evalColife(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if la.Len() == 0 || !slices.Equal(la.Events, lb.Events) {
		return nil, nil
	}
	return []Proposal{propose(a, b, Colife, la.Set())}, nil
}

func evalCobirth(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if a >= b {
		return nil, nil
	}
	ba, okA := la.Birth()
	bb, okB := lb.Birth()
	if !okA || !okB || ba != bb {
		return nil, nil
	}
	return proposeBoth(a, b, Cobirth, NewEventSet(ba)), nil
}

func evalCodeath(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if a >= b {
		return nil, nil
	}
	da, okA := la.Death()
	db, okB := lb.Death()
	if !okA || !okB || da != db {
		return nil, nil
	}
	return proposeBoth(a, b, Codeath, NewEventSet(da)), nil
}

// handover reports whether a's lifeline ends exactly where b's begins.
func handover(la, lb Lifeline) (EventID, bool) {
	da, okA := la.Death()
	bb, okB := lb.Birth()
	if !okA || !okB || da != bb {
		return 0, false
	}
	return da, true
}

func evalInheritance(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if la.Type != lb.Type {
		return nil, nil
	}
	e, ok := handover(la, lb)
	if !ok {
		return nil, nil
	}
	return []Proposal{propose(a, b, Inheritance, NewEventSet(e))}, nil
}

func evalConsumes(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if la.Type == lb.Type {
		return nil, nil
	}
	e, ok := handover(la, lb)
	if !ok {
		return nil, nil
	}
	return []Proposal{propose(a, b, Consumes, NewEventSet(e))}, nil
}

// evalMerge keeps the broad rule: same type and different deaths.
func evalMerge(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if la.Type != lb.Type {
		return nil, nil
	}
	da, okA := la.Death()
	db, okB := lb.Death()
	if !okA || !okB || da == db {
		return nil, nil
	}
	return []Proposal{propose(a, b, Merge, NewEventSet(da))}, nil
}

// evalMinion fires when b's whole lifeline happens inside a's longer one.
func evalMinion(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if la.Len() <= lb.Len() {
		return nil, nil
	}
	own := la.Set()
	common := make(EventSet, lb.Len())
	for _, e := range lb.Events {
		if own.Contains(e) {
			common.Add(e)
		}
	}
	if len(common) != lb.Len() {
		return nil, nil
	}
	return []Proposal{propose(a, b, Minion, common)}, nil
}

// evalPeeler walks the shorter lifeline and fails as soon as a and b meet in
// an event with a third object. Every walked event becomes evidence.
func evalPeeler(v *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if a >= b {
		return nil, nil
	}
	shorter := la
	if la.Len() > lb.Len() {
		shorter = lb
	}
	shared := make(EventSet, shorter.Len())
	for _, e := range shorter.Events {
		objs, ok := v.log.EventObjects(e)
		if !ok {
			return nil, newUnknownEventError(a, e)
		}
		if len(objs) > 2 && slices.Contains(objs, a) && slices.Contains(objs, b) {
			return nil, nil
		}
		shared.Add(e)
	}
	return proposeBoth(a, b, Peeler, shared), nil
}

// evalEngages fires when neither object is born or dies inside the other's lifeline.
func evalEngages(_ *view, a, b ObjectID, la, lb Lifeline) ([]Proposal, error) {
	if a >= b {
		return nil, nil
	}
	ba, okBA := la.Birth()
	da, okDA := la.Death()
	bb, okBB := lb.Birth()
	db, okDB := lb.Death()
	if !okBA || !okDA || !okBB || !okDB {
		return nil, nil
	}
	setA, setB := la.Set(), lb.Set()
	if setB.Contains(ba) || setB.Contains(da) || setA.Contains(bb) || setA.Contains(db) {
		return nil, nil
	}
	shared := make(EventSet)
	for e := range setA {
		if setB.Contains(e) {
			shared.Add(e)
		}
	}
	return proposeBoth(a, b, Engages, shared), nil
}

// evalSplit fans out from a to every same-type neighbour born at a's death,
// provided there is more than one.
func evalSplit(v *view, a ObjectID, la Lifeline, neighbors []ObjectID) ([]Proposal, error) {
	death, ok := la.Death()
	if !ok {
		return nil, nil
	}
	var heirs []ObjectID
	for _, b := range neighbors {
		lb, err := v.lines.Get(b)
		if err != nil {
			return nil, err
		}
		if lb.Type != la.Type {
			continue
		}
		if birth, ok := lb.Birth(); ok && birth == death && !slices.Contains(heirs, b) {
			heirs = append(heirs, b)
		}
	}
	if len(heirs) < 2 {
		return nil, nil
	}
	slices.Sort(heirs)
	out := make([]Proposal, len(heirs))
	for i, b := range heirs {
		out[i] = propose(a, b, Split, NewEventSet(death))
	}
	return out, nil
}
