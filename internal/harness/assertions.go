package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ocdg/internal/export"
	"github.com/roach88/ocdg/internal/ocdg"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Graph    export.Document // Mined graph for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nEdges:\n")
	for _, edge := range e.Graph.Edges {
		fmt.Fprintf(&buf, "  %d -> %d %s\n", edge.Source, edge.Target, export.FormatRelations(edge.Relations))
	}

	return buf.String()
}

// canonicalRelation upper-cases a validated relation name.
func canonicalRelation(name string) string {
	kind, err := ocdg.ParseRelationKind(name)
	if err != nil {
		return name
	}
	return kind.String()
}

// assertEdge checks that source→target carries the relation. If events are
// given the evidence must match them exactly, in any order.
func assertEdge(doc export.Document, assertion Assertion) error {
	relation := canonicalRelation(assertion.Relation)
	expected := fmt.Sprintf("%d -> %d %s", assertion.Source, assertion.Target, relation)

	edge, ok := doc.Edge(assertion.Source, assertion.Target)
	if !ok {
		return &AssertionError{
			Type:     AssertEdge,
			Expected: expected,
			Actual:   "edge not found",
			Graph:    doc,
		}
	}

	actual, ok := edge.Relations[relation]
	if !ok {
		return &AssertionError{
			Type:     AssertEdge,
			Expected: expected,
			Actual:   fmt.Sprintf("edge carries %s", export.FormatRelations(edge.Relations)),
			Graph:    doc,
		}
	}

	if assertion.Events != nil {
		want := slices.Sorted(slices.Values(assertion.Events))
		want = slices.Compact(want)
		if !slices.Equal(want, actual) {
			return &AssertionError{
				Type:     AssertEdge,
				Expected: fmt.Sprintf("%s with evidence %v", expected, want),
				Actual:   fmt.Sprintf("evidence %v", actual),
				Graph:    doc,
			}
		}
	}

	return nil
}

// assertNoEdge checks that source→target does not carry the relation.
// With no relation, the edge must not be exported at all.
func assertNoEdge(doc export.Document, assertion Assertion) error {
	edge, ok := doc.Edge(assertion.Source, assertion.Target)
	if !ok {
		return nil
	}

	if assertion.Relation == "" {
		return &AssertionError{
			Type:     AssertNoEdge,
			Expected: fmt.Sprintf("no edge %d -> %d", assertion.Source, assertion.Target),
			Actual:   fmt.Sprintf("edge carries %s", export.FormatRelations(edge.Relations)),
			Graph:    doc,
		}
	}

	relation := canonicalRelation(assertion.Relation)
	if events, ok := edge.Relations[relation]; ok {
		return &AssertionError{
			Type:     AssertNoEdge,
			Expected: fmt.Sprintf("no %s on %d -> %d", relation, assertion.Source, assertion.Target),
			Actual:   fmt.Sprintf("%s with evidence %v", relation, events),
			Graph:    doc,
		}
	}

	return nil
}

// assertLifeline checks an object's lifeline, in order.
func assertLifeline(doc export.Document, assertion Assertion) error {
	node, ok := doc.Node(assertion.Object)
	if !ok {
		return &AssertionError{
			Type:     AssertLifeline,
			Expected: fmt.Sprintf("object %d with lifeline %v", assertion.Object, assertion.Events),
			Actual:   "node not found",
			Graph:    doc,
		}
	}

	if !slices.Equal(node.Lifeline, assertion.Events) {
		return &AssertionError{
			Type:     AssertLifeline,
			Expected: fmt.Sprintf("object %d with lifeline %v", assertion.Object, assertion.Events),
			Actual:   fmt.Sprintf("lifeline %v", node.Lifeline),
			Graph:    doc,
		}
	}

	return nil
}

// assertEdgeCount counts exported edges carrying the relation, or all
// exported edges if no relation is given.
func assertEdgeCount(doc export.Document, assertion Assertion) error {
	relation := canonicalRelation(assertion.Relation)
	count := 0
	for _, edge := range doc.Edges {
		if assertion.Relation == "" {
			count++
			continue
		}
		if _, ok := edge.Relations[relation]; ok {
			count++
		}
	}

	if count != assertion.Count {
		what := "edges"
		if assertion.Relation != "" {
			what = relation + " edges"
		}
		return &AssertionError{
			Type:     AssertEdgeCount,
			Expected: fmt.Sprintf("%d %s", assertion.Count, what),
			Actual:   fmt.Sprintf("%d %s", count, what),
			Graph:    doc,
		}
	}

	return nil
}

// EvaluateAssertions evaluates all assertions against the mined graph.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(doc export.Document, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEdge:
			err = assertEdge(doc, assertion)
		case AssertNoEdge:
			err = assertNoEdge(doc, assertion)
		case AssertLifeline:
			err = assertLifeline(doc, assertion)
		case AssertEdgeCount:
			err = assertEdgeCount(doc, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
