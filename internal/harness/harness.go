package harness

import (
	"context"
	"fmt"

	"github.com/roach88/ocdg/internal/export"
	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
	"github.com/roach88/ocdg/internal/store"
	"github.com/roach88/ocdg/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Assemble the scenario log and persist it
// 2. Read the log back and build the graph
// 3. Store the exported graph under a fixed build id
// 4. Read the build back and evaluate assertions against it
//
// An error is returned when the scenario cannot be executed at all, for
// example an event referencing an undeclared object. Assertion failures are
// reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with an explicit context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	sel, err := scenario.Selection()
	if err != nil {
		return nil, fmt.Errorf("relations: %w", err)
	}

	log, err := scenarioLog(scenario)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:", store.WithRunIDGenerator(testutil.NewFixedRunID(scenario.BuildID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.WriteLog(ctx, log); err != nil {
		return nil, err
	}
	stored, err := st.ReadLog(ctx)
	if err != nil {
		return nil, err
	}

	built, err := ocdg.Build(stored, sel)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	rec, err := st.WriteBuild(ctx, export.FromResult(built))
	if err != nil {
		return nil, err
	}
	doc, rec, err := st.ReadBuild(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Graph = doc
	result.Build = rec
	result.Stats = built.Stats

	for _, msg := range EvaluateAssertions(doc, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// scenarioLog assembles the scenario's inline log.
func scenarioLog(s *Scenario) (*ocel.Log, error) {
	log := ocel.NewLog()
	for _, obj := range s.Objects {
		if err := log.AddObject(ocdg.ObjectID(obj.ID), obj.Type); err != nil {
			return nil, fmt.Errorf("objects: %w", err)
		}
	}
	for _, step := range s.Events {
		ev := ocel.Event{
			ID:       ocdg.EventID(step.ID),
			Activity: step.Activity,
			Objects:  make([]ocdg.ObjectID, len(step.Objects)),
		}
		for i, oid := range step.Objects {
			ev.Objects[i] = ocdg.ObjectID(oid)
		}
		if err := log.AddEvent(ev); err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
	}
	return log, nil
}
