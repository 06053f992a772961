// Package harness provides conformance testing for relation mining.
//
// The harness builds a graph from a scenario's inline event log and checks
// the mined relations against the scenario's assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	relations: [ALL]            # optional, defaults to ALL
//	objects:
//	  - {id: 1, type: order}
//	events:                     # listed in log order
//	  - {id: 1, activity: create, objects: [1, 2]}
//	assertions:
//	  - type: edge
//	    source: 1
//	    target: 2
//	    relation: COBIRTH
//	    events: [1]
//	  - type: no_edge
//	    source: 2
//	    target: 1
//	    relation: SPLIT
//	  - type: lifeline
//	    object: 2
//	    events: [1, 2]
//	  - type: edge_count
//	    relation: SPLIT
//	    count: 2
//
// # Assertion Types
//
//   - edge: the edge carries relation; if events is given the evidence must equal it
//   - no_edge: the edge does not carry relation, or is not exported at all if relation is empty
//   - lifeline: the object's lifeline is exactly events
//   - edge_count: number of exported edges carrying relation (all edges if empty)
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a fixed build
// id. Assertions are evaluated on the graph as read back from the store, so
// the persistence round trip is exercised on every run.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/chain.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
