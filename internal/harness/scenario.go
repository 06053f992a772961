package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ocdg/internal/ocdg"
)

// Scenario defines a conformance test scenario: a small event log, the
// relations to mine from it and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Relations lists the relation kinds to compute. Empty means ALL.
	Relations []string `yaml:"relations,omitempty"`

	// Objects declares every object with its type.
	Objects []ObjectDecl `yaml:"objects"`

	// Events is the log, in log order.
	Events []EventStep `yaml:"events"`

	// Assertions validate the mined graph.
	Assertions []Assertion `yaml:"assertions"`

	// BuildID is an optional fixed id for the stored build.
	// If empty, defaults to "test-build-default".
	BuildID string `yaml:"build_id,omitempty"`
}

// ObjectDecl declares one object.
type ObjectDecl struct {
	ID   uint64 `yaml:"id"`
	Type string `yaml:"type"`
}

// EventStep is one log event.
type EventStep struct {
	ID       uint64   `yaml:"id"`
	Activity string   `yaml:"activity,omitempty"`
	Objects  []uint64 `yaml:"objects"`
}

// Assertion validates the mined graph.
type Assertion struct {
	// Type specifies the assertion type:
	// - "edge": source→target carries relation (with exact events if given)
	// - "no_edge": source→target does not carry relation
	// - "lifeline": object's lifeline equals events
	// - "edge_count": number of edges carrying relation equals count
	Type string `yaml:"type"`

	Source   uint64 `yaml:"source,omitempty"`
	Target   uint64 `yaml:"target,omitempty"`
	Relation string `yaml:"relation,omitempty"`

	// Events is the expected evidence (edge) or lifeline (lifeline).
	Events []uint64 `yaml:"events,omitempty"`

	// Object is the object id (used by lifeline).
	Object uint64 `yaml:"object,omitempty"`

	// Count is the expected number of edges (used by edge_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertEdge      = "edge"
	AssertNoEdge    = "no_edge"
	AssertLifeline  = "lifeline"
	AssertEdgeCount = "edge_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Selection returns the scenario's relation selection.
func (s *Scenario) Selection() (ocdg.Selection, error) {
	if len(s.Relations) == 0 {
		return ocdg.AllRelations(), nil
	}
	return ocdg.ParseSelection(s.Relations)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := s.Selection(); err != nil {
		return fmt.Errorf("relations: %w", err)
	}

	for i, obj := range s.Objects {
		if obj.Type == "" {
			return fmt.Errorf("objects[%d]: type is required", i)
		}
	}

	for i, ev := range s.Events {
		if len(ev.Objects) == 0 {
			return fmt.Errorf("events[%d]: objects list is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	checkRelation := func(required bool) error {
		if a.Relation == "" {
			if required {
				return fmt.Errorf("assertions[%d]: relation is required for %s", index, a.Type)
			}
			return nil
		}
		if _, err := ocdg.ParseRelationKind(a.Relation); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		return nil
	}

	switch a.Type {
	case AssertEdge:
		return checkRelation(true)
	case AssertNoEdge:
		return checkRelation(false)
	case AssertLifeline:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for lifeline", index)
		}
	case AssertEdgeCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for edge_count", index)
		}
		return checkRelation(false)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
