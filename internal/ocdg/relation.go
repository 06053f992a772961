package ocdg

import (
	"fmt"
	"strings"
)

// RelationKind is one of the twelve relations mined between object pairs.
// The numeric values are stable and used as the evidence index.
type RelationKind uint8

const (
	Interacts RelationKind = iota
	Colife
	Cobirth
	Codeath
	Descendants
	Inheritance
	Consumes
	Split
	Merge
	Minion
	Peeler
	Engages

	numRelationKinds = int(Engages) + 1
)

// Tier classifies a relation kind by the state it needs to be evaluated.
type Tier uint8

const (
	// TierPrimitive relations need only the current event and lifelines so far.
	TierPrimitive Tier = iota + 1
	// TierInstance relations need the frozen lifelines of two adjacent objects.
	TierInstance
	// TierWhole relations need an object's complete outgoing neighbourhood.
	TierWhole
)

func (t Tier) String() string {
	switch t {
	case TierPrimitive:
		return "primitive"
	case TierInstance:
		return "instance"
	case TierWhole:
		return "whole"
	}
	return fmt.Sprintf("Tier(%d)", uint8(t))
}

type relationInfo struct {
	name      string
	tier      Tier
	symmetric bool // evaluated once for a<b, emitted in both directions
}

var relationTable = [numRelationKinds]relationInfo{
	Interacts:   {name: "INTERACTS", tier: TierPrimitive},
	Colife:      {name: "COLIFE", tier: TierInstance},
	Cobirth:     {name: "COBIRTH", tier: TierInstance, symmetric: true},
	Codeath:     {name: "CODEATH", tier: TierInstance, symmetric: true},
	Descendants: {name: "DESCENDANTS", tier: TierPrimitive},
	Inheritance: {name: "INHERITANCE", tier: TierInstance},
	Consumes:    {name: "CONSUMES", tier: TierInstance},
	Split:       {name: "SPLIT", tier: TierWhole},
	Merge:       {name: "MERGE", tier: TierInstance},
	Minion:      {name: "MINION", tier: TierInstance},
	Peeler:      {name: "PEELER", tier: TierInstance, symmetric: true},
	Engages:     {name: "ENGAGES", tier: TierInstance, symmetric: true},
}

// AllKinds lists every relation kind in index order.
func AllKinds() []RelationKind {
	kinds := make([]RelationKind, numRelationKinds)
	for i := range kinds {
		kinds[i] = RelationKind(i)
	}
	return kinds
}

// Valid reports whether k is one of the twelve known kinds.
func (k RelationKind) Valid() bool {
	return int(k) < numRelationKinds
}

// String returns the upper-case relation name, e.g. "COBIRTH".
func (k RelationKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("RelationKind(%d)", uint8(k))
	}
	return relationTable[k].name
}

// Tier returns the execution tier of k, or 0 for an invalid kind.
func (k RelationKind) Tier() Tier {
	if !k.Valid() {
		return 0
	}
	return relationTable[k].tier
}

// Symmetric reports whether k is canonicalized to a<b and emitted in both directions.
func (k RelationKind) Symmetric() bool {
	return k.Valid() && relationTable[k].symmetric
}

// ParseRelationKind maps an upper- or lower-case relation name to its kind.
func ParseRelationKind(name string) (RelationKind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, info := range relationTable {
		if info.name == upper {
			return RelationKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown relation kind %q", name)
}

// Selection is the set of relation kinds a build computes.
// The zero value selects nothing.
type Selection uint16

// NewSelection returns a selection of the given kinds. Invalid kinds are ignored.
func NewSelection(kinds ...RelationKind) Selection {
	var s Selection
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// AllRelations selects every relation kind.
func AllRelations() Selection {
	return NewSelection(AllKinds()...)
}

// ParseSelection parses relation names. "ALL" selects every kind.
func ParseSelection(names []string) (Selection, error) {
	var s Selection
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "ALL") {
			s |= AllRelations()
			continue
		}
		k, err := ParseRelationKind(name)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}

// With returns s with k added.
func (s Selection) With(k RelationKind) Selection {
	if !k.Valid() {
		return s
	}
	return s | 1<<k
}

// Has reports whether k is selected.
func (s Selection) Has(k RelationKind) bool {
	return k.Valid() && s&(1<<k) != 0
}

// Kinds returns the selected kinds in index order.
func (s Selection) Kinds() []RelationKind {
	var kinds []RelationKind
	for _, k := range AllKinds() {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// InTier returns the selected kinds of tier t in index order.
func (s Selection) InTier(t Tier) []RelationKind {
	var kinds []RelationKind
	for _, k := range s.Kinds() {
		if k.Tier() == t {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Names returns the selected kind names in index order.
func (s Selection) Names() []string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

func (s Selection) String() string {
	return strings.Join(s.Names(), ",")
}
