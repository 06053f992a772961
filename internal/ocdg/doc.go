// Package ocdg builds the object-centric directed graph (OCDG) of an
// object-centric event log.
//
// Every event in the log names the objects it involves. Reading the log in
// order gives each object a lifeline: its type label plus the ordered events
// it took part in. The builder mines twelve relation kinds between ordered
// object pairs and records, for every (source, target, kind) triple, the set
// of events that justify it.
//
// ARCHITECTURE:
//
// Relation kinds are grouped into three tiers by the state they need:
//   - Primitive: the current event's objects and the lifelines so far
//     (INTERACTS, DESCENDANTS). Evaluated inline while ingesting.
//   - Instance: the frozen lifelines of two adjacent objects (COLIFE,
//     COBIRTH, CODEATH, INHERITANCE, CONSUMES, MERGE, MINION, PEELER,
//     ENGAGES).
//   - Whole: an object's complete outgoing neighbourhood (SPLIT).
//
// Build runs three strictly ordered phases:
//  1. Ingestion (sequential, log order): extend lifelines, create nodes and
//     adjacency edges, merge primitive evidence immediately.
//  2. Evaluation (parallel, one task per node): run SPLIT once and every
//     selected instance evaluator for each adjacent neighbour. Tasks only
//     read; they return proposals by value.
//  3. Reconciliation (sequential): fold every proposal into the index.
//
// INVARIANTS:
//   - A node exists for every object referenced by an event before any
//     relation is evaluated for it.
//   - Instance evaluation for (a,b) happens only if the edge a→b was
//     established during ingestion.
//   - Evidence merging is set union, so the final graph does not depend on
//     task scheduling.
//   - Phase 2 sees lifeline snapshots taken after ingestion completed.
//
// The only error kind is *IntegrityError, returned when the log references
// an object that was never declared. It aborts the build; there is no partial
// result.
package ocdg
