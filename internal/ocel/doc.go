// Package ocel holds the object-centric event log consumed by the graph
// builder, and loads it from YAML, JSON or CUE files.
//
// Every file format is unified against the embedded CUE schema (#Log) and
// validated before decoding, so all formats reject the same mistakes:
//
//	objects:
//	  - {id: 1, type: order}
//	  - {id: 2, type: item}
//	events:
//	  - {id: 10, activity: place, objects: [1, 2]}
//
// Events keep file order. That order is the log's chronology: each event is
// stamped with a 1-based logical Seq, and lifelines are built in Seq order.
package ocel
