// Package export turns a finished graph build into a portable document and
// writes it as canonical JSON or GraphML.
//
// Canonical JSON (RFC 8785 style: sorted keys, NFC strings, no floats, no
// insignificant whitespace) is the byte form used for digests and golden
// snapshots. Two builds of the same log and selection produce the same bytes
// no matter how the parallel phase was scheduled.
package export
