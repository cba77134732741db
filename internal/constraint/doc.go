// Package constraint holds the per-building restriction state of the city.
//
// A Store is an arena of slots indexed by building id. Every id owns a slot
// whether or not a building currently exists there; unused slots hold the
// open defaults (all local areas, all outside connections, no lists, full
// supply reserve).
//
// Each slot carries one Restriction per (direction, channel) pair, the
// internal supply reserve, and the ordered list of supply-chain destinations.
// Mutators are gated by the classifier: a write against a building that is not
// eligible for that restriction family is dropped and logged, never returned as
// an error. Numeric writes are clamped.
//
// The Store is not safe for concurrent use. Writers are serialized through the
// engine's command queue; readers either run on that queue or work on a
// snapshot.
package constraint
