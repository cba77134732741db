// Package snapshot persists constraint state as versioned records.
//
// Three record shapes exist. RecordV2 has output-only flags and lists.
// RecordV3 splits them into input and output sides on two channels.
// RecordV4 adds the outside-to-outside traffic cap. Older records are upgraded
// forward one version at a time; upgrades never modify their receiver, so
// decoding the same bytes twice yields the same RecordV4.
//
// Per-building arrays are sparse: an index past the end of an array holds
// that field's default (flags true, reserve 100, no list). Capture trims
// trailing defaults, so a fresh city encodes to a handful of bytes.
package snapshot
