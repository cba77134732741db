// Package classify decides which constraint families apply to a building.
//
// Classification is pure: every answer is derived from the host's building
// facts (service, sub-service, AI tag, structural flags) and two user
// settings. Nothing is cached or persisted.
//
// The host's nested type switches are expressed as tables:
//
//   - eligibility tables indexed by service, each entry a predicate over the
//     facts (district services, supply chain, custom fleets)
//   - topology predicates for dual-output buildings (post offices, tiered
//     police stations, recycling centers)
//   - an output-material table keyed by AI tag and a supply-link acceptance
//     table keyed by the destination's AI tag
//
// The predicates are built once at package init; evaluation is a table index
// plus a few comparisons, cheap enough for the host's per-tick matcher.
package classify
