// Package harness runs scripted sessions against a CUE city and checks the
// resulting district and supply-chain policy.
//
// # Scenario Format
//
//	name: reserve_overflow
//	description: "What this scenario checks"
//	city: ../city/riverside        # CUE directory, relative to this file
//	settings:                      # optional classifier overrides
//	  select_outside_connections: false
//	steps:
//	  - op: add_supply_link
//	    args: { source: 2, destination: 3 }
//	    expect: { applied: true }
//	  - op: set_reserve
//	    args: { building: 2, amount: "40" }
//	  - op: add_district_park
//	    args: { building: 2, direction: output, ref: "district:3" }
//	assertions:
//	  - type: supply_destinations
//	    building: 2
//	    buildings: [3]
//	  - type: decision
//	    source: 2
//	    destination: 10
//	    material: Coal
//	    stock_percent: 50
//	    allowed: true
//	    rule: overflow
//
// Steps run one at a time through the engine queue, so a scenario sees the
// same ordering a live host would. Ops() lists the step vocabulary; `eds run`
// scripts use the same steps without assertions.
//
// # Assertion Types
//
//   - restriction: flags of one (direction, channel) of a building
//   - districts: the allow-list, compared as a set
//   - supply_destinations, supply_sources: linked buildings, as a set
//   - reserve: the internal supply reserve percentage
//   - global: outside connection intensity and outside-to-outside maximum
//   - decision: the matcher's verdict and rule for a candidate
//   - step_result: the recorded outcome of an earlier step
//
// # Deterministic Runs
//
// Each run gets a fresh city, an in-memory SQLite snapshot database and
// sequential command ids, so its summary can be compared against
// testdata/golden/<name>.golden with RunWithGolden.
package harness
