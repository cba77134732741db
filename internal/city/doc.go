// Package city is an in-memory host: the building table, the district and
// park registry, and the names the constraint engine displays.
//
// A City implements classify.Facts and constraint.Registry. Fixtures are
// written in CUE and compiled with Compile or LoadDir:
//
//	city: {
//		name: "Riverside"
//		settings: industries_control: true
//		districts: [{id: 1, name: "Downtown"}]
//		parks: [{id: 1, name: "Central Park"}]
//		buildings: [
//			{id: 12, name: "Coal Power Plant", service: "Electricity", ai: "PowerPlant", district: 1},
//		]
//	}
package city
