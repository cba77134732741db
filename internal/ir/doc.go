// Package ir provides the shared value types of the district services
// constraint engine.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// vocabulary (building ids, channels, district/park references, materials,
// host building facts) the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Building ids are dense integers in [0, MaxBuildingCount); id 0 is never a
//     real building.
//   - A DistrictPark names exactly one district or one park, never both.
//   - Materials, services and AI tags are opaque host enumerations; their
//     names exist for logs and fixtures only.
//   - NO float types in hashed data - canonical JSON rejects them.
package ir
