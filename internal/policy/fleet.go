package policy

import (
	"log/slog"
	"slices"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/ir"
)

// FleetRegistry records which vehicle prefabs a building dispatches. A
// building either uses the host's default vehicles or an explicit prefab
// list. Only custom-fleet buildings may hold a list.
//
// FleetRegistry is not safe for concurrent use; drive it from the engine.
type FleetRegistry struct {
	classifier *classify.Classifier
	logger     *slog.Logger
	custom     map[ir.BuildingID]bool
	prefabs    map[ir.BuildingID][]int
}

// NewFleetRegistry creates an empty registry. Every building starts on the
// default vehicles.
func NewFleetRegistry(classifier *classify.Classifier, logger *slog.Logger) *FleetRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &FleetRegistry{
		classifier: classifier,
		logger:     logger,
		custom:     make(map[ir.BuildingID]bool),
		prefabs:    make(map[ir.BuildingID][]int),
	}
}

// UseDefault reports whether id dispatches the host's default vehicles.
func (r *FleetRegistry) UseDefault(id ir.BuildingID) bool {
	return !r.custom[id]
}

// SetUseDefault switches id between default and custom vehicles. The prefab
// list is kept either way.
func (r *FleetRegistry) SetUseDefault(id ir.BuildingID, useDefault bool) bool {
	if !useDefault && !r.classifier.IsCustomFleet(id) {
		r.logger.Warn("ignoring custom fleet on ineligible building", "building_id", id)
		return false
	}
	if useDefault {
		delete(r.custom, id)
	} else {
		r.custom[id] = true
	}
	return true
}

// Prefabs returns a copy of id's prefab list in insertion order.
func (r *FleetRegistry) Prefabs(id ir.BuildingID) []int {
	return slices.Clone(r.prefabs[id])
}

// AddPrefab appends prefab to id's list. Adding a prefab twice keeps one
// entry.
func (r *FleetRegistry) AddPrefab(id ir.BuildingID, prefab int) bool {
	if !r.classifier.IsCustomFleet(id) {
		r.logger.Warn("ignoring vehicle prefab on ineligible building",
			"building_id", id, "prefab", prefab)
		return false
	}
	if prefab < 0 {
		return false
	}
	if !slices.Contains(r.prefabs[id], prefab) {
		r.prefabs[id] = append(r.prefabs[id], prefab)
	}
	return true
}

// RemovePrefab drops prefab from id's list. Reports whether it was there.
func (r *FleetRegistry) RemovePrefab(id ir.BuildingID, prefab int) bool {
	list := r.prefabs[id]
	i := slices.Index(list, prefab)
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(r.prefabs, id)
	} else {
		r.prefabs[id] = list
	}
	return true
}

// Release puts id back on the default vehicles with no prefabs.
func (r *FleetRegistry) Release(id ir.BuildingID) {
	delete(r.custom, id)
	delete(r.prefabs, id)
}
