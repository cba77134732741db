package ir

// BuildingFacts is what the host knows about one building: its prefab
// classification and the structural flags the classifier consults.
//
// Facts are owned by the host. The constraint engine reads them through the
// classify.Facts interface and never stores them.
type BuildingFacts struct {
	// Name is the display name ("Coal Power Plant").
	Name string

	// PrefabName identifies the asset. A few classifier rules match on it
	// (ChirpX launch site, recycling centers).
	PrefabName string

	Service    Service
	SubService SubService
	AI         AI

	// Level is the prefab class level (1-5).
	Level int

	// Created is the host's "building exists" flag.
	Created bool

	// Downgrading is set while the building is being abandoned or replaced.
	Downgrading bool

	// Location is the district/park resolved from the building position.
	Location Location

	// OutputResource is the produced material of extractors, fishing
	// buildings and processing facilities.
	OutputResource Material

	// InputResources are the accepted materials of processing facilities.
	// Unused slots are MaterialNone.
	InputResources [4]Material

	// WarehouseMaterial is the stored material of a warehouse.
	WarehouseMaterial Material

	// PumpingVehicles counts pumping trucks of a water facility.
	PumpingVehicles int

	// OutsideNetService is the network service of an outside connection
	// (Road for highway connections).
	OutsideNetService Service
}

// AcceptsInput reports whether m is one of the building's input resources.
func (f BuildingFacts) AcceptsInput(m Material) bool {
	if m == MaterialNone {
		return false
	}
	for _, in := range f.InputResources {
		if in == m {
			return true
		}
	}
	return false
}
