package classify

import (
	"strings"

	"github.com/roach88/eds/internal/ir"
)

// Prefab names the host exposes no dedicated AI tag for.
const (
	ChirpXPrefab          = "ChirpX Launch Control Center"
	RecyclingCenterMarker = "Recycling Center"
)

type rule func(f *ir.BuildingFacts, s Settings) bool

type serviceTable [ir.ServiceCount]rule

func evalTable(t *serviceTable, f *ir.BuildingFacts, s Settings) bool {
	if int(f.Service) >= len(t) {
		return false
	}
	r := t[f.Service]
	return r != nil && r(f, s)
}

func aiIs(ais ...ir.AI) rule {
	return func(f *ir.BuildingFacts, _ Settings) bool {
		for _, a := range ais {
			if f.AI == a {
				return true
			}
		}
		return false
	}
}

func aiNot(ais ...ir.AI) rule {
	is := aiIs(ais...)
	return func(f *ir.BuildingFacts, s Settings) bool {
		return !is(f, s)
	}
}

func subIs(subs ...ir.SubService) rule {
	return func(f *ir.BuildingFacts, _ Settings) bool {
		for _, sub := range subs {
			if f.SubService == sub {
				return true
			}
		}
		return false
	}
}

func subNot(subs ...ir.SubService) rule {
	is := subIs(subs...)
	return func(f *ir.BuildingFacts, s Settings) bool {
		return !is(f, s)
	}
}

func anyOf(rules ...rule) rule {
	return func(f *ir.BuildingFacts, s Settings) bool {
		for _, r := range rules {
			if r(f, s) {
				return true
			}
		}
		return false
	}
}

// whenSelectOutside gates r on the SelectOutsideConnections setting.
func whenSelectOutside(r rule) rule {
	return func(f *ir.BuildingFacts, s Settings) bool {
		return s.SelectOutsideConnections && r(f, s)
	}
}

func isChirpX(f *ir.BuildingFacts, _ Settings) bool {
	return f.PrefabName == ChirpXPrefab
}

func isRecyclingCenter(f *ir.BuildingFacts, _ Settings) bool {
	return f.AI == ir.AILandfillSite && strings.Contains(f.PrefabName, RecyclingCenterMarker)
}

func isPumpingWaterFacility(f *ir.BuildingFacts, _ Settings) bool {
	return f.AI == ir.AIWaterFacility && f.PumpingVehicles > 0
}

// isActiveNewPoliceStation matches the prison-helicopter police station
// while it is not being downgraded.
func isActiveNewPoliceStation(f *ir.BuildingFacts, _ Settings) bool {
	return f.AI == ir.AINewPoliceStation && !f.Downgrading
}

var cityServiceRule = aiNot(ir.AIDummy, ir.AILibrary, ir.AISauna)

var districtServiceRules = serviceTable{
	ir.Beautification:   aiIs(ir.AIMaintenanceDepot),
	ir.Disaster:         cityServiceRule,
	ir.Education:        cityServiceRule,
	ir.FireDepartment:   cityServiceRule,
	ir.GarbageService:   cityServiceRule,
	ir.HealthCare:       cityServiceRule,
	ir.PoliceDepartment: cityServiceRule,
	ir.Electricity:      aiIs(ir.AIPowerPlant),
	ir.Fishing:          aiIs(ir.AIFishFarm, ir.AIFishingHarbor, ir.AIProcessingFacility, ir.AIMarket),
	ir.Monument:         isChirpX,
	ir.PlayerEducation: subNot(
		ir.PlayerEducationLiberalArts,
		ir.PlayerEducationTradeSchool,
		ir.PlayerEducationUniversity,
	),
	ir.PlayerIndustry: aiNot(ir.AIAuxiliary, ir.AIDummy, ir.AIMainIndustry),
	ir.PublicTransport: anyOf(
		whenSelectOutside(aiIs(ir.AIOutsideConnection)),
		subIs(ir.PublicTransportPost, ir.PublicTransportTaxi),
	),
	ir.Road:  aiIs(ir.AIMaintenanceDepot, ir.AIOutsideConnection, ir.AISnowDump),
	ir.Water: anyOf(isPumpingWaterFacility, aiIs(ir.AIHeatingPlant)),
}

// PlayerIndustry processing facilities are not supply-chain buildings;
// fishing processing facilities are.
var supplyChainRules = serviceTable{
	ir.Electricity:      aiIs(ir.AIPowerPlant),
	ir.Fishing:          aiIs(ir.AIFishFarm, ir.AIFishingHarbor, ir.AIProcessingFacility, ir.AIMarket),
	ir.Monument:         isChirpX,
	ir.GarbageService:   isRecyclingCenter,
	ir.PoliceDepartment: isActiveNewPoliceStation,
	ir.PlayerIndustry:   aiNot(ir.AIAuxiliary, ir.AIDummy, ir.AIMainIndustry, ir.AIProcessingFacility),
	ir.PublicTransport: anyOf(
		whenSelectOutside(aiIs(ir.AIOutsideConnection)),
		subIs(ir.PublicTransportPost),
	),
	ir.Road:  aiIs(ir.AIOutsideConnection),
	ir.Water: aiIs(ir.AIHeatingPlant),
}

var fleetServiceRule = aiNot(ir.AIChildcare, ir.AIDummy, ir.AIEldercare, ir.AISauna)

var customFleetRules = serviceTable{
	ir.Beautification:   aiIs(ir.AIMaintenanceDepot),
	ir.Disaster:         fleetServiceRule,
	ir.FireDepartment:   fleetServiceRule,
	ir.GarbageService:   fleetServiceRule,
	ir.HealthCare:       fleetServiceRule,
	ir.PoliceDepartment: fleetServiceRule,
	ir.PlayerIndustry:   aiNot(ir.AIAuxiliary, ir.AIDummy, ir.AIMainIndustry),
	ir.PublicTransport: anyOf(
		whenSelectOutside(aiIs(ir.AIOutsideConnection)),
		aiIs(ir.AICargoStation),
		subIs(ir.PublicTransportCableCar, ir.PublicTransportPlane, ir.PublicTransportPost, ir.PublicTransportTaxi),
	),
	ir.Road:  aiIs(ir.AIMaintenanceDepot, ir.AIOutsideConnection, ir.AISnowDump),
	ir.Water: isPumpingWaterFacility,
}

func isTwoInput(*ir.BuildingFacts) bool {
	return false
}

func isTwoOutput(f *ir.BuildingFacts) bool {
	switch {
	case f.Service == ir.PublicTransport && f.SubService == ir.PublicTransportPost && f.AI == ir.AIPostOffice:
		return true
	case f.Service == ir.PoliceDepartment && !f.Downgrading &&
		((f.AI == ir.AINewPoliceStation && f.Level < 4) || f.AI == ir.AIHelicopterDepot):
		return true
	default:
		return isRecyclingCenter(f, Settings{})
	}
}
