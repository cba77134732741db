package ir

import (
	"fmt"
	"strings"
)

// Service is the host's top-level building category.
type Service uint8

const (
	ServiceNone Service = iota
	Residential
	Commercial
	Industrial
	Office
	Beautification
	Disaster
	Education
	Electricity
	FireDepartment
	Fishing
	GarbageService
	HealthCare
	Monument
	PlayerEducation
	PlayerIndustry
	PoliceDepartment
	PublicTransport
	Road
	Water

	serviceCount
)

var serviceNames = [serviceCount]string{
	ServiceNone:      "None",
	Residential:      "Residential",
	Commercial:       "Commercial",
	Industrial:       "Industrial",
	Office:           "Office",
	Beautification:   "Beautification",
	Disaster:         "Disaster",
	Education:        "Education",
	Electricity:      "Electricity",
	FireDepartment:   "FireDepartment",
	Fishing:          "Fishing",
	GarbageService:   "Garbage",
	HealthCare:       "HealthCare",
	Monument:         "Monument",
	PlayerEducation:  "PlayerEducation",
	PlayerIndustry:   "PlayerIndustry",
	PoliceDepartment: "PoliceDepartment",
	PublicTransport:  "PublicTransport",
	Road:             "Road",
	Water:            "Water",
}

func (s Service) String() string {
	if s < serviceCount {
		return serviceNames[s]
	}
	return fmt.Sprintf("Service(%d)", uint8(s))
}

// ServiceCount is the number of known services; tables indexed by Service use
// it as their length.
const ServiceCount = int(serviceCount)

// ParseService looks a service up by name, case-insensitively.
func ParseService(name string) (Service, error) {
	i, ok := lookupName(serviceNames[:], name)
	if !ok {
		return ServiceNone, fmt.Errorf("unknown service %q", name)
	}
	return Service(i), nil
}

// SubService refines a Service.
type SubService uint8

const (
	SubServiceNone SubService = iota
	PlayerEducationLiberalArts
	PlayerEducationTradeSchool
	PlayerEducationUniversity
	PublicTransportPost
	PublicTransportTaxi
	PublicTransportCableCar
	PublicTransportPlane
	PublicTransportTrain
	PublicTransportShip
	PublicTransportBus
	PlayerIndustryFarming
	PlayerIndustryForestry
	PlayerIndustryOil
	PlayerIndustryOre
	IndustrialGeneric

	subServiceCount
)

var subServiceNames = [subServiceCount]string{
	SubServiceNone:             "None",
	PlayerEducationLiberalArts: "PlayerEducationLiberalArts",
	PlayerEducationTradeSchool: "PlayerEducationTradeSchool",
	PlayerEducationUniversity:  "PlayerEducationUniversity",
	PublicTransportPost:        "PublicTransportPost",
	PublicTransportTaxi:        "PublicTransportTaxi",
	PublicTransportCableCar:    "PublicTransportCableCar",
	PublicTransportPlane:       "PublicTransportPlane",
	PublicTransportTrain:       "PublicTransportTrain",
	PublicTransportShip:        "PublicTransportShip",
	PublicTransportBus:         "PublicTransportBus",
	PlayerIndustryFarming:      "PlayerIndustryFarming",
	PlayerIndustryForestry:     "PlayerIndustryForestry",
	PlayerIndustryOil:          "PlayerIndustryOil",
	PlayerIndustryOre:          "PlayerIndustryOre",
	IndustrialGeneric:          "IndustrialGeneric",
}

func (s SubService) String() string {
	if s < subServiceCount {
		return subServiceNames[s]
	}
	return fmt.Sprintf("SubService(%d)", uint8(s))
}

// ParseSubService looks a sub-service up by name, case-insensitively.
func ParseSubService(name string) (SubService, error) {
	i, ok := lookupName(subServiceNames[:], name)
	if !ok {
		return SubServiceNone, fmt.Errorf("unknown sub-service %q", name)
	}
	return SubService(i), nil
}

// AI is the behaviour tag of a building prefab: the host's runtime type of
// the building AI, flattened into an enumeration.
type AI uint8

const (
	AINone AI = iota
	AIPrivate
	AIDummy
	AIAuxiliary
	AIMainIndustry
	AILibrary
	AISauna
	AIChildcare
	AIEldercare
	AIMaintenanceDepot
	AISnowDump
	AIOutsideConnection
	AIPowerPlant
	AIHeatingPlant
	AIWaterFacility
	AIFishFarm
	AIFishingHarbor
	AIProcessingFacility
	AIExtractingFacility
	AIMarket
	AIWarehouse
	AILandfillSite
	AIPoliceStation
	AINewPoliceStation
	AIHelicopterDepot
	AIPostOffice
	AICargoStation
	AIHospital
	AICemetery
	AIFireStation
	AISchool
	AIDisasterResponse
	AIShelter
	AIDepot
	AIMonument

	aiCount
)

var aiNames = [aiCount]string{
	AINone:               "None",
	AIPrivate:            "Private",
	AIDummy:              "Dummy",
	AIAuxiliary:          "Auxiliary",
	AIMainIndustry:       "MainIndustry",
	AILibrary:            "Library",
	AISauna:              "Sauna",
	AIChildcare:          "Childcare",
	AIEldercare:          "Eldercare",
	AIMaintenanceDepot:   "MaintenanceDepot",
	AISnowDump:           "SnowDump",
	AIOutsideConnection:  "OutsideConnection",
	AIPowerPlant:         "PowerPlant",
	AIHeatingPlant:       "HeatingPlant",
	AIWaterFacility:      "WaterFacility",
	AIFishFarm:           "FishFarm",
	AIFishingHarbor:      "FishingHarbor",
	AIProcessingFacility: "ProcessingFacility",
	AIExtractingFacility: "ExtractingFacility",
	AIMarket:             "Market",
	AIWarehouse:          "Warehouse",
	AILandfillSite:       "LandfillSite",
	AIPoliceStation:      "PoliceStation",
	AINewPoliceStation:   "NewPoliceStation",
	AIHelicopterDepot:    "HelicopterDepot",
	AIPostOffice:         "PostOffice",
	AICargoStation:       "CargoStation",
	AIHospital:           "Hospital",
	AICemetery:           "Cemetery",
	AIFireStation:        "FireStation",
	AISchool:             "School",
	AIDisasterResponse:   "DisasterResponse",
	AIShelter:            "Shelter",
	AIDepot:              "Depot",
	AIMonument:           "Monument",
}

func (a AI) String() string {
	if a < aiCount {
		return aiNames[a]
	}
	return fmt.Sprintf("AI(%d)", uint8(a))
}

// AICount is the number of known behaviour tags.
const AICount = int(aiCount)

// ParseAI looks a behaviour tag up by name, case-insensitively. The host's
// "AI" suffix is accepted and ignored ("PowerPlantAI" == "PowerPlant").
func ParseAI(name string) (AI, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), "AI")
	i, ok := lookupName(aiNames[:], trimmed)
	if !ok {
		return AINone, fmt.Errorf("unknown building AI %q", name)
	}
	return AI(i), nil
}

func lookupName(names []string, name string) (int, bool) {
	want := strings.TrimSpace(name)
	for i, n := range names {
		if strings.EqualFold(n, want) {
			return i, true
		}
	}
	return 0, false
}
