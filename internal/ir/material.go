package ir

import (
	"fmt"
	"strings"
)

// Material is the host's transfer reason: the kind of goods or service an
// offer concerns. The engine treats it as an opaque tag.
type Material uint8

const (
	MaterialNone Material = iota
	Garbage
	GarbageTransfer
	Crime
	CriminalMove
	CriminalMoveStation // prison van from a police station
	CriminalMovePrison  // prison van from a prison
	Sick
	Sick2
	Dead
	Fire
	Fire2
	ForestFire
	Collapsed
	Collapsed2
	FloodWater
	Mail
	SortedMail
	UnsortedMail
	IncomingMail
	OutgoingMail
	ParkMaintenance
	RoadMaintenance
	Snow
	EvacuateA
	EvacuateB
	EvacuateC
	EvacuateD
	EvacuateVipA
	EvacuateVipB
	EvacuateVipC
	EvacuateVipD
	ChildCare
	ElderCare
	Student1
	Student2
	Student3
	Taxi
	Coal
	Food
	Petrol
	Lumber
	Logs
	Paper
	PlanedTimber
	Grain
	Flours
	AnimalProducts
	Oil
	Petroleum
	Plastics
	Ore
	Glass
	Metals
	Fish
	Goods
	LuxuryProducts
	Shopping
	Worker

	materialCount
)

var materialNames = [materialCount]string{
	MaterialNone:        "None",
	Garbage:             "Garbage",
	GarbageTransfer:     "GarbageTransfer",
	Crime:               "Crime",
	CriminalMove:        "CriminalMove",
	CriminalMoveStation: "CriminalMoveStation",
	CriminalMovePrison:  "CriminalMovePrison",
	Sick:                "Sick",
	Sick2:               "Sick2",
	Dead:                "Dead",
	Fire:                "Fire",
	Fire2:               "Fire2",
	ForestFire:          "ForestFire",
	Collapsed:           "Collapsed",
	Collapsed2:          "Collapsed2",
	FloodWater:          "FloodWater",
	Mail:                "Mail",
	SortedMail:          "SortedMail",
	UnsortedMail:        "UnsortedMail",
	IncomingMail:        "IncomingMail",
	OutgoingMail:        "OutgoingMail",
	ParkMaintenance:     "ParkMaintenance",
	RoadMaintenance:     "RoadMaintenance",
	Snow:                "Snow",
	EvacuateA:           "EvacuateA",
	EvacuateB:           "EvacuateB",
	EvacuateC:           "EvacuateC",
	EvacuateD:           "EvacuateD",
	EvacuateVipA:        "EvacuateVipA",
	EvacuateVipB:        "EvacuateVipB",
	EvacuateVipC:        "EvacuateVipC",
	EvacuateVipD:        "EvacuateVipD",
	ChildCare:           "ChildCare",
	ElderCare:           "ElderCare",
	Student1:            "Student1",
	Student2:            "Student2",
	Student3:            "Student3",
	Taxi:                "Taxi",
	Coal:                "Coal",
	Food:                "Food",
	Petrol:              "Petrol",
	Lumber:              "Lumber",
	Logs:                "Logs",
	Paper:               "Paper",
	PlanedTimber:        "PlanedTimber",
	Grain:               "Grain",
	Flours:              "Flours",
	AnimalProducts:      "AnimalProducts",
	Oil:                 "Oil",
	Petroleum:           "Petroleum",
	Plastics:            "Plastics",
	Ore:                 "Ore",
	Glass:               "Glass",
	Metals:              "Metals",
	Fish:                "Fish",
	Goods:               "Goods",
	LuxuryProducts:      "LuxuryProducts",
	Shopping:            "Shopping",
	Worker:              "Worker",
}

// String returns the host name of the material.
func (m Material) String() string {
	if m < materialCount {
		return materialNames[m]
	}
	return fmt.Sprintf("Material(%d)", uint8(m))
}

// ParseMaterial looks a material up by name, case-insensitively.
func ParseMaterial(name string) (Material, error) {
	want := strings.TrimSpace(name)
	for i, n := range materialNames {
		if strings.EqualFold(n, want) {
			return Material(i), nil
		}
	}
	return MaterialNone, fmt.Errorf("unknown material %q", name)
}

type materialSet [materialCount]bool

func newMaterialSet(ms ...Material) materialSet {
	var s materialSet
	for _, m := range ms {
		s[m] = true
	}
	return s
}

func (s *materialSet) has(m Material) bool {
	return m < materialCount && s[m]
}

// City services that district restrictions apply to.
var districtOffers = newMaterialSet(
	Garbage, Crime, CriminalMove, CriminalMoveStation, CriminalMovePrison,
	Sick, Dead, Fire, Mail, GarbageTransfer,
	ParkMaintenance, RoadMaintenance, Snow,
	ForestFire, Collapsed, Collapsed2, Fire2, Sick2, FloodWater,
	EvacuateA, EvacuateB, EvacuateC, EvacuateD,
	EvacuateVipA, EvacuateVipB, EvacuateVipC, EvacuateVipD,
	ChildCare, ElderCare, Student1, Student2, Taxi,
)

// Goods that supply-chain restrictions apply to.
var supplyChainOffers = newMaterialSet(
	Coal, Food, Petrol, Lumber,
	Logs, Paper, PlanedTimber,
	Grain, Flours, AnimalProducts,
	Oil, Petroleum, Plastics,
	Ore, Glass, Metals,
	Fish, Goods, LuxuryProducts,
	CriminalMove, CriminalMoveStation, CriminalMovePrison,
	SortedMail, UnsortedMail, IncomingMail, OutgoingMail,
)

// IsDistrictOffer reports whether offers of m are filtered by district and
// park allow-lists.
func IsDistrictOffer(m Material) bool {
	return districtOffers.has(m)
}

// IsSupplyChainOffer reports whether offers of m are filtered by supply-chain
// edges. Prison transfers are both district and supply-chain offers.
func IsSupplyChainOffer(m Material) bool {
	return supplyChainOffers.has(m)
}
