package constraint

import (
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/ir"
)

// fakeHost serves facts, names and districts from maps.
type fakeHost struct {
	facts         map[ir.BuildingID]ir.BuildingFacts
	districtParks map[ir.DistrictPark]string
}

func (h *fakeHost) Facts(id ir.BuildingID) (ir.BuildingFacts, bool) {
	f, ok := h.facts[id]
	return f, ok
}

func (h *fakeHost) DistrictParkExists(ref ir.DistrictPark) bool {
	_, ok := h.districtParks[ref]
	return ok
}

func (h *fakeHost) DistrictParkName(ref ir.DistrictPark) string {
	return h.districtParks[ref]
}

func (h *fakeHost) BuildingName(id ir.BuildingID) string {
	return h.facts[id].Name
}

func (h *fakeHost) Location(id ir.BuildingID) ir.Location {
	return h.facts[id].Location
}

const (
	fireInDowntown ir.BuildingID = iota + 1
	coalStorage
	coalPlant
	postOffice
	fireUnplaced
	oilRefinery
	oilPump
	fishFactory
	fishFarm
	library
)

var (
	downtown    = ir.FromDistrict(1)
	harbor      = ir.FromDistrict(2)
	uptown      = ir.FromDistrict(3)
	centralPark = ir.FromPark(1)
)

func newHost() *fakeHost {
	return &fakeHost{
		facts: map[ir.BuildingID]ir.BuildingFacts{
			fireInDowntown: {
				Name: "Fire House", Service: ir.FireDepartment, AI: ir.AIFireStation,
				Created: true, Location: ir.Location{District: 1},
			},
			coalStorage: {
				Name: "Coal Storage", Service: ir.PlayerIndustry, SubService: ir.PlayerIndustryOre,
				AI: ir.AIWarehouse, WarehouseMaterial: ir.Coal, Created: true,
			},
			coalPlant: {
				Name: "Coal Power Plant", Service: ir.Electricity, AI: ir.AIPowerPlant,
				Created: true, Location: ir.Location{District: 2},
			},
			postOffice: {
				Name: "Post Office", Service: ir.PublicTransport, SubService: ir.PublicTransportPost,
				AI: ir.AIPostOffice, Created: true, Location: ir.Location{District: 1, Park: 1},
			},
			fireUnplaced: {
				Name: "Fire Station", Service: ir.FireDepartment, AI: ir.AIFireStation, Created: true,
			},
			oilRefinery: {
				Name: "Oil Refinery", Service: ir.PlayerIndustry, SubService: ir.PlayerIndustryOil,
				AI: ir.AIProcessingFacility, OutputResource: ir.Petroleum,
				InputResources: [4]ir.Material{ir.Oil}, Created: true,
			},
			oilPump: {
				Name: "Oil Pump", Service: ir.PlayerIndustry, SubService: ir.PlayerIndustryOil,
				AI: ir.AIExtractingFacility, OutputResource: ir.Oil, Created: true,
				Location: ir.Location{District: 2},
			},
			fishFactory: {
				Name: "Fish Factory", Service: ir.Fishing, AI: ir.AIProcessingFacility,
				OutputResource: ir.Goods, InputResources: [4]ir.Material{ir.Fish}, Created: true,
				Location: ir.Location{District: 3},
			},
			fishFarm: {
				Name: "Fish Farm", Service: ir.Fishing, AI: ir.AIFishFarm, OutputResource: ir.Fish,
				Created: true, Location: ir.Location{District: 2},
			},
			library: {
				Name: "Library", Service: ir.Education, AI: ir.AILibrary, Created: true,
			},
		},
		districtParks: map[ir.DistrictPark]string{
			downtown:    "Downtown",
			harbor:      "Harbor",
			uptown:      "Uptown",
			centralPark: "Central Park",
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, *fakeHost) {
	t.Helper()
	host := newHost()
	c := classify.New(host, classify.DefaultSettings())
	return New(c, host, WithSize(64), WithLogger(discardLogger())), host
}
