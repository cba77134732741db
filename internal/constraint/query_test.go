package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/eds/internal/ir"
)

func TestOutputDistrictsServedText(t *testing.T) {
	s, _ := newTestStore(t)
	s.CreateBuilding(fireInDowntown)
	s.CreateBuilding(fireUnplaced)
	s.CreateBuilding(postOffice)

	assert.Equal(t, "", s.OutputDistrictsServedText(ir.ChannelA, 0))
	assert.Equal(t, "<<Districts served>>\nAll local areas", s.OutputDistrictsServedText(ir.ChannelA, fireUnplaced))
	assert.Equal(t, "<<Districts served>>\nDowntown", s.OutputDistrictsServedText(ir.ChannelA, fireInDowntown))
	assert.Equal(t, "<<Districts served>>\nCentral Park\nDowntown", s.OutputDistrictsServedText(ir.ChannelB, postOffice))

	s.ReleaseDistrictPark(downtown)
	assert.Equal(t, "<<No districts served!>>", s.OutputDistrictsServedText(ir.ChannelA, fireInDowntown))
}

func TestSupplyDestinationsText(t *testing.T) {
	s, _ := newTestStore(t)
	s.CreateBuilding(coalStorage)

	assert.Equal(t,
		"<<Supply Chain Shipments To>>\nAll local areas\nAll outside connections",
		s.SupplyDestinationsText(ir.ChannelA, coalStorage))

	s.SetAllLocalAreas(ir.Output, ir.ChannelA, coalStorage, false)
	s.AddSupplyChainConnection(coalStorage, coalPlant)
	s.AddDistrictPark(ir.Output, ir.ChannelA, coalStorage, uptown)
	assert.Equal(t,
		"<<Supply Chain Shipments To>>\nAll outside connections\nCoal Power Plant (3)\nUptown (DISTRICT)",
		s.SupplyDestinationsText(ir.ChannelA, coalStorage))

	s.SetOutsideConnections(ir.Output, ir.ChannelA, coalStorage, false)
	s.RemoveAllSupplyChainConnectionsFromSource(coalStorage)
	s.RemoveDistrictPark(ir.Output, ir.ChannelA, coalStorage, uptown)
	assert.Equal(t, "<<WARNING: No supply chain shipments output!>>", s.SupplyDestinationsText(ir.ChannelA, coalStorage))
}

func TestSupplySourcesText(t *testing.T) {
	s, _ := newTestStore(t)
	s.CreateBuilding(coalPlant)
	s.AddSupplyChainConnection(coalStorage, coalPlant)

	assert.Equal(t,
		"<<Supply Chain Shipments From>>\nAll local areas\nAll outside connections",
		s.SupplySourcesText(ir.ChannelA, coalPlant))

	s.SetAllLocalAreas(ir.Input, ir.ChannelA, coalPlant, false)
	s.SetOutsideConnections(ir.Input, ir.ChannelA, coalPlant, false)
	assert.Equal(t,
		"<<Supply Chain Shipments From>>\nCoal Storage (2)",
		s.SupplySourcesText(ir.ChannelA, coalPlant))

	s.ReleaseBuilding(coalStorage)
	assert.Equal(t, "<<WARNING: No supply chain shipments accepted!>>", s.SupplySourcesText(ir.ChannelA, coalPlant))
}

func TestDistrictParkText(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Equal(t, "", s.DistrictParkText(0))
	assert.Equal(t, "Home district: Downtown", s.DistrictParkText(fireInDowntown))
	assert.Equal(t, "Home district: (Not in a district)", s.DistrictParkText(fireUnplaced))
}

func TestSupplyProblems(t *testing.T) {
	s, _ := newTestStore(t)
	s.CreateBuilding(fishFarm)
	s.CreateBuilding(fishFactory)

	// Outside connections are assumed to deliver anything.
	assert.Empty(t, s.SupplyProblems(fishFactory))

	s.SetOutsideConnections(ir.Input, ir.ChannelA, fishFactory, false)
	assert.Equal(t, []ir.Material{ir.Fish}, s.SupplyProblems(fishFactory))
	assert.Equal(t, "Fish", s.SupplyProblemsText(fishFactory))

	s.AddDistrictPark(ir.Output, ir.ChannelA, fishFarm, uptown)
	assert.Empty(t, s.SupplyProblems(fishFactory))

	s.RemoveDistrictPark(ir.Output, ir.ChannelA, fishFarm, uptown)
	s.AddSupplyChainConnection(fishFarm, fishFactory)
	assert.Empty(t, s.SupplyProblems(fishFactory))
}

func TestSupplyProblems_InputDistrictFilter(t *testing.T) {
	s, _ := newTestStore(t)
	s.CreateBuilding(fishFarm)
	s.CreateBuilding(fishFactory)
	s.SetOutsideConnections(ir.Input, ir.ChannelA, fishFactory, false)
	s.SetAllLocalAreas(ir.Output, ir.ChannelA, fishFarm, true)

	assert.Empty(t, s.SupplyProblems(fishFactory))

	// Accepting only from Uptown excludes the farm in Harbor.
	s.SetAllLocalAreas(ir.Input, ir.ChannelA, fishFactory, false)
	s.AddDistrictPark(ir.Input, ir.ChannelA, fishFactory, uptown)
	assert.Equal(t, []ir.Material{ir.Fish}, s.SupplyProblems(fishFactory))
}

func TestSupplyProblems_NotProcessing(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Nil(t, s.SupplyProblems(coalPlant))
	assert.Equal(t, "", s.SupplyProblemsText(coalPlant))
}

func TestSupplyProblems_OnlySupplyChainBuildings(t *testing.T) {
	s, _ := newTestStore(t)
	s.CreateBuilding(oilPump)
	s.CreateBuilding(oilRefinery)
	// An industry refinery has district services but no supply chain, so
	// even a closed input is not reported.
	s.slots[oilRefinery].restrictions[ir.Input][ir.ChannelA].OutsideConnections = false

	assert.Nil(t, s.SupplyProblems(oilRefinery))
	assert.Equal(t, "", s.SupplyProblemsText(oilRefinery))
}
