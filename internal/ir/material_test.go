package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterial_OfferTables(t *testing.T) {
	tests := []struct {
		material Material
		district bool
		supply   bool
	}{
		{Garbage, true, false},
		{Crime, true, false},
		{Mail, true, false},
		{Taxi, true, false},
		{CriminalMove, true, true},
		{CriminalMoveStation, true, true},
		{Coal, false, true},
		{SortedMail, false, true},
		{Goods, false, true},
		{Student3, false, false},
		{Shopping, false, false},
		{MaterialNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.material.String(), func(t *testing.T) {
			assert.Equal(t, tt.district, IsDistrictOffer(tt.material))
			assert.Equal(t, tt.supply, IsSupplyChainOffer(tt.material))
		})
	}
}

func TestMaterial_OutOfRange(t *testing.T) {
	m := Material(250)
	assert.False(t, IsDistrictOffer(m))
	assert.False(t, IsSupplyChainOffer(m))
	assert.Equal(t, "Material(250)", m.String())
}

func TestParseMaterial(t *testing.T) {
	m, err := ParseMaterial("coal")
	require.NoError(t, err)
	assert.Equal(t, Coal, m)

	m, err = ParseMaterial(" LuxuryProducts ")
	require.NoError(t, err)
	assert.Equal(t, LuxuryProducts, m)

	_, err = ParseMaterial("unobtainium")
	assert.Error(t, err)
}

func TestParseService_SubService_AI(t *testing.T) {
	s, err := ParseService("garbage")
	require.NoError(t, err)
	assert.Equal(t, GarbageService, s)

	ss, err := ParseSubService("PublicTransportPost")
	require.NoError(t, err)
	assert.Equal(t, PublicTransportPost, ss)

	ai, err := ParseAI("PowerPlantAI")
	require.NoError(t, err)
	assert.Equal(t, AIPowerPlant, ai)

	ai, err = ParseAI("warehouse")
	require.NoError(t, err)
	assert.Equal(t, AIWarehouse, ai)

	_, err = ParseAI("SpaceElevatorAI")
	assert.Error(t, err)
}

func TestBuildingFacts_AcceptsInput(t *testing.T) {
	f := BuildingFacts{InputResources: [4]Material{Logs, MaterialNone, MaterialNone, MaterialNone}}
	assert.True(t, f.AcceptsInput(Logs))
	assert.False(t, f.AcceptsInput(Ore))
	assert.False(t, f.AcceptsInput(MaterialNone), "empty input slots never accept")
}
