package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
	"github.com/roach88/eds/internal/testutil"
)

func TestCaptureFreshStore(t *testing.T) {
	s := testutil.NewStore(t, testutil.NewCity(t))
	rec := Capture(s)

	// Heating Plant (11) is the last placed district-service building.
	require.Len(t, rec.OutputBuildingToAllLocalAreas, 12)
	assert.True(t, rec.OutputBuildingToAllLocalAreas[0])
	assert.False(t, rec.OutputBuildingToAllLocalAreas[testutil.FireHouse])
	assert.True(t, rec.OutputBuildingToAllLocalAreas[testutil.FireStation])
	assert.True(t, rec.OutputBuildingToAllLocalAreas[testutil.Highway])
	assert.True(t, rec.OutputBuildingToAllLocalAreas[testutil.Library])

	assert.Equal(t, []int{testutil.Downtown.SerializedInt()},
		rec.OutputBuildingToDistrictServiced[testutil.FireHouse])
	assert.Equal(t, []int{testutil.Downtown.SerializedInt(), testutil.CentralPark.SerializedInt()},
		rec.OutputBuildingToDistrictServiced2[testutil.PostOffice])

	assert.Nil(t, rec.InputBuildingToAllLocalAreas)
	assert.Nil(t, rec.BuildingToInternalSupplyBuffer)
	assert.Nil(t, rec.BuildingToBuildingServiced)
	assert.Equal(t, constraint.DefaultOutsideConnectionIntensity, rec.GlobalOutsideConnectionIntensity)
	assert.Equal(t, constraint.DefaultOutsideToOutsideMaxPercent, rec.GlobalOutsideToOutsideMaxPerc)
}

func editedStore(t *testing.T) *constraint.Store {
	t.Helper()
	s := testutil.NewStore(t, testutil.NewCity(t))
	require.True(t, s.SetInternalSupplyReserve(testutil.CoalStorage, 40))
	require.True(t, s.AddSupplyChainConnection(testutil.CoalStorage, testutil.CoalPlant))
	require.True(t, s.AddSupplyChainConnection(testutil.CoalYard, testutil.CoalPlant))
	require.True(t, s.SetAllLocalAreas(ir.Input, ir.ChannelA, testutil.CoalPlant, false))
	require.True(t, s.AddDistrictPark(ir.Input, ir.ChannelA, testutil.CoalPlant, testutil.Uptown))
	require.True(t, s.SetOutsideConnections(ir.Input, ir.ChannelA, testutil.CoalPlant, false))
	s.SetOutsideConnectionIntensity(300)
	s.SetOutsideToOutsideMaxPercent(20)
	return s
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	src := editedStore(t)
	rec := Capture(src)

	dst := testutil.NewStore(t, testutil.NewCity(t))
	dst.SetInternalSupplyReserve(testutil.OilPump, 5)
	dst.AddSupplyChainConnection(testutil.OilPump, testutil.OilStorage)

	restored := Restore(dst, rec)
	assert.Equal(t, 10, restored)

	assert.Equal(t, Normalize(rec), Normalize(Capture(dst)))
	assert.Equal(t, 40, dst.InternalSupplyReserve(testutil.CoalStorage))
	assert.Equal(t, constraint.DefaultInternalSupplyReserve, dst.InternalSupplyReserve(testutil.OilPump))
	assert.Nil(t, dst.SupplyDestinations(testutil.OilPump))
	assert.Equal(t, []ir.BuildingID{testutil.CoalStorage, testutil.CoalYard}, dst.SupplySources(testutil.CoalPlant))
	assert.Equal(t, []ir.DistrictPark{testutil.Uptown}, dst.DistrictParks(ir.Input, ir.ChannelA, testutil.CoalPlant))
	assert.Equal(t, 300, dst.OutsideConnectionIntensity())
	assert.Equal(t, 20, dst.OutsideToOutsideMaxPercent())
}

func TestRestoreDropsWhatTheClassifierRejects(t *testing.T) {
	rec := newRecordV4()
	// Library (9) takes part in no policy; Fire Station (5) cannot close
	// its outside connections.
	rec.OutputBuildingToAllLocalAreas = []bool{true, true, true, true, true, true, true, true, true, false}
	rec.OutputBuildingToOutsideConnections = []bool{true, true, true, true, true, false}
	rec.BuildingToInternalSupplyBuffer = []int{100, 100, 100, 100, 100, 100, 100, 100, 100, 10}
	// Oil cannot feed a power plant; 500 is past the table.
	rec.BuildingToBuildingServiced = [][]int{nil, nil, nil, nil, nil, nil, {3, 7, 500}}

	s := testutil.NewStore(t, testutil.NewCity(t))
	Restore(s, rec)

	assert.True(t, s.AllLocalAreas(ir.Output, ir.ChannelA, testutil.Library))
	assert.Equal(t, constraint.DefaultInternalSupplyReserve, s.InternalSupplyReserve(testutil.Library))
	assert.True(t, s.OutsideConnections(ir.Output, ir.ChannelA, testutil.FireStation))
	assert.Equal(t, []ir.BuildingID{testutil.OilStorage}, s.SupplyDestinations(testutil.OilPump))
}

func TestRestoreClampsGlobals(t *testing.T) {
	rec := newRecordV4()
	rec.GlobalOutsideConnectionIntensity = 5000
	rec.GlobalOutsideToOutsideMaxPerc = -3

	s := testutil.NewStore(t, testutil.NewCity(t))
	Restore(s, rec)
	assert.Equal(t, constraint.MaxOutsideConnectionIntensity, s.OutsideConnectionIntensity())
	assert.Equal(t, 0, s.OutsideToOutsideMaxPercent())
}

func TestRestoreUpgradedLegacyRecord(t *testing.T) {
	// v2: Coal Storage (2) ships only to the Coal Plant (3).
	b := []byte(`{"id":"EnhancedDistrictServices_v2","data":{
		"BuildingToBuildingServiced":[[],[],[3]],
		"BuildingToInternalSupplyBuffer":[100,100,60]
	}}`)
	rec, _, err := Decode(b)
	require.NoError(t, err)

	s := testutil.NewStore(t, testutil.NewCity(t))
	Restore(s, rec)

	assert.Equal(t, []ir.BuildingID{testutil.CoalStorage}, s.SupplySources(testutil.CoalPlant))
	assert.Equal(t, 60, s.InternalSupplyReserve(testutil.CoalStorage))
	assert.False(t, s.AllLocalAreas(ir.Output, ir.ChannelA, testutil.CoalStorage))
	assert.False(t, s.OutsideConnections(ir.Output, ir.ChannelA, testutil.CoalStorage))
	assert.False(t, s.AllLocalAreas(ir.Input, ir.ChannelA, testutil.CoalPlant))
	assert.Equal(t, legacyOutsideConnectionIntensity, s.OutsideConnectionIntensity())
}

func TestHash(t *testing.T) {
	rec := Capture(editedStore(t))

	h1, err := Hash(rec)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	padded := rec
	padded.InputBuildingToAllLocalAreas2 = []bool{true, true, true}
	padded.BuildingToInternalSupplyBuffer = append(append([]int(nil), rec.BuildingToInternalSupplyBuffer...), 100, 100)
	h2, err := Hash(padded)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "trailing defaults do not change the hash")

	changed := rec
	changed.GlobalOutsideToOutsideMaxPerc++
	h3, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
