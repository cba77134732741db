package snapshot

import (
	"slices"

	"github.com/roach88/eds/internal/constraint"
)

// Normalize returns a copy of rec with every array cut after its last
// non-default entry and empty lists turned into nil. Records that restore to
// the same state normalize to equal values.
func Normalize(rec RecordV4) RecordV4 {
	out := RecordV4{
		RecordV3: RecordV3{
			InputBuildingToAllLocalAreas:       trimFlags(rec.InputBuildingToAllLocalAreas),
			InputBuildingToAllLocalAreas2:      trimFlags(rec.InputBuildingToAllLocalAreas2),
			InputBuildingToOutsideConnections:  trimFlags(rec.InputBuildingToOutsideConnections),
			InputBuildingToOutsideConnections2: trimFlags(rec.InputBuildingToOutsideConnections2),
			InputBuildingToDistrictServiced:    trimLists(rec.InputBuildingToDistrictServiced),
			InputBuildingToDistrictServiced2:   trimLists(rec.InputBuildingToDistrictServiced2),

			OutputBuildingToAllLocalAreas:       trimFlags(rec.OutputBuildingToAllLocalAreas),
			OutputBuildingToAllLocalAreas2:      trimFlags(rec.OutputBuildingToAllLocalAreas2),
			OutputBuildingToOutsideConnections:  trimFlags(rec.OutputBuildingToOutsideConnections),
			OutputBuildingToOutsideConnections2: trimFlags(rec.OutputBuildingToOutsideConnections2),
			OutputBuildingToDistrictServiced:    trimLists(rec.OutputBuildingToDistrictServiced),
			OutputBuildingToDistrictServiced2:   trimLists(rec.OutputBuildingToDistrictServiced2),

			BuildingToInternalSupplyBuffer:   trimReserves(rec.BuildingToInternalSupplyBuffer),
			BuildingToBuildingServiced:       trimLists(rec.BuildingToBuildingServiced),
			GlobalOutsideConnectionIntensity: rec.GlobalOutsideConnectionIntensity,
		},
		GlobalOutsideToOutsideMaxPerc: rec.GlobalOutsideToOutsideMaxPerc,
	}
	return out
}

func trimFlags(a []bool) []bool {
	n := len(a)
	for n > 0 && a[n-1] {
		n--
	}
	if n == 0 {
		return nil
	}
	return slices.Clone(a[:n])
}

func trimReserves(a []int) []int {
	n := len(a)
	for n > 0 && a[n-1] == constraint.DefaultInternalSupplyReserve {
		n--
	}
	if n == 0 {
		return nil
	}
	return slices.Clone(a[:n])
}

func trimLists(a [][]int) [][]int {
	n := len(a)
	for n > 0 && len(a[n-1]) == 0 {
		n--
	}
	if n == 0 {
		return nil
	}
	out := make([][]int, n)
	for i, l := range a[:n] {
		if len(l) > 0 {
			out[i] = slices.Clone(l)
		}
	}
	return out
}
