package constraint

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/roach88/eds/internal/ir"
)

func TestProperty_ReserveClamped(t *testing.T) {
	s, _ := newTestStore(t)
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("stored reserve is the clamped input", prop.ForAll(
		func(amount int) bool {
			s.SetInternalSupplyReserve(coalStorage, amount)
			got := s.InternalSupplyReserve(coalStorage)
			return got >= 0 && got <= 100 && got == clamp(amount, 0, 100)
		},
		gen.IntRange(-1000, 1000),
	))

	properties.Property("globals are clamped", prop.ForAll(
		func(amount int) bool {
			intensity := s.SetOutsideConnectionIntensity(amount)
			percent := s.SetOutsideToOutsideMaxPercent(amount)
			return intensity == clamp(amount, 0, 1000) && percent == clamp(amount, 0, 100)
		},
		gen.IntRange(-5000, 5000),
	))

	properties.TestingRun(t)
}

func TestProperty_DistrictListsStayUnique(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("repeated adds never duplicate", prop.ForAll(
		func(districts []uint8) bool {
			s, _ := newTestStore(t)
			seen := map[ir.DistrictPark]bool{}
			for _, d := range districts {
				ref := ir.FromDistrict(d)
				s.AddDistrictPark(ir.Output, ir.ChannelA, fireUnplaced, ref)
				seen[ref] = true
			}
			got := s.DistrictParks(ir.Output, ir.ChannelA, fireUnplaced)
			if len(got) != len(seen) {
				return false
			}
			compact := slices.Clone(got)
			slices.SortFunc(compact, func(a, b ir.DistrictPark) int {
				return a.SerializedInt() - b.SerializedInt()
			})
			return len(slices.Compact(compact)) == len(got)
		},
		gen.SliceOf(gen.UInt8Range(1, 3)),
	))

	properties.TestingRun(t)
}

func TestProperty_ReleaseDistrictParkSweeps(t *testing.T) {
	refs := []ir.DistrictPark{downtown, harbor, uptown, centralPark}
	buildings := []ir.BuildingID{fireInDowntown, coalStorage, coalPlant, postOffice, fireUnplaced, fishFarm}
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("no allow-list keeps a released reference", prop.ForAll(
		func(edits []int, victim int) bool {
			s, _ := newTestStore(t)
			for _, e := range edits {
				id := buildings[e%len(buildings)]
				ref := refs[(e/7)%len(refs)]
				dir := ir.Directions[(e/3)%2]
				ch := ir.Channels[(e/5)%2]
				s.AddDistrictPark(dir, ch, id, ref)
			}
			released := refs[victim]
			s.ReleaseDistrictPark(released)
			for id := ir.BuildingID(0); int(id) < s.Size(); id++ {
				for _, dir := range ir.Directions {
					for _, ch := range ir.Channels {
						if slices.Contains(s.DistrictParks(dir, ch, id), released) {
							return false
						}
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.IntRange(0, len(refs)-1),
	))

	properties.TestingRun(t)
}

func TestProperty_ReleaseCreateRestoresDefaults(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("unplaced buildings come back open", prop.ForAll(
		func(reserve int, closeLocal, closeOutside bool) bool {
			s, _ := newTestStore(t)
			s.SetInternalSupplyReserve(coalStorage, reserve)
			s.SetAllLocalAreas(ir.Output, ir.ChannelA, coalStorage, !closeLocal)
			s.SetOutsideConnections(ir.Output, ir.ChannelA, coalStorage, !closeOutside)
			s.AddDistrictPark(ir.Input, ir.ChannelA, coalStorage, harbor)
			s.AddSupplyChainConnection(coalStorage, coalPlant)

			s.ReleaseBuilding(coalStorage)
			s.CreateBuilding(coalStorage)

			for _, dir := range ir.Directions {
				if !s.Restriction(dir, ir.ChannelA, coalStorage).IsDefault() {
					return false
				}
			}
			return s.InternalSupplyReserve(coalStorage) == 100 &&
				s.SupplyDestinations(coalStorage) == nil &&
				len(s.SupplySources(coalPlant)) == 0
		},
		gen.IntRange(-200, 200),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
