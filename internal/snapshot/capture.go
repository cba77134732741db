package snapshot

import (
	"log/slog"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
)

// Capture copies the state of s into a v4 record. Arrays end at the last
// building holding a non-default value.
func Capture(s *constraint.Store) RecordV4 {
	rec := newRecordV4()
	rec.GlobalOutsideConnectionIntensity = s.OutsideConnectionIntensity()
	rec.GlobalOutsideToOutsideMaxPerc = s.OutsideToOutsideMaxPercent()

	for _, dir := range ir.Directions {
		for _, ch := range ir.Channels {
			allLocal, outside := rec.flags(dir, ch)
			lists := rec.districts(dir, ch)
			for b := 0; b < s.Size(); b++ {
				r := s.Restriction(dir, ch, ir.BuildingID(b))
				setFlag(allLocal, b, r.AllLocalAreas)
				setFlag(outside, b, r.OutsideConnections)
				if len(r.DistrictParks) > 0 {
					vals := make([]int, len(r.DistrictParks))
					for i, ref := range r.DistrictParks {
						vals[i] = ref.SerializedInt()
					}
					setList(lists, b, vals)
				}
			}
		}
	}

	for b := 0; b < s.Size(); b++ {
		id := ir.BuildingID(b)
		if reserve := s.InternalSupplyReserve(id); reserve != constraint.DefaultInternalSupplyReserve {
			for len(rec.BuildingToInternalSupplyBuffer) < b {
				rec.BuildingToInternalSupplyBuffer = append(rec.BuildingToInternalSupplyBuffer, constraint.DefaultInternalSupplyReserve)
			}
			rec.BuildingToInternalSupplyBuffer = append(rec.BuildingToInternalSupplyBuffer, reserve)
		}
		if dests := s.SupplyDestinations(id); len(dests) > 0 {
			vals := make([]int, len(dests))
			for i, d := range dests {
				vals[i] = int(d)
			}
			setList(&rec.BuildingToBuildingServiced, b, vals)
		}
	}
	return rec
}

// setFlag records a non-default (false) flag, growing the array with
// defaults up to b.
func setFlag(a *[]bool, b int, v bool) {
	if v {
		return
	}
	for len(*a) <= b {
		*a = append(*a, true)
	}
	(*a)[b] = false
}

func setList(a *[][]int, b int, v []int) {
	for len(*a) <= b {
		*a = append(*a, nil)
	}
	(*a)[b] = v
}

// Restore clears s and replays rec through the gated mutators for every
// building that currently takes part in district or supply-chain policy.
// Values the classifier no longer permits are dropped. Returns the number of
// buildings replayed.
func Restore(s *constraint.Store, rec RecordV4) int {
	s.Clear()

	c := s.Classifier()
	n := min(rec.Len(), s.Size())
	restored := 0
	for b := 1; b < n; b++ {
		id := ir.BuildingID(b)
		caps := c.Capabilities(id)
		if !caps.Has(classify.CapDistrictService) && !caps.Has(classify.CapSupplyChain) {
			continue
		}
		restored++

		for _, dir := range ir.Directions {
			for _, ch := range ir.Channels {
				r := rec.Restriction(dir, ch, b)
				if !r.AllLocalAreas {
					s.SetAllLocalAreas(dir, ch, id, false)
				}
				if !r.OutsideConnections {
					s.SetOutsideConnections(dir, ch, id, false)
				}
				for _, ref := range r.DistrictParks {
					s.AddDistrictPark(dir, ch, id, ref)
				}
			}
		}

		if reserve := rec.Reserve(b); reserve != constraint.DefaultInternalSupplyReserve {
			s.SetInternalSupplyReserve(id, reserve)
		}
		for _, d := range rec.Destinations(b) {
			if d <= 0 || d >= s.Size() {
				slog.Warn("skipping out-of-range supply destination", "source", b, "destination", d)
				continue
			}
			s.AddSupplyChainConnection(id, ir.BuildingID(d))
		}
	}

	s.SetOutsideConnectionIntensity(rec.GlobalOutsideConnectionIntensity)
	s.SetOutsideToOutsideMaxPercent(rec.GlobalOutsideToOutsideMaxPerc)
	return restored
}

// Hash is the content hash of the normalized canonical form of rec.
func Hash(rec RecordV4) (string, error) {
	return ir.ContentHash(ir.DomainSnapshot, canonicalForm(Normalize(rec)))
}

func canonicalForm(rec RecordV4) map[string]any {
	lists := func(a [][]int) []any {
		out := make([]any, len(a))
		for i, l := range a {
			if l == nil {
				l = []int{}
			}
			out[i] = l
		}
		return out
	}
	flags := func(a []bool) []bool {
		if a == nil {
			return []bool{}
		}
		return a
	}
	ints := func(a []int) []int {
		if a == nil {
			return []int{}
		}
		return a
	}
	return map[string]any{
		"InputBuildingToAllLocalAreas":        flags(rec.InputBuildingToAllLocalAreas),
		"InputBuildingToAllLocalAreas2":       flags(rec.InputBuildingToAllLocalAreas2),
		"InputBuildingToOutsideConnections":   flags(rec.InputBuildingToOutsideConnections),
		"InputBuildingToOutsideConnections2":  flags(rec.InputBuildingToOutsideConnections2),
		"InputBuildingToDistrictServiced":     lists(rec.InputBuildingToDistrictServiced),
		"InputBuildingToDistrictServiced2":    lists(rec.InputBuildingToDistrictServiced2),
		"OutputBuildingToAllLocalAreas":       flags(rec.OutputBuildingToAllLocalAreas),
		"OutputBuildingToAllLocalAreas2":      flags(rec.OutputBuildingToAllLocalAreas2),
		"OutputBuildingToOutsideConnections":  flags(rec.OutputBuildingToOutsideConnections),
		"OutputBuildingToOutsideConnections2": flags(rec.OutputBuildingToOutsideConnections2),
		"OutputBuildingToDistrictServiced":    lists(rec.OutputBuildingToDistrictServiced),
		"OutputBuildingToDistrictServiced2":   lists(rec.OutputBuildingToDistrictServiced2),
		"BuildingToInternalSupplyBuffer":      ints(rec.BuildingToInternalSupplyBuffer),
		"BuildingToBuildingServiced":          lists(rec.BuildingToBuildingServiced),
		"GlobalOutsideConnectionIntensity":    rec.GlobalOutsideConnectionIntensity,
		"GlobalOutsideToOutsideMaxPerc":       rec.GlobalOutsideToOutsideMaxPerc,
	}
}
