package snapshot

import (
	"slices"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
)

// Record ids written into the envelope.
const (
	IDv2 = "EnhancedDistrictServices_v2"
	IDv3 = "EnhancedDistrictServices_v3"
	IDv4 = "EnhancedDistrictServices_v4"
)

// legacyOutsideConnectionIntensity is the intensity a v2 or v3 record holds
// when the field is missing.
const legacyOutsideConnectionIntensity = 15

// RecordV2 is the oldest shape: one set of flags per building, applied to
// outgoing offers only.
type RecordV2 struct {
	BuildingToAllLocalAreas          []bool  `json:"BuildingToAllLocalAreas,omitempty"`
	BuildingToAllLocalAreas2         []bool  `json:"BuildingToAllLocalAreas2,omitempty"`
	BuildingToOutsideConnections     []bool  `json:"BuildingToOutsideConnections,omitempty"`
	BuildingToOutsideConnections2    []bool  `json:"BuildingToOutsideConnections2,omitempty"`
	BuildingToInternalSupplyBuffer   []int   `json:"BuildingToInternalSupplyBuffer,omitempty"`
	BuildingToDistrictServiced       [][]int `json:"BuildingToDistrictServiced,omitempty"`
	BuildingToDistrictServiced2      [][]int `json:"BuildingToDistrictServiced2,omitempty"`
	BuildingToBuildingServiced       [][]int `json:"BuildingToBuildingServiced,omitempty"`
	GlobalOutsideConnectionIntensity int     `json:"GlobalOutsideConnectionIntensity"`
}

// RecordV3 separates input and output restrictions on both channels.
type RecordV3 struct {
	InputBuildingToAllLocalAreas       []bool  `json:"InputBuildingToAllLocalAreas,omitempty"`
	InputBuildingToAllLocalAreas2      []bool  `json:"InputBuildingToAllLocalAreas2,omitempty"`
	InputBuildingToOutsideConnections  []bool  `json:"InputBuildingToOutsideConnections,omitempty"`
	InputBuildingToOutsideConnections2 []bool  `json:"InputBuildingToOutsideConnections2,omitempty"`
	InputBuildingToDistrictServiced    [][]int `json:"InputBuildingToDistrictServiced,omitempty"`
	InputBuildingToDistrictServiced2   [][]int `json:"InputBuildingToDistrictServiced2,omitempty"`

	OutputBuildingToAllLocalAreas       []bool  `json:"OutputBuildingToAllLocalAreas,omitempty"`
	OutputBuildingToAllLocalAreas2      []bool  `json:"OutputBuildingToAllLocalAreas2,omitempty"`
	OutputBuildingToOutsideConnections  []bool  `json:"OutputBuildingToOutsideConnections,omitempty"`
	OutputBuildingToOutsideConnections2 []bool  `json:"OutputBuildingToOutsideConnections2,omitempty"`
	OutputBuildingToDistrictServiced    [][]int `json:"OutputBuildingToDistrictServiced,omitempty"`
	OutputBuildingToDistrictServiced2   [][]int `json:"OutputBuildingToDistrictServiced2,omitempty"`

	BuildingToInternalSupplyBuffer   []int   `json:"BuildingToInternalSupplyBuffer,omitempty"`
	BuildingToBuildingServiced       [][]int `json:"BuildingToBuildingServiced,omitempty"`
	GlobalOutsideConnectionIntensity int     `json:"GlobalOutsideConnectionIntensity"`
}

// RecordV4 is the current shape.
type RecordV4 struct {
	RecordV3
	GlobalOutsideToOutsideMaxPerc int `json:"GlobalOutsideToOutsideMaxPerc"`
}

func newRecordV2() RecordV2 {
	return RecordV2{GlobalOutsideConnectionIntensity: legacyOutsideConnectionIntensity}
}

func newRecordV3() RecordV3 {
	return RecordV3{GlobalOutsideConnectionIntensity: legacyOutsideConnectionIntensity}
}

func newRecordV4() RecordV4 {
	return RecordV4{
		RecordV3: RecordV3{
			GlobalOutsideConnectionIntensity: constraint.DefaultOutsideConnectionIntensity,
		},
		GlobalOutsideToOutsideMaxPerc: constraint.DefaultOutsideToOutsideMaxPercent,
	}
}

func flagAt(a []bool, i int) bool {
	if i < len(a) {
		return a[i]
	}
	return true
}

func reserveAt(a []int, i int) int {
	if i < len(a) {
		return a[i]
	}
	return constraint.DefaultInternalSupplyReserve
}

func listAt(a [][]int, i int) []int {
	if i < len(a) {
		return a[i]
	}
	return nil
}

// flags returns the all-local-areas and outside-connections arrays of a
// (direction, channel) pair.
func (r *RecordV3) flags(dir ir.Direction, ch ir.Channel) (allLocal, outside *[]bool) {
	switch {
	case dir == ir.Input && ch == ir.ChannelA:
		return &r.InputBuildingToAllLocalAreas, &r.InputBuildingToOutsideConnections
	case dir == ir.Input:
		return &r.InputBuildingToAllLocalAreas2, &r.InputBuildingToOutsideConnections2
	case ch == ir.ChannelA:
		return &r.OutputBuildingToAllLocalAreas, &r.OutputBuildingToOutsideConnections
	default:
		return &r.OutputBuildingToAllLocalAreas2, &r.OutputBuildingToOutsideConnections2
	}
}

func (r *RecordV3) districts(dir ir.Direction, ch ir.Channel) *[][]int {
	switch {
	case dir == ir.Input && ch == ir.ChannelA:
		return &r.InputBuildingToDistrictServiced
	case dir == ir.Input:
		return &r.InputBuildingToDistrictServiced2
	case ch == ir.ChannelA:
		return &r.OutputBuildingToDistrictServiced
	default:
		return &r.OutputBuildingToDistrictServiced2
	}
}

// Restriction reads the (dir, ch) policy of building b, filling defaults for
// indices past the end of the arrays.
func (r *RecordV3) Restriction(dir ir.Direction, ch ir.Channel, b int) constraint.Restriction {
	allLocal, outside := r.flags(dir, ch)
	var refs []ir.DistrictPark
	for _, v := range listAt(*r.districts(dir, ch), b) {
		refs = append(refs, ir.FromSerializedInt(v))
	}
	return constraint.Restriction{
		AllLocalAreas:      flagAt(*allLocal, b),
		OutsideConnections: flagAt(*outside, b),
		DistrictParks:      refs,
	}
}

// Reserve reads the internal supply reserve of building b.
func (r *RecordV3) Reserve(b int) int {
	return reserveAt(r.BuildingToInternalSupplyBuffer, b)
}

// Destinations reads the supply destinations of building b.
func (r *RecordV3) Destinations(b int) []int {
	return listAt(r.BuildingToBuildingServiced, b)
}

// Len is one past the highest building index any array covers.
func (r *RecordV3) Len() int {
	n := 0
	for _, dir := range ir.Directions {
		for _, ch := range ir.Channels {
			allLocal, outside := r.flags(dir, ch)
			n = max(n, len(*allLocal), len(*outside), len(*r.districts(dir, ch)))
		}
	}
	return max(n, len(r.BuildingToInternalSupplyBuffer), len(r.BuildingToBuildingServiced))
}

func (r RecordV2) length() int {
	n := max(
		len(r.BuildingToAllLocalAreas), len(r.BuildingToAllLocalAreas2),
		len(r.BuildingToOutsideConnections), len(r.BuildingToOutsideConnections2),
		len(r.BuildingToInternalSupplyBuffer),
		len(r.BuildingToDistrictServiced), len(r.BuildingToDistrictServiced2),
		len(r.BuildingToBuildingServiced),
	)
	for _, dests := range r.BuildingToBuildingServiced {
		for _, d := range dests {
			if d >= 0 && d < ir.MaxBuildingCount {
				n = max(n, d+1)
			}
		}
	}
	return n
}

func filledFlags(src []bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = flagAt(src, i)
	}
	return out
}

func cloneLists(src [][]int, n int) [][]int {
	if n == 0 {
		return nil
	}
	out := make([][]int, n)
	for i := range out {
		out[i] = slices.Clone(listAt(src, i))
	}
	return out
}

// Upgrade converts a v2 record to v3 without modifying r.
//
// v2 flags and lists become the output side. A building with a non-empty
// supply destination list shipped only along those links, so its output
// flags close and its district lists are dropped. Every destination of such
// a link only received along supply links, so its input flags close. Both
// channels are treated alike.
func (r RecordV2) Upgrade() RecordV3 {
	n := r.length()
	out := RecordV3{
		InputBuildingToAllLocalAreas:       filledFlags(nil, n),
		InputBuildingToAllLocalAreas2:      filledFlags(nil, n),
		InputBuildingToOutsideConnections:  filledFlags(nil, n),
		InputBuildingToOutsideConnections2: filledFlags(nil, n),

		OutputBuildingToAllLocalAreas:       filledFlags(r.BuildingToAllLocalAreas, n),
		OutputBuildingToAllLocalAreas2:      filledFlags(r.BuildingToAllLocalAreas2, n),
		OutputBuildingToOutsideConnections:  filledFlags(r.BuildingToOutsideConnections, n),
		OutputBuildingToOutsideConnections2: filledFlags(r.BuildingToOutsideConnections2, n),
		OutputBuildingToDistrictServiced:    cloneLists(r.BuildingToDistrictServiced, n),
		OutputBuildingToDistrictServiced2:   cloneLists(r.BuildingToDistrictServiced2, n),

		BuildingToInternalSupplyBuffer:   slices.Clone(r.BuildingToInternalSupplyBuffer),
		BuildingToBuildingServiced:       cloneLists(r.BuildingToBuildingServiced, n),
		GlobalOutsideConnectionIntensity: r.GlobalOutsideConnectionIntensity,
	}

	for b, dests := range r.BuildingToBuildingServiced {
		if len(dests) == 0 {
			continue
		}
		out.OutputBuildingToAllLocalAreas[b] = false
		out.OutputBuildingToAllLocalAreas2[b] = false
		out.OutputBuildingToOutsideConnections[b] = false
		out.OutputBuildingToOutsideConnections2[b] = false
		out.OutputBuildingToDistrictServiced[b] = nil
		out.OutputBuildingToDistrictServiced2[b] = nil

		for _, d := range dests {
			if d < 0 || d >= n {
				continue
			}
			out.InputBuildingToAllLocalAreas[d] = false
			out.InputBuildingToAllLocalAreas2[d] = false
			out.InputBuildingToOutsideConnections[d] = false
			out.InputBuildingToOutsideConnections2[d] = false
		}
	}
	return out
}

// Upgrade converts a v3 record to v4 without modifying r. The
// outside-to-outside cap did not exist before v4 and starts at its default.
func (r RecordV3) Upgrade() RecordV4 {
	out := RecordV4{
		RecordV3: RecordV3{
			InputBuildingToAllLocalAreas:       slices.Clone(r.InputBuildingToAllLocalAreas),
			InputBuildingToAllLocalAreas2:      slices.Clone(r.InputBuildingToAllLocalAreas2),
			InputBuildingToOutsideConnections:  slices.Clone(r.InputBuildingToOutsideConnections),
			InputBuildingToOutsideConnections2: slices.Clone(r.InputBuildingToOutsideConnections2),
			InputBuildingToDistrictServiced:    cloneLists(r.InputBuildingToDistrictServiced, len(r.InputBuildingToDistrictServiced)),
			InputBuildingToDistrictServiced2:   cloneLists(r.InputBuildingToDistrictServiced2, len(r.InputBuildingToDistrictServiced2)),

			OutputBuildingToAllLocalAreas:       slices.Clone(r.OutputBuildingToAllLocalAreas),
			OutputBuildingToAllLocalAreas2:      slices.Clone(r.OutputBuildingToAllLocalAreas2),
			OutputBuildingToOutsideConnections:  slices.Clone(r.OutputBuildingToOutsideConnections),
			OutputBuildingToOutsideConnections2: slices.Clone(r.OutputBuildingToOutsideConnections2),
			OutputBuildingToDistrictServiced:    cloneLists(r.OutputBuildingToDistrictServiced, len(r.OutputBuildingToDistrictServiced)),
			OutputBuildingToDistrictServiced2:   cloneLists(r.OutputBuildingToDistrictServiced2, len(r.OutputBuildingToDistrictServiced2)),

			BuildingToInternalSupplyBuffer:   slices.Clone(r.BuildingToInternalSupplyBuffer),
			BuildingToBuildingServiced:       cloneLists(r.BuildingToBuildingServiced, len(r.BuildingToBuildingServiced)),
			GlobalOutsideConnectionIntensity: r.GlobalOutsideConnectionIntensity,
		},
		GlobalOutsideToOutsideMaxPerc: constraint.DefaultOutsideToOutsideMaxPercent,
	}
	return out
}
