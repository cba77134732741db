package snapshot

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genLegacy(allLocal, outside []bool, reserves []int, dests [][]int) RecordV2 {
	return RecordV2{
		BuildingToAllLocalAreas:          allLocal,
		BuildingToOutsideConnections:     outside,
		BuildingToInternalSupplyBuffer:   reserves,
		BuildingToBuildingServiced:       dests,
		GlobalOutsideConnectionIntensity: legacyOutsideConnectionIntensity,
	}
}

func TestProperty_MigrationIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("upgrading twice gives the same record and leaves the input alone", prop.ForAll(
		func(allLocal, outside []bool, reserves []int, dests [][]int) bool {
			rec := genLegacy(allLocal, outside, reserves, dests)
			before, err := json.Marshal(rec)
			if err != nil {
				return false
			}
			first := rec.Upgrade().Upgrade()
			second := rec.Upgrade().Upgrade()
			after, err := json.Marshal(rec)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(first, second) && string(before) == string(after)
		},
		gen.SliceOfN(8, gen.Bool()),
		gen.SliceOfN(8, gen.Bool()),
		gen.SliceOfN(8, gen.IntRange(0, 100)),
		gen.SliceOfN(8, gen.SliceOfN(3, gen.IntRange(1, 20))),
	))

	properties.Property("decoding the same legacy bytes is stable", prop.ForAll(
		func(allLocal []bool, dests [][]int) bool {
			data, err := json.Marshal(genLegacy(allLocal, nil, nil, dests))
			if err != nil {
				return false
			}
			b, err := json.Marshal(Envelope{ID: IDv2, Data: data})
			if err != nil {
				return false
			}
			first, _, err1 := Decode(b)
			second, _, err2 := Decode(b)
			return err1 == nil && err2 == nil && reflect.DeepEqual(first, second)
		},
		gen.SliceOfN(6, gen.Bool()),
		gen.SliceOfN(6, gen.SliceOfN(2, gen.IntRange(1, 12))),
	))

	properties.Property("normalize is idempotent and hash follows it", prop.ForAll(
		func(allLocal []bool, reserves []int, dests [][]int) bool {
			rec := genLegacy(allLocal, nil, reserves, dests).Upgrade().Upgrade()
			n := Normalize(rec)
			if !reflect.DeepEqual(n, Normalize(n)) {
				return false
			}
			h1, err1 := Hash(rec)
			h2, err2 := Hash(n)
			return err1 == nil && err2 == nil && h1 == h2
		},
		gen.SliceOfN(6, gen.Bool()),
		gen.SliceOfN(6, gen.IntRange(0, 100)),
		gen.SliceOfN(6, gen.SliceOfN(2, gen.IntRange(1, 12))),
	))

	properties.TestingRun(t)
}
