package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// DistrictPark identifies exactly one district or exactly one park.
//
// The zero value is "none" and is never stored in an allow-list. Build values
// with FromDistrict or FromPark; the fields stay unexported so a reference can
// never name both.
type DistrictPark struct {
	district uint8
	park     uint8
}

// FromDistrict returns a reference to district d. FromDistrict(0) is none.
func FromDistrict(d uint8) DistrictPark {
	return DistrictPark{district: d}
}

// FromPark returns a reference to park p. FromPark(0) is none.
func FromPark(p uint8) DistrictPark {
	return DistrictPark{park: p}
}

// IsEmpty reports whether the reference names nothing.
func (dp DistrictPark) IsEmpty() bool {
	return dp.district == 0 && dp.park == 0
}

// IsDistrict reports whether the reference names a district.
func (dp DistrictPark) IsDistrict() bool {
	return dp.district != 0
}

// IsPark reports whether the reference names a park.
func (dp DistrictPark) IsPark() bool {
	return dp.park != 0
}

// District returns the district id, 0 for park references.
func (dp DistrictPark) District() uint8 {
	return dp.district
}

// Park returns the park id, 0 for district references.
func (dp DistrictPark) Park() uint8 {
	return dp.park
}

// Matches reports identity equality. Removal from allow-lists uses Matches, so
// a park reference never removes a district entry with the same number.
func (dp DistrictPark) Matches(other DistrictPark) bool {
	if dp.IsEmpty() || other.IsEmpty() {
		return false
	}
	return dp == other
}

// SerializedInt packs the reference as district | park<<8.
//
// Legacy records stored bare district ids, which decode unchanged because
// every district id is below 256.
func (dp DistrictPark) SerializedInt() int {
	return int(dp.district) | int(dp.park)<<8
}

// FromSerializedInt is the inverse of SerializedInt. Values carrying both a
// district and a park byte (never written by this package) decode as the park,
// matching the rule that a reference names one identity.
func FromSerializedInt(v int) DistrictPark {
	park := uint8(v >> 8)
	if park != 0 {
		return FromPark(park)
	}
	return FromDistrict(uint8(v))
}

// String renders "district:3", "park:7" or "none".
func (dp DistrictPark) String() string {
	switch {
	case dp.district != 0:
		return fmt.Sprintf("district:%d", dp.district)
	case dp.park != 0:
		return fmt.Sprintf("park:%d", dp.park)
	default:
		return "none"
	}
}

// ParseDistrictPark is the inverse of String for "district:N" and "park:N",
// N in 1..255.
func ParseDistrictPark(s string) (DistrictPark, error) {
	kind, num, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if !ok {
		return DistrictPark{}, fmt.Errorf("invalid district/park %q: want district:N or park:N", s)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 8)
	if err != nil || n == 0 {
		return DistrictPark{}, fmt.Errorf("invalid district/park %q: id must be 1..255", s)
	}
	switch kind {
	case "district":
		return FromDistrict(uint8(n)), nil
	case "park":
		return FromPark(uint8(n)), nil
	}
	return DistrictPark{}, fmt.Errorf("invalid district/park %q: want district:N or park:N", s)
}

// Location is where a building or offer sits: a district and/or a park, each
// 0 when absent. Unlike DistrictPark both may be set.
type Location struct {
	District uint8 `json:"district,omitempty" yaml:"district,omitempty"`
	Park     uint8 `json:"park,omitempty" yaml:"park,omitempty"`
}

// IsEmpty reports whether the location is outside every district and park.
func (l Location) IsEmpty() bool {
	return l.District == 0 && l.Park == 0
}

// Refs splits the location into its component references, district first.
func (l Location) Refs() []DistrictPark {
	var refs []DistrictPark
	if l.District != 0 {
		refs = append(refs, FromDistrict(l.District))
	}
	if l.Park != 0 {
		refs = append(refs, FromPark(l.Park))
	}
	return refs
}

// IsServedBy reports whether any reference in refs names this location's
// district or park. A nil or empty list serves nothing.
func (l Location) IsServedBy(refs []DistrictPark) bool {
	for _, ref := range refs {
		if ref.district != 0 && ref.district == l.District {
			return true
		}
		if ref.park != 0 && ref.park == l.Park {
			return true
		}
	}
	return false
}
