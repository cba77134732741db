package constraint

import (
	"slices"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/ir"
)

type flagKind int

const (
	flagAllLocalAreas flagKind = iota
	flagOutsideConnections
)

func (k flagKind) String() string {
	if k == flagAllLocalAreas {
		return "all_local_areas"
	}
	return "outside_connections"
}

// listGate is the capability that unlocks the all-local-areas flag and the
// district/park list of a channel: district services for channel A, supply
// chain for channel B.
func listGate(ch ir.Channel) classify.Capability {
	if ch == ir.ChannelB {
		return classify.CapSupplyChain
	}
	return classify.CapDistrictService
}

// flagGate is the capability required to write flag k on channel ch. Every
// flag write additionally requires district services.
func flagGate(k flagKind, ch ir.Channel) classify.Capability {
	gate := classify.CapDistrictService
	if k == flagOutsideConnections {
		gate |= classify.CapSupplyChain
	} else {
		gate |= listGate(ch)
	}
	return gate
}

// setFlag writes a flag if id is eligible. It never logs.
func (s *Store) setFlag(k flagKind, dir ir.Direction, ch ir.Channel, id ir.BuildingID, value bool) bool {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return false
	}
	if !s.classifier.Capabilities(id).Has(flagGate(k, ch)) {
		return false
	}
	r := &sl.restrictions[dir][ch]
	if k == flagAllLocalAreas {
		r.AllLocalAreas = value
	} else {
		r.OutsideConnections = value
	}
	return true
}

func (s *Store) setFlagLogged(k flagKind, dir ir.Direction, ch ir.Channel, id ir.BuildingID, value bool) bool {
	if !s.setFlag(k, dir, ch, id, value) {
		s.logger.Warn("dropping flag write on ineligible building",
			"flag", k.String(),
			"direction", dir.String(),
			"channel", ch.String(),
			"building_id", id,
			"building", s.buildingName(id),
			"capabilities", s.classifier.Capabilities(id).String())
		return false
	}
	s.logger.Debug("flag set",
		"flag", k.String(),
		"direction", dir.String(),
		"channel", ch.String(),
		"building_id", id,
		"value", value)
	return true
}

// SetAllLocalAreas sets the all-local-areas flag of (dir, ch, id). Channel A
// requires a district-service building, channel B a supply-chain building
// that is also a district-service building.
func (s *Store) SetAllLocalAreas(dir ir.Direction, ch ir.Channel, id ir.BuildingID, value bool) bool {
	return s.setFlagLogged(flagAllLocalAreas, dir, ch, id, value)
}

// SetOutsideConnections sets the outside-connections flag of (dir, ch, id).
// Both channels require a building that is both a supply-chain and a
// district-service building.
func (s *Store) SetOutsideConnections(dir ir.Direction, ch ir.Channel, id ir.BuildingID, value bool) bool {
	return s.setFlagLogged(flagOutsideConnections, dir, ch, id, value)
}

// AddDistrictPark appends ref to the (dir, ch) allow-list of id. It fails when
// the building is not eligible or ref does not exist. Adding an entry that is
// already present succeeds without duplicating it.
func (s *Store) AddDistrictPark(dir ir.Direction, ch ir.Channel, id ir.BuildingID, ref ir.DistrictPark) bool {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		s.logger.Warn("dropping district/park on out-of-range selector",
			"building_id", id, "direction", dir.String(), "channel", ch.String())
		return false
	}
	caps := s.classifier.Capabilities(id)
	if !caps.Has(listGate(ch) | classify.CapDistrictService) {
		s.logger.Warn("ignoring district/park restriction on ineligible building",
			"district_park", s.districtParkName(ref),
			"direction", dir.String(),
			"channel", ch.String(),
			"building_id", id,
			"building", s.buildingName(id))
		return false
	}
	if ref.IsEmpty() || s.registry == nil || !s.registry.DistrictParkExists(ref) {
		s.logger.Warn("ignoring restriction on missing district/park",
			"district_park", ref.String(),
			"building_id", id)
		return false
	}

	r := &sl.restrictions[dir][ch]
	if slices.Contains(r.DistrictParks, ref) {
		return true
	}
	r.DistrictParks = append(r.DistrictParks, ref)
	s.logger.Info("district/park restriction added",
		"district_park", s.districtParkName(ref),
		"direction", dir.String(),
		"channel", ch.String(),
		"building_id", id,
		"building", s.buildingName(id))
	return true
}

// RemoveDistrictPark removes every entry matching ref from the (dir, ch)
// allow-list of id. It is not gated, so stale restrictions can always be
// cleaned up. Reports whether anything was removed.
func (s *Store) RemoveDistrictPark(dir ir.Direction, ch ir.Channel, id ir.BuildingID, ref ir.DistrictPark) bool {
	sl := s.slot(id)
	if sl == nil || !validSelector(dir, ch) {
		return false
	}
	return removeRef(&sl.restrictions[dir][ch], ref)
}

func removeRef(r *Restriction, ref ir.DistrictPark) bool {
	if r.DistrictParks == nil {
		return false
	}
	n := len(r.DistrictParks)
	r.DistrictParks = slices.DeleteFunc(r.DistrictParks, ref.Matches)
	removed := len(r.DistrictParks) != n
	if len(r.DistrictParks) == 0 {
		r.DistrictParks = nil
	}
	return removed
}

// SetInternalSupplyReserve stores amount clamped to [0, 100].
func (s *Store) SetInternalSupplyReserve(id ir.BuildingID, amount int) bool {
	sl := s.slot(id)
	if sl == nil {
		s.logger.Warn("dropping supply reserve on out-of-range building", "building_id", id)
		return false
	}
	sl.reserve = clamp(amount, 0, MaxInternalSupplyReserve)
	s.logger.Debug("supply reserve set", "building_id", id, "amount", amount, "stored", sl.reserve)
	return true
}

// SetOutsideConnectionIntensity stores amount clamped to [0, 1000] and
// returns the stored value.
func (s *Store) SetOutsideConnectionIntensity(amount int) int {
	s.outsideConnectionIntensity = clamp(amount, 0, MaxOutsideConnectionIntensity)
	return s.outsideConnectionIntensity
}

// SetOutsideToOutsideMaxPercent stores amount clamped to [0, 100] and
// returns the stored value.
func (s *Store) SetOutsideToOutsideMaxPercent(amount int) int {
	s.outsideToOutsideMaxPercent = clamp(amount, 0, MaxOutsideToOutsideMaxPercent)
	return s.outsideToOutsideMaxPercent
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// AddSupplyChainConnection allows source to ship to destination. Both must be
// supply-chain buildings and destination must accept the material source
// ships. Self links are rejected. Reports whether the link is present
// afterwards.
func (s *Store) AddSupplyChainConnection(source, destination ir.BuildingID) bool {
	sl := s.slot(source)
	if sl == nil || !s.InRange(destination) {
		s.logger.Warn("dropping supply link on out-of-range building",
			"source", source, "destination", destination)
		return false
	}
	if source == destination {
		s.logger.Warn("rejecting supply link to self", "building_id", source)
		return false
	}
	if !s.classifier.IsSupplyChain(source) || !s.classifier.IsSupplyChain(destination) {
		s.logger.Warn("rejecting supply link between non supply-chain buildings",
			"source", source, "destination", destination)
		return false
	}
	if !s.classifier.IsValidSupplyChainLink(source, destination) {
		s.logger.Warn("rejecting invalid supply link",
			"source", source,
			"destination", destination,
			"material", s.classifier.OutputMaterial(source).String())
		return false
	}
	if slices.Contains(sl.destinations, destination) {
		return true
	}
	sl.destinations = append(sl.destinations, destination)
	s.logger.Info("supply link added",
		"source", source,
		"source_name", s.buildingName(source),
		"destination", destination,
		"destination_name", s.buildingName(destination))
	return true
}

// RemoveSupplyChainConnection removes one link. Reports whether it existed.
func (s *Store) RemoveSupplyChainConnection(source, destination ir.BuildingID) bool {
	sl := s.slot(source)
	if sl == nil {
		return false
	}
	i := slices.Index(sl.destinations, destination)
	if i < 0 {
		return false
	}
	sl.destinations = slices.Delete(sl.destinations, i, i+1)
	if len(sl.destinations) == 0 {
		sl.destinations = nil
	}
	return true
}

// RemoveAllSupplyChainConnectionsFromSource clears id's destination list.
// Reports whether there was a list.
func (s *Store) RemoveAllSupplyChainConnectionsFromSource(id ir.BuildingID) bool {
	sl := s.slot(id)
	if sl == nil || sl.destinations == nil {
		return false
	}
	sl.destinations = nil
	return true
}

// RemoveAllSupplyChainConnectionsToDestination removes id from every slot's
// destination list. Reports whether anything was removed.
func (s *Store) RemoveAllSupplyChainConnectionsToDestination(id ir.BuildingID) bool {
	removed := false
	for b := range s.slots {
		if s.slots[b].destinations == nil {
			continue
		}
		if s.RemoveSupplyChainConnection(ir.BuildingID(b), id) {
			removed = true
		}
	}
	return removed
}
