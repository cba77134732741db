package constraint

import (
	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/ir"
)

// CreateBuilding applies the default policy to a newly placed
// district-service building. Inputs open up. Outputs serve everything when
// the building sits outside any district or park, and otherwise serve only
// its home district and park. Other buildings are left untouched.
func (s *Store) CreateBuilding(id ir.BuildingID) bool {
	sl := s.slot(id)
	if sl == nil {
		s.logger.Warn("ignoring create of out-of-range building", "building_id", id)
		return false
	}
	caps := s.classifier.Capabilities(id)
	if !caps.Has(classify.CapDistrictService) {
		s.logger.Debug("created building has no district policy",
			"building_id", id, "capabilities", caps.String())
		return false
	}

	loc := s.location(id)
	open := loc.IsEmpty()
	s.logger.Info("building created",
		"building_id", id,
		"building", s.buildingName(id),
		"home_district", loc.District,
		"home_park", loc.Park,
		"capabilities", caps.String())

	s.setFlag(flagAllLocalAreas, ir.Input, ir.ChannelA, id, true)
	sl.restrictions[ir.Input][ir.ChannelA].DistrictParks = nil
	if caps.Has(classify.CapTwoInputs) {
		s.setFlag(flagAllLocalAreas, ir.Input, ir.ChannelB, id, true)
		s.setFlag(flagOutsideConnections, ir.Input, ir.ChannelB, id, true)
		sl.restrictions[ir.Input][ir.ChannelB].DistrictParks = nil
	} else {
		s.setFlag(flagOutsideConnections, ir.Input, ir.ChannelA, id, true)
	}

	outputs := []ir.Channel{ir.ChannelA}
	s.setFlag(flagAllLocalAreas, ir.Output, ir.ChannelA, id, open)
	sl.restrictions[ir.Output][ir.ChannelA].DistrictParks = nil
	if caps.Has(classify.CapTwoOutputs) {
		outputs = append(outputs, ir.ChannelB)
		s.setFlag(flagAllLocalAreas, ir.Output, ir.ChannelB, id, open)
		s.setFlag(flagOutsideConnections, ir.Output, ir.ChannelB, id, open)
		sl.restrictions[ir.Output][ir.ChannelB].DistrictParks = nil
	} else {
		s.setFlag(flagOutsideConnections, ir.Output, ir.ChannelA, id, open)
	}

	// District and park are added separately so removing either one later
	// leaves the other in place.
	for _, ref := range loc.Refs() {
		for _, ch := range outputs {
			if caps.Has(listGate(ch)) {
				s.AddDistrictPark(ir.Output, ch, id, ref)
			}
		}
	}
	return true
}

// ReleaseBuilding resets id to the open defaults and removes every supply
// link that starts or ends at id. Releasing a reset slot is a no-op.
func (s *Store) ReleaseBuilding(id ir.BuildingID) bool {
	sl := s.slot(id)
	if sl == nil {
		s.logger.Warn("ignoring release of out-of-range building", "building_id", id)
		return false
	}
	sl.reset()
	toRemoved := s.RemoveAllSupplyChainConnectionsToDestination(id)
	fromRemoved := s.RemoveAllSupplyChainConnectionsFromSource(id)
	if toRemoved || fromRemoved {
		s.logger.Debug("released building supply links",
			"building_id", id,
			"as_destination", toRemoved,
			"as_source", fromRemoved)
	}
	return true
}

// ReleaseDistrictPark removes ref from every allow-list of every slot, both
// directions and both channels. Returns the number of lists that changed.
func (s *Store) ReleaseDistrictPark(ref ir.DistrictPark) int {
	changed := 0
	for i := range s.slots {
		for d := range s.slots[i].restrictions {
			for c := range s.slots[i].restrictions[d] {
				if removeRef(&s.slots[i].restrictions[d][c], ref) {
					changed++
				}
			}
		}
	}
	s.logger.Info("district/park released",
		"district_park", ref.String(),
		"lists_changed", changed)
	return changed
}
