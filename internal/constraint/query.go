package constraint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/eds/internal/ir"
)

// SupplySources lists the buildings whose destination list contains id, in
// id order. This is a full scan and is meant for diagnostics, not matching.
func (s *Store) SupplySources(id ir.BuildingID) []ir.BuildingID {
	var sources []ir.BuildingID
	for b := range s.slots {
		if slices.Contains(s.slots[b].destinations, id) {
			sources = append(sources, ir.BuildingID(b))
		}
	}
	return sources
}

func (s *Store) sortedDistrictParkNames(refs []ir.DistrictPark) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, s.districtParkName(ref))
	}
	slices.Sort(names)
	return names
}

func (s *Store) sortedBuildingLabels(ids []ir.BuildingID) []string {
	labels := make([]string, 0, len(ids))
	for _, b := range ids {
		labels = append(labels, fmt.Sprintf("%s (%d)", s.buildingName(b), b))
	}
	slices.Sort(labels)
	return labels
}

// OutputDistrictsServedText summarizes which districts the output channel ch
// of id serves.
func (s *Store) OutputDistrictsServedText(ch ir.Channel, id ir.BuildingID) string {
	if id == 0 {
		return ""
	}
	r := s.Restriction(ir.Output, ch, id)
	items := []string{"<<Districts served>>"}
	switch {
	case r.AllLocalAreas:
		items = append(items, "All local areas")
	case len(r.DistrictParks) == 0:
		return "<<No districts served!>>"
	default:
		items = append(items, s.sortedDistrictParkNames(r.DistrictParks)...)
	}
	return strings.Join(items, "\n")
}

// SupplyDestinationsText summarizes where the output channel ch of id ships.
func (s *Store) SupplyDestinationsText(ch ir.Channel, id ir.BuildingID) string {
	if id == 0 {
		return ""
	}
	return s.supplyText(
		s.Restriction(ir.Output, ch, id),
		s.SupplyDestinations(id),
		"<<Supply Chain Shipments To>>",
		"<<WARNING: No supply chain shipments output!>>",
	)
}

// SupplySourcesText summarizes where the input channel ch of id accepts
// shipments from.
func (s *Store) SupplySourcesText(ch ir.Channel, id ir.BuildingID) string {
	if id == 0 {
		return ""
	}
	return s.supplyText(
		s.Restriction(ir.Input, ch, id),
		s.SupplySources(id),
		"<<Supply Chain Shipments From>>",
		"<<WARNING: No supply chain shipments accepted!>>",
	)
}

// supplyText renders the flags, then the linked buildings, then the districts.
// All local areas dominates the lists, which are then not shown.
func (s *Store) supplyText(r Restriction, linked []ir.BuildingID, header, empty string) string {
	items := []string{header}
	if r.AllLocalAreas {
		items = append(items, "All local areas")
	}
	if r.OutsideConnections {
		items = append(items, "All outside connections")
	}
	if r.AllLocalAreas {
		return strings.Join(items, "\n")
	}

	items = append(items, s.sortedBuildingLabels(linked)...)
	for _, name := range s.sortedDistrictParkNames(r.DistrictParks) {
		items = append(items, name+" (DISTRICT)")
	}
	if len(items) == 1 {
		return empty
	}
	return strings.Join(items, "\n")
}

// DistrictParkText names the home district (or park) of id.
func (s *Store) DistrictParkText(id ir.BuildingID) string {
	if id == 0 {
		return ""
	}
	refs := s.location(id).Refs()
	if len(refs) == 0 {
		return "Home district: (Not in a district)"
	}
	return "Home district: " + s.districtParkName(refs[0])
}

// SupplyProblems lists the input materials of a processing facility that no
// building in the city can currently deliver under the active restrictions.
// It is nil for every other building, including processing facilities that
// are not supply-chain buildings.
func (s *Store) SupplyProblems(id ir.BuildingID) []ir.Material {
	f, ok := s.classifier.Facts(id)
	if !ok || f.AI != ir.AIProcessingFacility {
		return nil
	}
	if !s.classifier.IsSupplyChain(id) {
		return nil
	}

	var missing []ir.Material
	for _, m := range f.InputResources {
		if m == ir.MaterialNone {
			continue
		}
		if !s.hasFeasibleSupplier(id, m) {
			missing = append(missing, m)
		}
	}
	return missing
}

// SupplyProblemsText joins SupplyProblems with commas.
func (s *Store) SupplyProblemsText(id ir.BuildingID) string {
	missing := s.SupplyProblems(id)
	names := make([]string, len(missing))
	for i, m := range missing {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

// hasFeasibleSupplier assumes outside connections can always deliver.
func (s *Store) hasFeasibleSupplier(id ir.BuildingID, m ir.Material) bool {
	inputs := s.ActiveChannels(ir.Input, id)
	for _, ch := range inputs {
		if s.OutsideConnections(ir.Input, ch, id) {
			return true
		}
	}

	home := s.location(id)
	inputOpen := false
	for _, ch := range inputs {
		inputOpen = inputOpen || s.AllLocalAreas(ir.Input, ch, id)
	}

	for b := 1; b < len(s.slots); b++ {
		src := ir.BuildingID(b)
		if src == id || !s.classifier.IsSupplyChain(src) || s.classifier.OutputMaterial(src) != m {
			continue
		}
		if s.HasSupplyEdge(src, id) {
			return true
		}
		if !inputOpen && !s.servesAny(ir.Input, inputs, id, s.location(src)) {
			continue
		}
		for _, ch := range s.ActiveChannels(ir.Output, src) {
			if s.AllLocalAreas(ir.Output, ch, src) || s.ServesLocation(ir.Output, ch, src, home) {
				return true
			}
		}
	}
	return false
}

func (s *Store) servesAny(dir ir.Direction, channels []ir.Channel, id ir.BuildingID, loc ir.Location) bool {
	for _, ch := range channels {
		if s.ServesLocation(dir, ch, id, loc) {
			return true
		}
	}
	return false
}
