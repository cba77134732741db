package city

import (
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/eds/internal/classify"
	"github.com/roach88/eds/internal/ir"
)

// City is a mutable host model. It is safe for concurrent use.
type City struct {
	Name     string
	Settings classify.Settings

	mu        sync.RWMutex
	buildings map[ir.BuildingID]ir.BuildingFacts
	districts map[uint8]string
	parks     map[uint8]string
}

// New creates an empty city with default settings.
func New(name string) *City {
	return &City{
		Name:      name,
		Settings:  classify.DefaultSettings(),
		buildings: make(map[ir.BuildingID]ir.BuildingFacts),
		districts: make(map[uint8]string),
		parks:     make(map[uint8]string),
	}
}

// AddDistrict registers district id. Id 0 is "no district" and is rejected.
func (c *City) AddDistrict(id uint8, name string) error {
	if id == 0 {
		return fmt.Errorf("district id 0 is reserved")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.districts[id] = name
	return nil
}

// AddPark registers park id. Id 0 is "no park" and is rejected.
func (c *City) AddPark(id uint8, name string) error {
	if id == 0 {
		return fmt.Errorf("park id 0 is reserved")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parks[id] = name
	return nil
}

// RemoveDistrictPark unregisters ref. Buildings keep their stored location;
// the host would re-resolve it, here Location stops reporting the removed
// area. Reports whether ref existed.
func (c *City) RemoveDistrictPark(ref ir.DistrictPark) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case ref.IsDistrict():
		if _, ok := c.districts[ref.District()]; ok {
			delete(c.districts, ref.District())
			return true
		}
	case ref.IsPark():
		if _, ok := c.parks[ref.Park()]; ok {
			delete(c.parks, ref.Park())
			return true
		}
	}
	return false
}

// AddBuilding places a building. Id 0 and ids past MaxBuildingCount are
// rejected, as is an id that is already taken.
func (c *City) AddBuilding(id ir.BuildingID, f ir.BuildingFacts) error {
	if id == 0 || int(id) >= ir.MaxBuildingCount {
		return fmt.Errorf("building id %d out of range", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.buildings[id]; ok {
		return fmt.Errorf("building %d already exists", id)
	}
	c.buildings[id] = f
	return nil
}

// RemoveBuilding deletes a building. Reports whether it existed.
func (c *City) RemoveBuilding(id ir.BuildingID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.buildings[id]; !ok {
		return false
	}
	delete(c.buildings, id)
	return true
}

// UpdateBuilding replaces the facts of an existing building, e.g. when it
// starts downgrading.
func (c *City) UpdateBuilding(id ir.BuildingID, update func(*ir.BuildingFacts)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.buildings[id]
	if !ok {
		return false
	}
	update(&f)
	c.buildings[id] = f
	return true
}

// BuildingIDs lists every building in ascending id order.
func (c *City) BuildingIDs() []ir.BuildingID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedBuildingIDs()
}

func (c *City) sortedBuildingIDs() []ir.BuildingID {
	ids := make([]ir.BuildingID, 0, len(c.buildings))
	for id := range c.buildings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DistrictParks lists every registered district then every park, each in id
// order.
func (c *City) DistrictParks() []ir.DistrictPark {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var refs []ir.DistrictPark
	for _, id := range sortedKeys(c.districts) {
		refs = append(refs, ir.FromDistrict(id))
	}
	for _, id := range sortedKeys(c.parks) {
		refs = append(refs, ir.FromPark(id))
	}
	return refs
}

func sortedKeys(m map[uint8]string) []uint8 {
	keys := make([]uint8, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Classifier returns a classifier over this city with its settings.
func (c *City) Classifier() *classify.Classifier {
	return classify.New(c, c.Settings)
}

// Facts implements classify.Facts.
func (c *City) Facts(id ir.BuildingID) (ir.BuildingFacts, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.buildings[id]
	if ok {
		f.Location = c.resolve(f.Location)
	}
	return f, ok
}

// resolve drops parts of loc naming areas that no longer exist.
func (c *City) resolve(loc ir.Location) ir.Location {
	if _, ok := c.districts[loc.District]; !ok {
		loc.District = 0
	}
	if _, ok := c.parks[loc.Park]; !ok {
		loc.Park = 0
	}
	return loc
}

// DistrictParkExists implements constraint.Registry.
func (c *City) DistrictParkExists(ref ir.DistrictPark) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case ref.IsDistrict():
		_, ok := c.districts[ref.District()]
		return ok
	case ref.IsPark():
		_, ok := c.parks[ref.Park()]
		return ok
	}
	return false
}

// DistrictParkName implements constraint.Registry. Unknown references render
// as their identity.
func (c *City) DistrictParkName(ref ir.DistrictPark) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var (
		name string
		ok   bool
	)
	switch {
	case ref.IsDistrict():
		name, ok = c.districts[ref.District()]
	case ref.IsPark():
		name, ok = c.parks[ref.Park()]
	}
	if !ok {
		return ref.String()
	}
	return name
}

// BuildingName implements constraint.Registry.
func (c *City) BuildingName(id ir.BuildingID) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buildings[id].Name
}

// Location implements constraint.Registry.
func (c *City) Location(id ir.BuildingID) ir.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.buildings[id]
	if !ok {
		return ir.Location{}
	}
	return c.resolve(f.Location)
}
