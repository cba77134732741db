package city

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eds/internal/ir"
)

const smallCity = `
city: {
	name: "Smallville"
	districts: [{id: 3, name: "Uptown"}]
	parks: [{id: 2, name: "Zoo"}]
	buildings: [
		{id: 7, name: "Coal Plant", service: "Electricity", ai: "PowerPlantAI", district: 3},
		{id: 9, name: "Post Office", service: "PublicTransport", sub_service: "PublicTransportPost", ai: "PostOffice", park: 2, created: false},
	]
}
`

func TestCompileSourceBasic(t *testing.T) {
	c, err := CompileSource("small.cue", smallCity)
	require.NoError(t, err)

	assert.Equal(t, "Smallville", c.Name)
	assert.True(t, c.Settings.IndustriesControl, "settings default when absent")
	assert.False(t, c.Settings.SelectOutsideConnections)
	assert.Equal(t, []ir.BuildingID{7, 9}, c.BuildingIDs())

	f, ok := c.Facts(7)
	require.True(t, ok)
	assert.Equal(t, "Coal Plant", f.Name)
	assert.Equal(t, ir.Electricity, f.Service)
	assert.Equal(t, ir.AIPowerPlant, f.AI)
	assert.Equal(t, 1, f.Level)
	assert.True(t, f.Created)
	assert.Equal(t, ir.Location{District: 3}, f.Location)

	f, ok = c.Facts(9)
	require.True(t, ok)
	assert.False(t, f.Created)
	assert.Equal(t, ir.PublicTransportPost, f.SubService)
	assert.Equal(t, ir.Location{Park: 2}, f.Location)
}

func TestCompileSourceErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"missing city", `other: 1`, "city"},
		{"missing building id", `city: buildings: [{name: "x", service: "Water"}]`, "id"},
		{"building id zero", `city: buildings: [{id: 0, service: "Water"}]`, "buildings.id"},
		{"building id too large", `city: buildings: [{id: 49152, service: "Water"}]`, "buildings.id"},
		{"unknown service", `city: buildings: [{id: 1, service: "Teleport"}]`, "service"},
		{"unknown ai", `city: buildings: [{id: 1, service: "Water", ai: "Robot"}]`, "ai"},
		{"unknown input", `city: buildings: [{id: 1, service: "PlayerIndustry", inputs: ["Unobtainium"]}]`, "buildings.inputs"},
		{"too many inputs", `city: buildings: [{id: 1, service: "PlayerIndustry", inputs: ["Oil", "Ore", "Logs", "Grain", "Fish"]}]`, "buildings.inputs"},
		{"duplicate building", `city: buildings: [{id: 1, service: "Water"}, {id: 1, service: "Water"}]`, "buildings"},
		{"district out of range", `city: districts: [{id: 256, name: "x"}]`, "districts.id"},
		{"park zero", `city: parks: [{id: 0, name: "x"}]`, "parks.id"},
		{"bad location", `city: buildings: [{id: 1, service: "Water", district: 300}]`, "buildings.location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileSource("bad.cue", tt.src)
			require.Error(t, err)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileSourceSyntaxErrorHasPosition(t *testing.T) {
	_, err := CompileSource("broken.cue", "city: {\n\tname: \n")
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "cue", ce.Field)
	assert.True(t, ce.Pos.IsValid())
	assert.Contains(t, ce.Error(), "broken.cue:")
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "service", Message: "unknown"}
	assert.Equal(t, "service: unknown", err.Error())
}

func TestLoadDir(t *testing.T) {
	c, files, err := LoadDir(filepath.Join("testdata", "riverside"))
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Equal(t, "Riverside", c.Name)
	assert.True(t, c.Settings.SelectOutsideConnections)
	assert.Len(t, c.BuildingIDs(), 4)

	f, ok := c.Facts(3)
	require.True(t, ok)
	assert.True(t, f.AcceptsInput(ir.Oil))
	assert.Equal(t, ir.Petroleum, f.OutputResource)
	assert.Equal(t, ir.Location{District: 2, Park: 1}, f.Location)

	assert.Empty(t, Validate(c))
}

func TestLoadDirErrors(t *testing.T) {
	_, _, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	empty := t.TempDir()
	_, _, err = LoadDir(empty)
	assert.ErrorIs(t, err, ErrNoFiles)

	file := filepath.Join(empty, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, _, err = LoadDir(file)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry(t *testing.T) {
	c := New("t")
	require.NoError(t, c.AddDistrict(1, "Downtown"))
	require.NoError(t, c.AddPark(4, "Central Park"))
	assert.Error(t, c.AddDistrict(0, "nope"))
	assert.Error(t, c.AddPark(0, "nope"))

	assert.True(t, c.DistrictParkExists(ir.FromDistrict(1)))
	assert.True(t, c.DistrictParkExists(ir.FromPark(4)))
	assert.False(t, c.DistrictParkExists(ir.FromDistrict(2)))
	assert.False(t, c.DistrictParkExists(ir.DistrictPark{}))

	assert.Equal(t, "Downtown", c.DistrictParkName(ir.FromDistrict(1)))
	assert.Equal(t, "Central Park", c.DistrictParkName(ir.FromPark(4)))
	assert.Equal(t, ir.FromDistrict(9).String(), c.DistrictParkName(ir.FromDistrict(9)))

	assert.Equal(t, []ir.DistrictPark{ir.FromDistrict(1), ir.FromPark(4)}, c.DistrictParks())
}

func TestRemoveDistrictParkClearsLocation(t *testing.T) {
	c := New("t")
	require.NoError(t, c.AddDistrict(1, "Downtown"))
	require.NoError(t, c.AddPark(2, "Zoo"))
	require.NoError(t, c.AddBuilding(5, ir.BuildingFacts{
		Name:     "Clinic",
		Service:  ir.HealthCare,
		Location: ir.Location{District: 1, Park: 2},
	}))

	assert.True(t, c.RemoveDistrictPark(ir.FromDistrict(1)))
	assert.False(t, c.RemoveDistrictPark(ir.FromDistrict(1)))

	assert.Equal(t, ir.Location{Park: 2}, c.Location(5))
	f, ok := c.Facts(5)
	require.True(t, ok)
	assert.Equal(t, ir.Location{Park: 2}, f.Location)
}

func TestBuildingLifecycle(t *testing.T) {
	c := New("t")
	require.NoError(t, c.AddBuilding(3, ir.BuildingFacts{Name: "Depot", Service: ir.Road}))
	assert.Error(t, c.AddBuilding(3, ir.BuildingFacts{}))
	assert.Error(t, c.AddBuilding(0, ir.BuildingFacts{}))
	assert.Equal(t, "Depot", c.BuildingName(3))

	assert.True(t, c.UpdateBuilding(3, func(f *ir.BuildingFacts) { f.Downgrading = true }))
	f, _ := c.Facts(3)
	assert.True(t, f.Downgrading)
	assert.False(t, c.UpdateBuilding(4, func(*ir.BuildingFacts) {}))

	assert.True(t, c.RemoveBuilding(3))
	assert.False(t, c.RemoveBuilding(3))
	_, ok := c.Facts(3)
	assert.False(t, ok)
	assert.Equal(t, "", c.BuildingName(3))
	assert.Equal(t, ir.Location{}, c.Location(3))
}

func TestClassifierUsesCitySettings(t *testing.T) {
	c, err := CompileSource("c.cue", `
city: {
	settings: industries_control: false
	buildings: [{id: 1, service: "PlayerIndustry", ai: "ExtractingFacility", output: "Oil"}]
}`)
	require.NoError(t, err)
	assert.False(t, c.Classifier().IsSupplyChain(1))

	c.Settings.IndustriesControl = true
	assert.True(t, c.Classifier().IsSupplyChain(1))
}

func TestValidate(t *testing.T) {
	c, err := CompileSource("v.cue", `
city: {
	districts: [{id: 1, name: "Downtown"}]
	buildings: [
		{id: 1, service: "Water", district: 2},
		{id: 2, service: "PlayerIndustry", ai: "ProcessingFacility", park: 5},
		{id: 3, service: "PlayerIndustry", ai: "Warehouse"},
		{id: 4, service: "Road", ai: "OutsideConnection"},
		{id: 5},
		{id: 6, service: "PlayerIndustry", ai: "ExtractingFacility"},
	]
}`)
	require.NoError(t, err)

	errs := Validate(c)
	var codes []string
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{
		ErrUnknownDistrict,
		ErrUnknownPark, ErrProcessingNoInputs, ErrProducerNoOutput,
		ErrWarehouseNoMaterial,
		ErrOutsideNoNetService,
		ErrMissingService,
		ErrProducerNoOutput,
	}, codes)
	assert.Equal(t, "[E101] building 1: district: district 2 is not registered", errs[0].Error())
}
