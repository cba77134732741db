package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eds/internal/city"
	"github.com/roach88/eds/internal/testutil"
)

const brokenCity = `package broken

city: {
	name: "Broken"
	districts: [{id: 1, name: "One"}]
	buildings: [
		{id: 1, name: "Empty Store", service: "PlayerIndustry", sub_service: "PlayerIndustryOre", ai: "Warehouse", district: 1},
		{id: 2, name: "Lost Station", service: "FireDepartment", ai: "FireStation", district: 4},
	]
}
`

func writeCUE(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "city.cue"), []byte(src), 0o644))
	return dir
}

func TestValidateCity(t *testing.T) {
	out, err := execute(t, "validate", testutil.WriteCityDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ City valid: 11 building(s), 3 district(s), 1 park(s)")
	assert.Contains(t, out, "district_service")
	assert.Contains(t, out, "outside_road")
}

func TestValidateCityJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", testutil.WriteCityDir(t))
	require.NoError(t, err)

	resp, result := decodeResponse[ValidationResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 11, result.Buildings)
	assert.Equal(t, 7, result.Capabilities["district_service"])
	assert.Equal(t, 5, result.Capabilities["supply_chain"])
	assert.Equal(t, 1, result.Capabilities["outside"])
	assert.Empty(t, result.Errors)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	out, err := execute(t, "validate", writeCUE(t, brokenCity))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, city.ErrWarehouseNoMaterial)
	assert.Contains(t, out, city.ErrUnknownDistrict)
}

func TestValidateReportsEveryProblemJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", writeCUE(t, brokenCity))
	require.Error(t, err)

	resp, result := decodeResponse[ValidationResult](t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, city.ErrWarehouseNoMaterial, resp.Error.Code)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}

func TestValidateLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
		code string
	}{
		{"missing directory", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nowhere") }, ErrCodeNotFound},
		{"no CUE files", func(t *testing.T) string { return t.TempDir() }, ErrCodeNoFiles},
		{"bad building id", func(t *testing.T) string {
			return writeCUE(t, "package bad\n\ncity: buildings: [{id: 0, service: \"Road\"}]\n")
		}, ErrCodeCityField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "validate", tt.dir(t))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestConvertLoadError(t *testing.T) {
	_, err := LoadCity(filepath.Join(t.TempDir(), "missing"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, loadErr.Error(), "E005: city directory not found")

	res, err := LoadCity(testutil.WriteCityDir(t))
	require.NoError(t, err)
	assert.Equal(t, 1, res.FileCount)
	assert.Equal(t, "Riverside", res.City.Name)
}
