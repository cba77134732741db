package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eds/internal/snapshot"
	"github.com/roach88/eds/internal/testutil"
)

// writeReserveSnapshot writes a snapshot in which Coal Storage keeps 40%.
func writeReserveSnapshot(t *testing.T) string {
	t.Helper()
	st := testutil.NewStore(t, testutil.NewCity(t))
	require.True(t, st.SetInternalSupplyReserve(testutil.CoalStorage, 40))
	path := filepath.Join(t.TempDir(), "save.json")
	_, err := writeSnapshotFile(path, snapshot.Capture(st))
	require.NoError(t, err)
	return path
}

func TestInspectBuilding(t *testing.T) {
	out, err := execute(t, "inspect", testutil.WriteCityDir(t), "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Building 2: Coal Storage")
	assert.Contains(t, out, "Building Type: Supply Chain")
	assert.Contains(t, out, "[2] Coal Storage")
	assert.Contains(t, out, "reserve=100")
	assert.NotContains(t, out, "[3]")
}

func TestInspectBuildingJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "inspect", testutil.WriteCityDir(t), "4")
	require.NoError(t, err)

	resp, result := decodeResponse[InspectResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.EqualValues(t, 4, result.Building)
	assert.Equal(t, "Post Office", result.Name)
	assert.Contains(t, result.Capabilities, "two_outputs")
	assert.Contains(t, result.Summary, "[4] Post Office")
}

func TestInspectWithSnapshot(t *testing.T) {
	out, err := execute(t, "inspect", testutil.WriteCityDir(t), "2", "--snapshot", writeReserveSnapshot(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Restored")
	assert.Contains(t, out, "reserve=40")
}

func TestInspectErrors(t *testing.T) {
	dir := testutil.WriteCityDir(t)
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"not a number", []string{"inspect", dir, "two"}, ErrCodeUnknownBuild},
		{"unknown building", []string{"inspect", dir, "99"}, ErrCodeUnknownBuild},
		{"missing snapshot", []string{"inspect", dir, "2", "--snapshot", filepath.Join(dir, "none.json")}, ErrCodeSnapshot},
		{"missing city", []string{"inspect", filepath.Join(dir, "none"), "2"}, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}
