package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildingID(t *testing.T) {
	id, err := ParseBuildingID(" 1234 ")
	require.NoError(t, err)
	assert.Equal(t, BuildingID(1234), id)

	_, err = ParseBuildingID("49152")
	assert.Error(t, err, "MaxBuildingCount itself is out of range")

	_, err = ParseBuildingID("-1")
	assert.Error(t, err)

	_, err = ParseBuildingID("abc")
	assert.Error(t, err)
}

func TestParseDirectionAndChannel(t *testing.T) {
	d, err := ParseDirection("outgoing")
	require.NoError(t, err)
	assert.Equal(t, Output, d)
	assert.Equal(t, "output", d.String())

	d, err = ParseDirection("IN")
	require.NoError(t, err)
	assert.Equal(t, Input, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	c, err := ParseChannel("b")
	require.NoError(t, err)
	assert.Equal(t, ChannelB, c)
	assert.Equal(t, "B", c.String())

	c, err = ParseChannel("")
	require.NoError(t, err)
	assert.Equal(t, ChannelA, c, "channel defaults to A")

	_, err = ParseChannel("C")
	assert.Error(t, err)
	assert.False(t, Channel(2).Valid())
}
