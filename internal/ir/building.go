package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxBuildingCount is the size of the host's building table. Every id in
// [0, MaxBuildingCount) owns a constraint slot whether or not a building
// currently exists there.
const MaxBuildingCount = 49152

// BuildingID is a dense index into the host's building table.
type BuildingID uint16

// ParseBuildingID parses a decimal building id and checks it against
// MaxBuildingCount.
func ParseBuildingID(s string) (BuildingID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid building id %q: %w", s, err)
	}
	if n >= MaxBuildingCount {
		return 0, fmt.Errorf("building id %d out of range [0, %d)", n, MaxBuildingCount)
	}
	return BuildingID(n), nil
}

// Direction selects the incoming or outgoing side of a building's policy.
type Direction uint8

const (
	// Input restricts where a building accepts goods or services from.
	Input Direction = iota
	// Output restricts where a building ships goods or provides services to.
	Output
)

// String returns "input" or "output".
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "in", "incoming":
		return Input, nil
	case "output", "out", "outgoing":
		return Output, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Channel is one of the two independent logical streams per direction.
// Most buildings only use ChannelA.
type Channel uint8

const (
	ChannelA Channel = iota
	ChannelB
)

// ChannelCount is the number of channels per direction.
const ChannelCount = 2

// Channels lists every channel in index order.
var Channels = [ChannelCount]Channel{ChannelA, ChannelB}

// Directions lists both directions in index order.
var Directions = [2]Direction{Input, Output}

// String returns "A" or "B".
func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	default:
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
}

// Valid reports whether c indexes a real channel.
func (c Channel) Valid() bool {
	return c < ChannelCount
}

// ParseChannel accepts "A"/"B" (case-insensitive) or "1"/"2".
func ParseChannel(s string) (Channel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "1", "":
		return ChannelA, nil
	case "B", "2":
		return ChannelB, nil
	default:
		return 0, fmt.Errorf("unknown channel %q", s)
	}
}
