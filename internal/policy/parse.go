package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/eds/internal/ir"
)

// ParseError reports text typed into an edit box that could not be read.
// The state it was meant to change is left as it was.
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Message)
}

// ParseBuildingList reads a comma-separated list of building ids. Spaces
// around ids are ignored. Empty text yields an empty list; an empty element
// ("1,,2") is an error. Repeated ids are kept once, in first-seen order.
func ParseBuildingList(text string) ([]ir.BuildingID, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var (
		ids  []ir.BuildingID
		seen = make(map[ir.BuildingID]bool)
	)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, &ParseError{Input: text, Message: "empty building id"}
		}
		id, err := ir.ParseBuildingID(part)
		if err != nil {
			return nil, &ParseError{Input: text, Message: err.Error()}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ParseAmount reads a non-negative numeric field (reserve, intensity,
// percentage). Empty text asks the caller to redisplay the current value and
// is not an error. Values are not range checked here; the store clamps.
func ParseAmount(text string) (value int, resync bool, err error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, true, nil
	}
	n, perr := strconv.ParseUint(t, 10, 16)
	if perr != nil {
		return 0, false, &ParseError{Input: text, Message: "expected a whole number between 0 and 65535"}
	}
	return int(n), false, nil
}
