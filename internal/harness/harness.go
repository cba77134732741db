package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/eds/internal/city"
	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/store"
	"github.com/roach88/eds/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh city, an in-memory snapshot database and
// sequential command ids, so repeated runs are identical. A non-nil error
// means the scenario could not be run at all; step failures and failed
// assertions are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	c, err := LoadCity(scenario.City, scenario.Settings)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer db.Close()

	s := NewSession(c,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithIDGenerator(testutil.NewSequentialIDs("step")),
		WithSnapshotStore(db))
	defer s.Close()

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		res, err := s.Apply(ctx, i, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		result.Steps = append(result.Steps, res)
		if step.Expect != nil {
			if msg := checkStep(res, step.Expect.Applied, step.Expect.Value, step.Expect.Error); msg != "" {
				result.AddError(fmt.Sprintf("step %d (%s): expected %s, got applied=%t value=%q error=%q",
					i, step.Op, msg, res.Applied, res.Value, res.Error))
			}
		}
	}

	var failures []string
	err = s.Engine.Query(ctx, func(st *constraint.Store) {
		failures = EvaluateAssertions(scenario.Assertions, &AssertionContext{
			Store:   st,
			Matcher: s.Matcher,
			Steps:   result.Steps,
		})
		result.Summary = Summarize(st, c.BuildingIDs())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate assertions: %w", err)
	}
	for _, msg := range failures {
		result.AddError(msg)
	}
	return result, nil
}

// LoadCity loads the CUE city in dir and applies any settings override.
func LoadCity(dir string, override *Settings) (*city.City, error) {
	c, _, err := city.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load city: %w", err)
	}
	if override != nil {
		if override.SelectOutsideConnections != nil {
			c.Settings.SelectOutsideConnections = *override.SelectOutsideConnections
		}
		if override.IndustriesControl != nil {
			c.Settings.IndustriesControl = *override.IndustriesControl
		}
	}
	return c, nil
}
