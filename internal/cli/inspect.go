package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/harness"
	"github.com/roach88/eds/internal/ir"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Snapshot string
}

// InspectResult describes one building.
type InspectResult struct {
	Building     ir.BuildingID `json:"building"`
	Name         string        `json:"name"`
	Capabilities []string      `json:"capabilities"`
	InputTypes   string        `json:"input_types"`
	Services     string        `json:"services"`
	Restored     int           `json:"restored,omitempty"`
	Summary      string        `json:"summary"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <city-dir> <building-id>",
		Short: "Show the classification and policy of one building",
		Long: `Build the constraint store for a city, optionally restore a snapshot
file into it, and print what is known about one building.

Examples:
  eds inspect ./city 2
  eds inspect ./city 2 --snapshot ./save.json --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(commandContext(cmd), opts, rootOpts.formatter(cmd), args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "snapshot file to restore first")
	return cmd
}

func runInspect(ctx context.Context, opts *InspectOptions, f *OutputFormatter, dir, rawID string) error {
	id, err := ir.ParseBuildingID(rawID)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeUnknownBuild, err.Error())
	}
	loaded, err := loadCityOrFail(f, dir)
	if err != nil {
		return err
	}
	if _, ok := loaded.City.Facts(id); !ok {
		return f.fail(ExitCommandError, ErrCodeUnknownBuild, fmt.Sprintf("building %d is not in the city", id))
	}

	s := harness.NewSession(loaded.City, harness.WithLogger(opts.logger(f.GetErrWriter())))
	defer s.Close()

	result := InspectResult{Building: id}
	if opts.Snapshot != "" {
		rec, _, err := readSnapshotFile(opts.Snapshot)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeSnapshot, err.Error())
		}
		if result.Restored, err = s.Restore(ctx, rec); err != nil {
			return WrapExitError(ExitCommandError, "restore snapshot", err)
		}
	}

	cl := loaded.City.Classifier()
	result.Name = cl.Name(id)
	result.Capabilities = cl.Capabilities(id).Names()
	result.InputTypes = cl.InputTypeText(id)
	result.Services = cl.ServicesText(id)
	err = s.Engine.Query(ctx, func(st *constraint.Store) {
		result.Summary = harness.Summarize(st, []ir.BuildingID{id})
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "query store", err)
	}

	if f.isJSON() {
		return f.Success(result)
	}
	f.Textf("Building %d: %s", id, result.Name)
	f.Textf("%s", result.InputTypes)
	if result.Services != "" {
		f.Textf("%s", result.Services)
	}
	if opts.Snapshot != "" {
		f.Textf("Restored %d building(s) from %s", result.Restored, opts.Snapshot)
	}
	f.Textf("%s", result.Summary)
	return nil
}
