package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/eds/internal/engine"
	"github.com/roach88/eds/internal/harness"
	"github.com/roach88/eds/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Store    StoreFlags
	Snapshot string // snapshot file restored before the first step
	Save     string // store the final snapshot under this name
	Out      string // write the final snapshot to this file

	// IDGenerator overrides the engine's command ids (for testing).
	IDGenerator engine.IDGenerator
}

// RunResult reports a script run.
type RunResult struct {
	Steps  []harness.StepResult `json:"steps"`
	Failed int                  `json:"failed"`
	Saved  *store.Snapshot      `json:"saved,omitempty"`
	Out    string               `json:"out,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <city-dir> <script.yaml>",
		Short: "Apply a command script to a city",
		Long: `Build the constraint store for a city and apply a YAML script of steps
through the engine, one at a time. Scripts use the same step vocabulary
as test scenarios, without assertions.

The final state can be written to a snapshot file (--out) or stored in
the snapshot database (--save). save_snapshot steps use the database when
--db, --postgres or --save is given and stay in memory otherwise.

Exit codes:
  0 - every step succeeded
  1 - one or more steps failed
  2 - command error

Examples:
  eds run ./city ./script.yaml
  eds run ./city ./script.yaml --snapshot ./save.json --out ./after.json
  eds run ./city ./script.yaml --db ./eds.db --save riverside`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(commandContext(cmd), opts, rootOpts.formatter(cmd), args[0], args[1])
		},
	}

	opts.Store.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "snapshot file to restore before the first step")
	cmd.Flags().StringVar(&opts.Save, "save", "", "store the final snapshot under this name")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the final snapshot to this file")

	return cmd
}

func (o *RunOptions) usesDatabase() bool {
	return o.Save != "" || o.Store.Database != "" || o.Store.Postgres != ""
}

func runScript(ctx context.Context, opts *RunOptions, f *OutputFormatter, cityDir, scriptPath string) error {
	loaded, err := loadCityOrFail(f, cityDir)
	if err != nil {
		return err
	}
	script, err := harness.LoadScript(scriptPath)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeScript, err.Error())
	}

	logger := opts.logger(f.GetErrWriter())
	sessionOpts := []harness.SessionOption{harness.WithLogger(logger)}
	if opts.IDGenerator != nil {
		sessionOpts = append(sessionOpts, harness.WithIDGenerator(opts.IDGenerator))
	}
	var db *store.Store
	if opts.usesDatabase() {
		if db, err = opts.Store.open(ctx, f); err != nil {
			return err
		}
		defer db.Close()
		sessionOpts = append(sessionOpts, harness.WithSnapshotStore(db))
	}

	s := harness.NewSession(loaded.City, sessionOpts...)
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("engine stopped with error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Snapshot != "" {
		rec, id, err := readSnapshotFile(opts.Snapshot)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeSnapshot, err.Error())
		}
		n, err := s.Restore(ctx, rec)
		if err != nil {
			return WrapExitError(ExitCommandError, "restore snapshot", err)
		}
		logger.Info("snapshot restored", "file", opts.Snapshot, "record", id, "buildings", n)
	}

	result := RunResult{Steps: make([]harness.StepResult, 0, len(script.Steps))}
	for i, step := range script.Steps {
		res, err := s.Apply(ctx, i, step)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("step %d (%s)", i, step.Op), err)
		}
		result.Steps = append(result.Steps, res)
		if res.Error != "" {
			result.Failed++
			f.Textf("✗ [%d] %s: %s", i, res.Op, res.Error)
			continue
		}
		f.Textf("✓ [%d] %s applied=%t%s", i, res.Op, res.Applied, valueSuffix(res.Value))
	}

	if opts.Save != "" || opts.Out != "" {
		rec, err := s.Capture(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "capture snapshot", err)
		}
		if opts.Out != "" {
			if _, err := writeSnapshotFile(opts.Out, rec); err != nil {
				return f.fail(ExitCommandError, ErrCodeWriteFailed, err.Error())
			}
			result.Out = opts.Out
			f.Textf("Wrote final snapshot to %s", opts.Out)
		}
		if opts.Save != "" {
			snap, inserted, err := db.SaveSnapshot(ctx, opts.Save, rec)
			if err != nil {
				return f.fail(ExitCommandError, ErrCodeStorage, err.Error())
			}
			result.Saved = &snap
			logger.Info("final snapshot stored",
				slog.String("name", opts.Save),
				slog.Int64("seq", snap.Seq),
				slog.Bool("inserted", inserted))
			f.Textf("Stored final snapshot as %s #%d (%s)", opts.Save, snap.Seq, snap.ContentHash)
		}
	}

	msg := fmt.Sprintf("%d of %d step(s) failed", result.Failed, len(result.Steps))
	if f.isJSON() {
		if result.Failed > 0 {
			if err := f.Failure("E_STEP_FAILED", msg, result); err != nil {
				return err
			}
		} else if err := f.Success(result); err != nil {
			return err
		}
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, msg)
	}
	f.Textf("✓ %d step(s) applied", len(result.Steps))
	return nil
}

func valueSuffix(v string) string {
	if v == "" {
		return ""
	}
	return " value=" + v
}
