package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/eds/internal/store"
)

// StoreFlags selects the snapshot database. With neither flag set the
// backend comes from EDS_STORAGE_DRIVER, EDS_SQLITE_PATH and
// EDS_POSTGRES_DSN.
type StoreFlags struct {
	Database string
	Postgres string
}

func (s *StoreFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&s.Database, "db", "", "path to SQLite database")
	flags.StringVar(&s.Postgres, "postgres", "", "PostgreSQL DSN (overrides --db)")
}

// Config resolves the flags against the environment.
func (s *StoreFlags) Config() store.Config {
	switch {
	case s.Postgres != "":
		return store.Config{Driver: store.DriverPostgres, PostgresDSN: s.Postgres}
	case s.Database != "":
		return store.Config{Driver: store.DriverSQLite, SQLitePath: s.Database}
	default:
		return store.ConfigFromEnv()
	}
}

func (s *StoreFlags) open(ctx context.Context, f *OutputFormatter) (*store.Store, error) {
	cfg := s.Config()
	f.VerboseLog("Opening %s snapshot store", driverName(cfg.Driver))
	db, err := store.OpenConfig(ctx, cfg)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeStorage, err.Error())
	}
	return db, nil
}

func driverName(d store.Driver) string {
	if d == "" {
		return string(store.DriverSQLite)
	}
	return string(d)
}

// SnapshotResult describes one stored snapshot.
type SnapshotResult struct {
	store.Snapshot
	Inserted bool   `json:"inserted"`
	File     string `json:"file,omitempty"`
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &StoreFlags{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and fetch snapshot files in a database",
		Long: `Keep snapshot files in SQLite or PostgreSQL, keyed by name.

Saving content already stored under the same name is a no-op. Loading
returns the newest snapshot for a name.

Examples:
  eds snapshot save --db ./eds.db riverside ./save.json
  eds snapshot load --postgres "$DSN" riverside ./restored.json
  eds snapshot list --db ./eds.db`,
	}
	flags.register(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:           "save <name> <file>",
		Short:         "Store a snapshot file under a name",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(commandContext(cmd), flags, rootOpts.formatter(cmd), args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "load <name> <file>",
		Short:         "Write the newest snapshot stored under a name to a file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotLoad(commandContext(cmd), flags, rootOpts.formatter(cmd), args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "list [name]",
		Short:         "List stored snapshots",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runSnapshotList(commandContext(cmd), flags, rootOpts.formatter(cmd), name)
		},
	})

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runSnapshotSave(ctx context.Context, flags *StoreFlags, f *OutputFormatter, name, file string) error {
	rec, _, err := readSnapshotFile(file)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeSnapshot, err.Error())
	}
	db, err := flags.open(ctx, f)
	if err != nil {
		return err
	}
	defer db.Close()

	snap, inserted, err := db.SaveSnapshot(ctx, name, rec)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStorage, err.Error())
	}

	result := SnapshotResult{Snapshot: snap, Inserted: inserted, File: file}
	if f.isJSON() {
		return f.Success(result)
	}
	if inserted {
		f.Textf("✓ Saved %s as %s #%d (%s)", file, name, snap.Seq, snap.ContentHash)
	} else {
		f.Textf("✓ %s already stored as %s #%d (%s)", file, name, snap.Seq, snap.ContentHash)
	}
	return nil
}

func runSnapshotLoad(ctx context.Context, flags *StoreFlags, f *OutputFormatter, name, file string) error {
	db, err := flags.open(ctx, f)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, snap, err := db.LoadSnapshot(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return f.fail(ExitFailure, ErrCodeNotFound, err.Error())
	}
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStorage, err.Error())
	}
	if _, err := writeSnapshotFile(file, rec); err != nil {
		return f.fail(ExitCommandError, ErrCodeWriteFailed, err.Error())
	}

	result := SnapshotResult{Snapshot: snap, File: file}
	if f.isJSON() {
		return f.Success(result)
	}
	f.Textf("✓ Wrote %s #%d to %s", name, snap.Seq, file)
	return nil
}

func runSnapshotList(ctx context.Context, flags *StoreFlags, f *OutputFormatter, name string) error {
	db, err := flags.open(ctx, f)
	if err != nil {
		return err
	}
	defer db.Close()

	snaps, err := db.ListSnapshots(ctx, name)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStorage, err.Error())
	}
	if f.isJSON() {
		if snaps == nil {
			snaps = []store.Snapshot{}
		}
		return f.Success(snaps)
	}
	if len(snaps) == 0 {
		f.Textf("No snapshots found.")
		return nil
	}
	for _, snap := range snaps {
		f.Textf("%4d  %-20s %s  %s", snap.Seq, snap.Name, snap.Version, snap.ContentHash)
	}
	return nil
}
