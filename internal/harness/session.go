package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/eds/internal/city"
	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/engine"
	"github.com/roach88/eds/internal/match"
	"github.com/roach88/eds/internal/policy"
	"github.com/roach88/eds/internal/snapshot"
	"github.com/roach88/eds/internal/store"
)

// Session wires a city to a constraint store, its collaborators and a running
// engine. Every step goes through the engine queue.
type Session struct {
	City    *city.City
	Store   *constraint.Store
	Fleet   *policy.FleetRegistry
	Cloner  *policy.Cloner
	Matcher *match.Matcher
	Engine  *engine.Engine

	snapshots snapshotVault
	logger    *slog.Logger
	stop      context.CancelFunc
	done      chan error
}

type sessionConfig struct {
	logger    *slog.Logger
	ids       engine.IDGenerator
	metrics   *engine.Metrics
	snapshots *store.Store
}

// SessionOption configures NewSession.
type SessionOption func(*sessionConfig)

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithIDGenerator sets the engine's command id generator.
func WithIDGenerator(g engine.IDGenerator) SessionOption {
	return func(c *sessionConfig) {
		c.ids = g
	}
}

// WithMetrics records engine metrics.
func WithMetrics(m *engine.Metrics) SessionOption {
	return func(c *sessionConfig) {
		c.metrics = m
	}
}

// WithSnapshotStore persists save_snapshot steps in db. Without it snapshots
// live in memory for the life of the session.
func WithSnapshotStore(db *store.Store) SessionOption {
	return func(c *sessionConfig) {
		c.snapshots = db
	}
}

// NewSession builds the store for c, creates every building the way the host
// does when a save without constraint data is loaded, and starts the engine.
// Call Close when done.
func NewSession(c *city.City, opts ...SessionOption) *Session {
	cfg := sessionConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	classifier := c.Classifier()
	st := constraint.New(classifier, c,
		constraint.WithSize(storeSize(c)),
		constraint.WithLogger(cfg.logger))
	for _, id := range c.BuildingIDs() {
		st.CreateBuilding(id)
	}
	fleet := policy.NewFleetRegistry(classifier, cfg.logger)

	engineOpts := []engine.Option{
		engine.WithLogger(cfg.logger),
		engine.WithFleet(fleet),
		engine.WithMetrics(cfg.metrics),
	}
	if cfg.ids != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(cfg.ids))
	}

	s := &Session{
		City:      c,
		Store:     st,
		Fleet:     fleet,
		Cloner:    policy.NewCloner(st, fleet, policy.WithLogger(cfg.logger)),
		Matcher:   match.New(st, match.WithLogger(cfg.logger)),
		Engine:    engine.New(st, engineOpts...),
		snapshots: newSnapshotVault(cfg.snapshots),
		logger:    cfg.logger,
		done:      make(chan error, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go func() {
		s.done <- s.Engine.Run(ctx)
	}()
	return s
}

// storeSize covers every building id in c.
func storeSize(c *city.City) int {
	size := 1
	for _, id := range c.BuildingIDs() {
		size = max(size, int(id)+1)
	}
	return size
}

// Close drains the queue and stops the engine.
func (s *Session) Close() error {
	s.Engine.Stop()
	err := <-s.done
	s.stop()
	return err
}

// Apply runs step and reports what happened. Failures are recorded in the
// result rather than returned; only a closed engine is an error.
func (s *Session) Apply(ctx context.Context, index int, step Step) (StepResult, error) {
	res := StepResult{Index: index, Op: step.Op}
	op, ok := ops[step.Op]
	if !ok {
		res.Error = fmt.Sprintf("unknown op %q", step.Op)
		return res, nil
	}

	out, err := op.run(ctx, s, step.Args)
	res.Applied = out.applied
	res.Value = out.value
	res.Seq = s.Engine.Seq()
	if err != nil {
		if engine.IsQueueClosed(err) {
			return res, err
		}
		res.Error = opErrorText(err)
	}

	s.logger.Debug("step applied",
		"step", index,
		"op", step.Op,
		"applied", res.Applied,
		"value", res.Value,
		"seq", res.Seq)
	return res, nil
}

// opErrorText strips the engine wrapper so results read as the op's own
// failure.
func opErrorText(err error) string {
	var engErr *engine.EngineError
	if errors.As(err, &engErr) && engErr.Err != nil {
		return engErr.Err.Error()
	}
	return err.Error()
}

// mutate runs fn as one engine command and waits for its outcome.
func (s *Session) mutate(ctx context.Context, name string, fn func(*constraint.Store) (outcome, error)) (outcome, error) {
	var out outcome
	err := s.Engine.Do(ctx, name, func(st *constraint.Store) error {
		var err error
		out, err = fn(st)
		return err
	})
	return out, err
}

// barrier waits until every command queued so far has run.
func (s *Session) barrier(ctx context.Context) (outcome, error) {
	if err := s.Engine.Query(ctx, func(*constraint.Store) {}); err != nil {
		return outcome{}, err
	}
	return outcome{applied: true}, nil
}

// Capture snapshots the store in queue order.
func (s *Session) Capture(ctx context.Context) (snapshot.RecordV4, error) {
	var rec snapshot.RecordV4
	err := s.Engine.Query(ctx, func(st *constraint.Store) {
		rec = snapshot.Capture(st)
	})
	return rec, err
}

// Restore applies rec as one engine command and returns the number of
// buildings it covered.
func (s *Session) Restore(ctx context.Context, rec snapshot.RecordV4) (int, error) {
	var n int
	err := s.Engine.Do(ctx, "restore_snapshot", func(st *constraint.Store) error {
		n = snapshot.Restore(st, rec)
		return nil
	})
	return n, err
}

// snapshotVault keeps named snapshots in a database when one is configured
// and in memory otherwise.
type snapshotVault struct {
	db     *store.Store
	memory map[string][]byte
}

func newSnapshotVault(db *store.Store) snapshotVault {
	return snapshotVault{db: db, memory: make(map[string][]byte)}
}

func (v snapshotVault) save(ctx context.Context, name string, rec snapshot.RecordV4) (outcome, error) {
	if v.db != nil {
		snap, inserted, err := v.db.SaveSnapshot(ctx, name, rec)
		if err != nil {
			return outcome{}, err
		}
		return outcome{applied: inserted, value: snap.ContentHash}, nil
	}

	payload, err := snapshot.Encode(rec)
	if err != nil {
		return outcome{}, err
	}
	hash, err := snapshot.Hash(rec)
	if err != nil {
		return outcome{}, err
	}
	v.memory[name] = payload
	return outcome{applied: true, value: hash}, nil
}

func (v snapshotVault) load(ctx context.Context, name string) (snapshot.RecordV4, error) {
	if v.db != nil {
		rec, _, err := v.db.LoadSnapshot(ctx, name)
		return rec, err
	}
	payload, ok := v.memory[name]
	if !ok {
		return snapshot.RecordV4{}, fmt.Errorf("snapshot %q: %w", name, store.ErrNotFound)
	}
	rec, _, err := snapshot.Decode(payload)
	return rec, err
}
