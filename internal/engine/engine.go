package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/eds/internal/constraint"
	"github.com/roach88/eds/internal/ir"
	"github.com/roach88/eds/internal/policy"
)

// CommandFunc is the body of a command. It runs on the Run goroutine and
// is the only code that touches the store while the engine is running.
type CommandFunc func(s *constraint.Store) error

// Command is one queued unit of work.
type Command struct {
	// ID is assigned at submission.
	ID string

	// Name labels the command in logs and metrics.
	Name string

	// Seq is assigned by the logical clock when the command starts.
	Seq int64

	fn   CommandFunc
	done chan error // nil for fire-and-forget commands
}

// Engine serializes every write to a constraint store through one command
// queue drained by one goroutine.
//
// Thread-safety model:
//   - Submit, Do, Query and the On* adapters: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//
// Each command runs to completion before the next starts, so a sweep such as
// ReleaseDistrictPark is atomic with respect to every other command.
type Engine struct {
	store   *constraint.Store
	fleet   *policy.FleetRegistry
	clock   *Clock
	ids     IDGenerator
	queue   *commandQueue
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the logical clock, e.g. one resumed with NewClockAt.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator sets the command id generator. The default is
// UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records command counts, durations and queue depth.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithFleet makes building release also reset the vehicle assignment.
func WithFleet(f *policy.FleetRegistry) Option {
	return func(e *Engine) {
		e.fleet = f
	}
}

// New creates an Engine over store. Call Run to start processing.
func New(store *constraint.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
		queue:  newCommandQueue(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit queues fn and returns its command id without waiting.
func (e *Engine) Submit(name string, fn CommandFunc) (string, error) {
	cmd := &Command{ID: e.ids.Generate(), Name: name, fn: fn}
	if !e.queue.Enqueue(cmd) {
		return "", newQueueClosedError(name)
	}
	e.metrics.setDepth(e.queue.Len())
	return cmd.ID, nil
}

// Do queues fn and waits for it to run. The command still runs if ctx ends
// first; only the wait is abandoned.
func (e *Engine) Do(ctx context.Context, name string, fn CommandFunc) error {
	cmd := &Command{ID: e.ids.Generate(), Name: name, fn: fn, done: make(chan error, 1)}
	if !e.queue.Enqueue(cmd) {
		return newQueueClosedError(name)
	}
	e.metrics.setDepth(e.queue.Len())

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query runs a read-only fn in queue order, so it observes every command
// submitted before it.
func (e *Engine) Query(ctx context.Context, fn func(s *constraint.Store)) error {
	return e.Do(ctx, "query", func(s *constraint.Store) error {
		fn(s)
		return nil
	})
}

// OnBuildingCreated queues the default policy for a newly placed building.
// The host guarantees id < MaxBuildingCount.
func (e *Engine) OnBuildingCreated(id ir.BuildingID) error {
	_, err := e.Submit("building_created", func(s *constraint.Store) error {
		s.CreateBuilding(id)
		return nil
	})
	return err
}

// OnBuildingReleased queues the reset of a demolished building.
func (e *Engine) OnBuildingReleased(id ir.BuildingID) error {
	_, err := e.Submit("building_released", func(s *constraint.Store) error {
		s.ReleaseBuilding(id)
		if e.fleet != nil {
			e.fleet.Release(id)
		}
		return nil
	})
	return err
}

// OnDistrictParkRemoved queues the sweep that forgets ref everywhere.
func (e *Engine) OnDistrictParkRemoved(ref ir.DistrictPark) error {
	_, err := e.Submit("district_park_removed", func(s *constraint.Store) error {
		s.ReleaseDistrictPark(ref)
		return nil
	})
	return err
}

// QueueLen returns the number of commands waiting.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Seq returns the sequence number of the last command started.
func (e *Engine) Seq() int64 {
	return e.clock.Current()
}

// Run drains the queue until ctx is cancelled or Stop is called. After Stop
// the commands already queued still run; after cancellation they are
// abandoned and their waiters get a QUEUE_CLOSED error.
//
// A failing command is logged and processing continues.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting")

	for {
		select {
		case <-ctx.Done():
			return e.cancelled(ctx)
		default:
		}

		if cmd, ok := e.queue.TryDequeue(); ok {
			if err := e.execute(cmd); err != nil {
				e.logger.Error("command failed",
					"command", cmd.Name,
					"command_id", cmd.ID,
					"seq", cmd.Seq,
					"error", err.Error())
			}
			continue
		}

		select {
		case <-ctx.Done():
			return e.cancelled(ctx)

		case <-e.queue.Wait():
			if e.queue.Closed() && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed", "seq", e.clock.Current())
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once the queue is drained.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) execute(cmd *Command) (err error) {
	cmd.Seq = e.clock.Next()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = newCommandFailedError(cmd, err)
		}
		e.metrics.observe(cmd.Name, time.Since(start).Seconds(), err != nil)
		e.metrics.setDepth(e.queue.Len())
		if cmd.done != nil {
			cmd.done <- err
		}
	}()

	e.logger.Debug("command executing",
		"command", cmd.Name,
		"command_id", cmd.ID,
		"seq", cmd.Seq)
	return cmd.fn(e.store)
}

func (e *Engine) cancelled(ctx context.Context) error {
	e.logger.Info("engine stopping: context cancelled", "abandoned", e.queue.Len())
	e.queue.Close()
	e.abandon()
	return ctx.Err()
}

func (e *Engine) abandon() {
	for {
		cmd, ok := e.queue.TryDequeue()
		if !ok {
			break
		}
		if cmd.done != nil {
			err := newQueueClosedError(cmd.Name)
			err.CommandID = cmd.ID
			cmd.done <- err
		}
	}
	e.metrics.setDepth(0)
}
