// Package engine serializes constraint writes through a single command
// queue.
//
// The host schedules every mutation as a deferred action that runs on its
// simulation thread. Engine reproduces that discipline explicitly: callers
// on any goroutine Submit closures, and one Run goroutine executes them in
// FIFO order, stamping each with a logical sequence number from Clock.
//
//	eng := engine.New(store, engine.WithLogger(logger))
//	go eng.Run(ctx)
//	eng.OnBuildingCreated(42)
//	err := eng.Do(ctx, "set_reserve", func(s *constraint.Store) error {
//		s.SetInternalSupplyReserve(42, 40)
//		return nil
//	})
//
// A command that returns an error (or panics) is logged and the loop moves
// on; the error is also handed to a Do caller as an EngineError.
package engine
