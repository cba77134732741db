package engine

import "sync"

// commandQueue is the unbounded FIFO between Submit callers and the Run
// loop.
//
// Any goroutine may enqueue; only the Run loop dequeues. The signal channel
// has a buffer of one so that a burst of enqueues coalesces into a single
// wake-up, and it is closed on Close to release a waiting Run loop.
type commandQueue struct {
	mu       sync.Mutex
	commands []*Command
	closed   bool
	signal   chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		commands: make([]*Command, 0, 64),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue appends cmd. Returns false if the queue is closed.
func (q *commandQueue) Enqueue(cmd *Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.commands = append(q.commands, cmd)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front command without blocking.
func (q *commandQueue) TryDequeue() (*Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.commands) == 0 {
		return nil, false
	}
	cmd := q.commands[0]
	// Drop the reference so the closure can be collected.
	q.commands[0] = nil
	if len(q.commands) == 1 {
		q.commands = q.commands[:0]
	} else {
		q.commands = q.commands[1:]
	}
	return cmd, true
}

// Wait returns the channel that fires when commands may be available. It
// is closed once the queue is closed.
func (q *commandQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued commands.
func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}

// Closed reports whether Close has been called.
func (q *commandQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops further enqueues. Commands already queued stay queued.
func (q *commandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
