package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueueFIFO(t *testing.T) {
	q := newCommandQueue()
	for _, name := range []string{"a", "b", "c"} {
		require.True(t, q.Enqueue(&Command{Name: name}))
	}
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		cmd, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, cmd.Name)
	}
	_, ok := q.TryDequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestCommandQueueSignalCoalesces(t *testing.T) {
	q := newCommandQueue()
	q.Enqueue(&Command{Name: "a"})
	q.Enqueue(&Command{Name: "b"})

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("no signal after enqueue")
	}
	select {
	case <-q.Wait():
		t.Fatal("second signal should have been coalesced")
	default:
	}
}

func TestCommandQueueClose(t *testing.T) {
	q := newCommandQueue()
	q.Enqueue(&Command{Name: "kept"})
	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.False(t, q.Enqueue(&Command{Name: "late"}))

	cmd, ok := q.TryDequeue()
	require.True(t, ok, "queued commands survive Close")
	assert.Equal(t, "kept", cmd.Name)

	select {
	case <-q.Wait():
	default:
		t.Fatal("Wait should fire once closed")
	}
}

func TestCommandQueueConcurrentEnqueue(t *testing.T) {
	q := newCommandQueue()
	const goroutines, each = 20, 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				q.Enqueue(&Command{Name: "x"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, goroutines*each, q.Len())
}
