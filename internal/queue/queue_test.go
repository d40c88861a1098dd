package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDropsWhenFull(t *testing.T) {
	q := New(2)

	assert.True(t, q.Enqueue(uuid.New()))
	assert.True(t, q.Enqueue(uuid.New()))
	assert.False(t, q.Enqueue(uuid.New()))
	assert.Equal(t, 2, q.Len())
}

func TestDequeueReturnsBufferedID(t *testing.T) {
	q := New(1)
	id := uuid.New()
	require.True(t, q.Enqueue(id))

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, 0, q.Len())
}

func TestDequeueUnblocksOnContextCancel(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("dequeue did not unblock on cancel")
	}
}

func TestEachIDDeliveredToExactlyOneConsumer(t *testing.T) {
	const (
		producers   = 4
		consumers   = 3
		perProducer = 25
	)
	total := producers * perProducer

	q := New(total)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	seen := map[uuid.UUID]int{}

	var consumerWg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			for {
				id, err := q.Dequeue(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[id]++
				if len(seen) == total {
					cancel()
				}
				mu.Unlock()
			}
		}()
	}

	var producerWg sync.WaitGroup
	for i := 0; i < producers; i++ {
		producerWg.Add(1)
		go func() {
			defer producerWg.Done()
			for j := 0; j < perProducer; j++ {
				require.True(t, q.Enqueue(uuid.New()))
			}
		}()
	}

	producerWg.Wait()
	consumerWg.Wait()

	require.Len(t, seen, total)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "id %s delivered %d times", id, count)
	}
}

func TestNewFallsBackToDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-5).Cap())
	assert.Equal(t, 7, New(7).Cap())
}
