package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	mu      sync.Mutex
	records []CallRecord
	err     error
}

func (w *memoryWriter) InsertCallLog(_ context.Context, rec CallRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.records = append(w.records, rec)
	return nil
}

func (w *memoryWriter) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.records)
}

func TestQueue_DeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []int
	q := NewQueue[int]("test", 10, func(_ context.Context, n int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, n)
		return nil
	}, nil)

	for i := 0; i < 5; i++ {
		require.True(t, q.Offer(i))
	}
	require.NoError(t, q.Close(context.Background()))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Zero(t, q.Dropped())
}

func TestQueue_OfferNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue[int]("blocked", 1, func(context.Context, int) error {
		<-release
		return nil
	}, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			q.Offer(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Offer blocked on a full queue")
	}
	assert.Greater(t, q.Dropped(), int64(0))

	close(release)
	require.NoError(t, q.Close(context.Background()))
}

func TestQueue_OfferAfterClose(t *testing.T) {
	q := NewQueue[int]("closed", 1, func(context.Context, int) error { return nil }, nil)
	require.NoError(t, q.Close(context.Background()))

	assert.False(t, q.Offer(1))
	assert.Equal(t, int64(1), q.Dropped())
	// closing twice is harmless
	require.NoError(t, q.Close(context.Background()))
}

func TestQueue_HandlerFailuresAreContained(t *testing.T) {
	calls := 0
	q := NewQueue[int]("failing", 4, func(_ context.Context, n int) error {
		calls++
		if n == 1 {
			panic("boom")
		}
		return errors.New("nope")
	}, nil)

	q.Offer(0)
	q.Offer(1)
	q.Offer(2)
	require.NoError(t, q.Close(context.Background()))

	assert.Equal(t, 3, calls)
	assert.Equal(t, int64(3), q.Failed())
}

func TestAsyncRecorder(t *testing.T) {
	w := &memoryWriter{}
	r := NewAsyncRecorder(w, 8, nil)

	rec := NewCallRecord()
	rec.ConfigName = "support-bot"
	r.Record(rec)
	require.NoError(t, r.Close(context.Background()))

	require.Equal(t, 1, w.len())
	assert.Equal(t, rec.ID, w.records[0].ID)
}

func TestAsyncRecorder_WriterErrorDoesNotSurface(t *testing.T) {
	w := &memoryWriter{err: errors.New("db locked")}
	r := NewAsyncRecorder(w, 8, nil)

	assert.NotPanics(t, func() { r.Record(NewCallRecord()) })
	require.NoError(t, r.Close(context.Background()))
	assert.Zero(t, w.len())
}
