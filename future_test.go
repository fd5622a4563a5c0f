package workerpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureResolvesOnce(t *testing.T) {
	f := newFuture[int]()

	_, _, ok := f.TryGet()
	assert.False(t, ok)

	f.resolve(1, nil)
	f.resolve(2, errors.New("late"))

	v, err, ok := f.TryGet()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFutureManyReaders(t *testing.T) {
	f := newFuture[string]()

	const readers = 16
	var wg sync.WaitGroup
	results := make(chan string, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.Wait()
			if err == nil {
				results <- v
			}
		}()
	}

	f.resolve("ready", nil)
	wg.Wait()
	close(results)

	n := 0
	for v := range results {
		assert.Equal(t, "ready", v)
		n++
	}
	assert.Equal(t, readers, n)
}

func TestFutureGetContext(t *testing.T) {
	f := newFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Get(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	f.resolve(0, ErrCancelled)
	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed after resolve")
	}
	_, err = f.Get(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}
