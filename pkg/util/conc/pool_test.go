package conc

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/lk2023060901/objwire/pkg/util/merr"
)

func TestPoolSubmit(t *testing.T) {
	pool := NewPool[int](4, WithPreAlloc(true))
	defer pool.Release()
	assert.Equal(t, 4, pool.Cap())

	futures := make([]*Future[int], 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			return i * i, nil
		}))
	}
	require.NoError(t, AwaitAll(futures...))
	for i, f := range futures {
		assert.True(t, f.Done())
		assert.True(t, f.OK())
		assert.Equal(t, i*i, f.Value())
	}
}

func TestPoolError(t *testing.T) {
	pool := NewPool[struct{}](2)
	defer pool.Release()

	cause := errors.New("destination failed")
	ok := pool.Submit(func() (struct{}, error) { return struct{}{}, nil })
	bad := pool.Submit(func() (struct{}, error) { return struct{}{}, cause })

	_, err := bad.Await()
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, AwaitAll(ok, bad), cause)
}

func TestPoolPanic(t *testing.T) {
	pool := NewPool[int](1)
	defer pool.Release()

	f := pool.Submit(func() (int, error) { panic("boom") })
	assert.ErrorIs(t, f.Err(), merr.ErrSerialization)
}

func TestPoolPreHandler(t *testing.T) {
	calls := atomic.NewInt32(0)
	pool := NewPool[int](1, WithPreHandler(func() { calls.Inc() }))
	defer pool.Release()

	require.NoError(t, pool.Submit(func() (int, error) { return 1, nil }).Err())
	assert.EqualValues(t, 1, calls.Load())
}

func TestPoolReleased(t *testing.T) {
	pool := NewPool[int](1)
	pool.Release()

	f := pool.Submit(func() (int, error) { return 1, nil })
	assert.ErrorIs(t, f.Err(), merr.ErrOperationNotSupported)
}
