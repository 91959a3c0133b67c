package worker

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ExecuteKeepsOrder(t *testing.T) {
	pool := NewPool[int, string](4, func(ctx context.Context, n int) (string, error) {
		return strconv.Itoa(n * n), nil
	})

	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tasks := pool.Execute(context.Background(), inputs)
	require.Len(t, tasks, len(inputs))
	for i, task := range tasks {
		assert.NoError(t, task.Err)
		assert.Equal(t, inputs[i], task.Input)
		assert.Equal(t, strconv.Itoa(inputs[i]*inputs[i]), task.Result)
	}
}

func TestPool_ExecuteReportsErrors(t *testing.T) {
	errOdd := errors.New("odd")
	pool := NewPool[int, int](2, func(ctx context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, errOdd
		}
		return n, nil
	})

	tasks := pool.Execute(context.Background(), []int{1, 2, 3})
	assert.ErrorIs(t, tasks[0].Err, errOdd)
	assert.NoError(t, tasks[1].Err)
	assert.Equal(t, 2, tasks[1].Result)
	assert.ErrorIs(t, tasks[2].Err, errOdd)
}

func TestPool_ExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool[int, int](0, func(ctx context.Context, n int) (int, error) {
		return 0, ctx.Err()
	})
	tasks := pool.Execute(ctx, []int{1, 2, 3})
	require.Len(t, tasks, 3)
	for _, task := range tasks {
		assert.ErrorIs(t, task.Err, context.Canceled)
	}
}

func TestPool_ExecuteEmpty(t *testing.T) {
	pool := NewPool[int, int](3, func(ctx context.Context, n int) (int, error) { return n, nil })
	assert.Empty(t, pool.Execute(context.Background(), nil))
}
