package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")

	var empty AggregatedError
	require.NoError(t, empty.Add(nil, nil).Aggregate())

	var one AggregatedError
	err := one.Add(nil, errA).Aggregate()
	require.EqualError(t, err, "a")

	var two AggregatedError
	err = two.Add(errA, errB).Aggregate()
	require.EqualError(t, err, "2 errors: a; b")
	require.True(t, errors.Is(err, errB))
}

func TestRunnerStopsAll(t *testing.T) {
	failure := errors.New("boom")
	r := NewRunner(context.Background())
	r.Go(
		Named("waiter", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(ctx context.Context) error {
			return failure
		}),
	)
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, failure))
}
