package dummyjson_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/storefront/internal/dummyjson"
)

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rate  float64
		burst int
		calls int
	}{
		{name: "allows calls within rate", rate: 100, burst: 10, calls: 3},
		{name: "allows burst", rate: 100, burst: 5, calls: 5},
		{name: "non-positive rate disables limiting", rate: 0, burst: 1, calls: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := dummyjson.NewRateLimiter(tt.rate, tt.burst)
			for range tt.calls {
				require.NoError(t, rl.Wait(context.Background()))
			}
			assert.Equal(t, int64(tt.calls), rl.Calls())
		})
	}
}

func TestRateLimiter_ContextDeadline(t *testing.T) {
	t.Parallel()

	rl := dummyjson.NewRateLimiter(0.01, 1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	require.ErrorIs(t, err, dummyjson.ErrRateLimited)
	assert.Equal(t, int64(1), rl.Calls())
}

func TestRateLimiter_BurstFloor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, dummyjson.NewRateLimiter(5, 0).Burst())
	assert.Equal(t, 10, dummyjson.NewRateLimiter(5, 10).Burst())
}
