package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personai/briefmock/internal/ratelimit"
	"github.com/personai/briefmock/internal/ratelimit/memory"
)

func TestLimiter_AllowsUnderLimit(t *testing.T) {
	l := memory.New()
	defer l.Close()

	key := ratelimit.RateKey{Identity: "caller-a", Operation: "chat.postMessage"}
	policy := ratelimit.Policy{Limit: 5, Window: time.Minute}
	now := time.Now()

	for i := range 5 {
		d, err := l.Allow(context.Background(), key, policy, now)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 5, d.Limit)
		assert.Equal(t, 4-i, d.Remaining)
	}
}

func TestLimiter_DeniesOverLimit(t *testing.T) {
	l := memory.New()
	defer l.Close()

	key := ratelimit.RateKey{Identity: "caller-a", Operation: "chat.postMessage"}
	policy := ratelimit.Policy{Limit: 1, Window: time.Second}
	base := time.Now()

	first, err := l.Allow(context.Background(), key, policy, base)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	// 100ms later the window is still occupied.
	second, err := l.Allow(context.Background(), key, policy, base.Add(100*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, second.Allowed)
	assert.Equal(t, time.Second, second.RetryAfter)

	// A full window after the denied attempt, the log has drained.
	third, err := l.Allow(context.Background(), key, policy, base.Add(1100*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, third.Allowed)
}

func TestLimiter_ExactBoundaryRetry(t *testing.T) {
	l := memory.New()
	defer l.Close()

	key := ratelimit.RateKey{Identity: "caller-a", Operation: "messages.list"}
	policy := ratelimit.Policy{Limit: 1, Window: time.Second}
	base := time.Now()

	first, err := l.Allow(context.Background(), key, policy, base)
	require.NoError(t, err)
	require.True(t, first.Allowed)

	// Exactly one window later the previous entry has expired.
	second, err := l.Allow(context.Background(), key, policy, base.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, second.Allowed)
}

func TestLimiter_DeniedAttemptsOccupyWindow(t *testing.T) {
	l := memory.New()
	defer l.Close()

	key := ratelimit.RateKey{Identity: "caller-a", Operation: "chat.postMessage"}
	policy := ratelimit.Policy{Limit: 1, Window: time.Second}
	base := time.Now()

	d, err := l.Allow(context.Background(), key, policy, base)
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = l.Allow(context.Background(), key, policy, base.Add(500*time.Millisecond))
	require.NoError(t, err)
	require.False(t, d.Allowed)

	// The denied attempt at +500ms still counts, so +1.2s is denied even
	// though the original entry expired.
	d, err = l.Allow(context.Background(), key, policy, base.Add(1200*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	// A quiet second after the last attempt drains the log.
	d, err = l.Allow(context.Background(), key, policy, base.Add(2200*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := memory.New()
	defer l.Close()

	policy := ratelimit.Policy{Limit: 1, Window: time.Second}
	now := time.Now()

	keyA := ratelimit.RateKey{Identity: "caller-a", Operation: "chat.postMessage"}
	keyB := ratelimit.RateKey{Identity: "caller-b", Operation: "chat.postMessage"}
	keyC := ratelimit.RateKey{Identity: "caller-a", Operation: "conversations.list"}

	d, err := l.Allow(context.Background(), keyA, policy, now)
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = l.Allow(context.Background(), keyA, policy, now)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	// Exhausting keyA leaves other identities and operations untouched.
	d, err = l.Allow(context.Background(), keyB, policy, now)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(context.Background(), keyC, policy, now)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiter_UnlimitedPolicy(t *testing.T) {
	l := memory.New()
	defer l.Close()

	key := ratelimit.RateKey{Identity: "caller-a", Operation: "users.list"}
	now := time.Now()

	for range 50 {
		d, err := l.Allow(context.Background(), key, ratelimit.Policy{}, now)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 0, d.Limit)
	}
}

func TestLimiter_ConcurrentSameKey(t *testing.T) {
	l := memory.New()
	defer l.Close()

	key := ratelimit.RateKey{Identity: "caller-a", Operation: "chat.postMessage"}
	policy := ratelimit.Policy{Limit: 50, Window: time.Minute}
	now := time.Now()

	const totalRequests = 100
	results := make(chan bool, totalRequests)

	for range 10 {
		go func() {
			for range 10 {
				d, err := l.Allow(context.Background(), key, policy, now)
				assert.NoError(t, err)
				results <- d.Allowed
			}
		}()
	}

	allowed := 0
	for range totalRequests {
		if <-results {
			allowed++
		}
	}

	// Exactly the limit should get through, the rest denied.
	assert.Equal(t, 50, allowed)
}
