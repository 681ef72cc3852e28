package mock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/personai/briefmock/internal/identity"
	"github.com/personai/briefmock/internal/mock"
	"github.com/personai/briefmock/internal/ratelimit"
)

func TestSelect_ExpiredAlwaysFailsAuth(t *testing.T) {
	decisions := []ratelimit.Decision{
		{},
		{Allowed: true},
		{Allowed: false, RetryAfter: time.Second},
	}

	// Auth precedence: the expired outcome wins no matter what the
	// limiter said.
	for _, dec := range decisions {
		resp := mock.Select(identity.KindExpired, dec)
		assert.Equal(t, mock.ResponseAuthError, resp.Kind)
		assert.Equal(t, "token_expired", resp.AuthReason)
	}
}

func TestSelect_DeniedDecisionRateLimits(t *testing.T) {
	resp := mock.Select(identity.KindThrottled, ratelimit.Decision{Allowed: false, RetryAfter: time.Second})
	assert.Equal(t, mock.ResponseRateLimited, resp.Kind)
	assert.Equal(t, time.Second, resp.RetryAfter)

	resp = mock.Select(identity.KindValid, ratelimit.Decision{Allowed: false, RetryAfter: 2 * time.Second})
	assert.Equal(t, mock.ResponseRateLimited, resp.Kind)
	assert.Equal(t, 2*time.Second, resp.RetryAfter)
}

func TestSelect_AllowedIsSuccess(t *testing.T) {
	for _, kind := range []identity.Kind{identity.KindValid, identity.KindThrottled} {
		resp := mock.Select(kind, ratelimit.Decision{Allowed: true})
		assert.Equal(t, mock.ResponseSuccess, resp.Kind)
	}
}

func TestPolicyResolver_Resolve(t *testing.T) {
	configured := ratelimit.Policy{Limit: 3, Window: time.Minute}
	simulated := ratelimit.Policy{Limit: 1, Window: time.Second}
	pr := mock.NewPolicyResolver(
		map[string]ratelimit.Policy{"chat.postMessage": configured},
		simulated,
	)

	// A configured operation throttles every identity kind.
	assert.Equal(t, configured, pr.Resolve(identity.KindValid, "chat.postMessage"))
	assert.Equal(t, configured, pr.Resolve(identity.KindThrottled, "chat.postMessage"))

	// Unconfigured operations limit only throttled-marker identities.
	assert.Equal(t, simulated, pr.Resolve(identity.KindThrottled, "users.list"))
	assert.False(t, pr.Resolve(identity.KindValid, "users.list").Limited())
}
