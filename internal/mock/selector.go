package mock

import (
	"github.com/personai/briefmock/internal/identity"
	"github.com/personai/briefmock/internal/ratelimit"
)

// Select maps a classified identity and a limiter decision to the mock
// outcome. Expired identities always fail auth, before and regardless of
// any rate-limit evaluation; every other identity is throttled only when
// the decision denies.
func Select(kind identity.Kind, dec ratelimit.Decision) Response {
	if kind == identity.KindExpired {
		return AuthError("token_expired")
	}
	if !dec.Allowed {
		return RateLimited(dec.RetryAfter)
	}
	return Success()
}

// PolicyResolver picks the rate policy for one call. An operation with a
// configured policy throttles every caller on it. On unconfigured
// operations, throttled-marker identities fall back to the simulated
// policy and everyone else runs unlimited.
type PolicyResolver struct {
	operations map[string]ratelimit.Policy
	simulated  ratelimit.Policy
}

func NewPolicyResolver(operations map[string]ratelimit.Policy, simulated ratelimit.Policy) *PolicyResolver {
	ops := make(map[string]ratelimit.Policy, len(operations))
	for name, p := range operations {
		ops[name] = p
	}
	return &PolicyResolver{operations: ops, simulated: simulated}
}

func (pr *PolicyResolver) Resolve(kind identity.Kind, operation string) ratelimit.Policy {
	if p, ok := pr.operations[operation]; ok {
		return p
	}
	if kind == identity.KindThrottled {
		return pr.simulated
	}
	return ratelimit.Policy{}
}
