package identity

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const identityKey ctxKey = 0

// Kind is the trust class of a caller identity, resolved once when the
// request enters the service. Handlers and the limiter switch on Kind
// instead of re-inspecting the raw credential.
type Kind int

const (
	// KindValid identities pass authentication and are subject only to
	// policies configured for the operation they call.
	KindValid Kind = iota
	// KindExpired identities fail authentication on every operation.
	KindExpired
	// KindThrottled identities pass authentication but are throttled even
	// on operations with no configured policy.
	KindThrottled
)

func (k Kind) String() string {
	switch k {
	case KindExpired:
		return "expired"
	case KindThrottled:
		return "throttled"
	default:
		return "valid"
	}
}

// Identity is a classified caller credential.
type Identity struct {
	Token string
	Kind  Kind
}

// Classifier maps bearer tokens to identity kinds using the configured
// marker sets. Tokens in neither set classify as valid.
type Classifier struct {
	expired   map[string]struct{}
	throttled map[string]struct{}
}

func NewClassifier(expired, throttled []string) *Classifier {
	c := &Classifier{
		expired:   make(map[string]struct{}, len(expired)),
		throttled: make(map[string]struct{}, len(throttled)),
	}
	for _, t := range expired {
		c.expired[t] = struct{}{}
	}
	for _, t := range throttled {
		c.throttled[t] = struct{}{}
	}
	return c
}

// Classify resolves a token to an Identity. A token listed as both
// expired and throttled classifies as expired.
func (c *Classifier) Classify(token string) Identity {
	if _, ok := c.expired[token]; ok {
		return Identity{Token: token, Kind: KindExpired}
	}
	if _, ok := c.throttled[token]; ok {
		return Identity{Token: token, Kind: KindThrottled}
	}
	return Identity{Token: token, Kind: KindValid}
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, bool) {
	const prefix = "Bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// WithIdentity injects the classified identity into context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the classified identity from context (if present).
func FromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Middleware classifies the bearer token once at ingress and injects the
// result for downstream handlers. Requests without a usable token are
// rejected here; expired identities pass through classified, so the
// response selector decides how to surface them. Paths in skipPaths are
// not classified at all. onReject, if non-nil, is called with the error
// code of each rejection.
func (c *Classifier) Middleware(skipPaths map[string]struct{}, onReject func(reason string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := ParseBearer(r.Header.Get("Authorization"))
			if !ok {
				if onReject != nil {
					onReject("not_authed")
				}
				writeError(w, http.StatusUnauthorized, "not_authed")
				return
			}
			ctx := WithIdentity(r.Context(), c.Classify(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, code int, errCode string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"ok":false,"error":"` + errCode + `"}`))
}
