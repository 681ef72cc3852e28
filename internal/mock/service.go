package mock

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/personai/briefmock/internal/gateway"
	"github.com/personai/briefmock/internal/identity"
	"github.com/personai/briefmock/internal/ratelimit"
)

// ServiceOptions carries optional wiring for a Service. Zero values fall
// back to real time and no-op callbacks.
type ServiceOptions struct {
	Now            func() time.Time
	OnRateLimited  func(operation string)
	OnAuthError    func(operation string)
	OnLimiterError func(operation string)
}

// Service is the mock API surface: requests are matched to operations,
// gated on the caller's classified identity and the operation's rate
// policy, then rendered from fixtures.
type Service struct {
	log      zerolog.Logger
	limiter  ratelimit.Limiter
	resolver *PolicyResolver
	fixtures *Fixtures
	audit    *AuditLog
	ops      *OperationSet
	now      func() time.Time

	onRateLimited  func(operation string)
	onAuthError    func(operation string)
	onLimiterError func(operation string)

	briefsProcessed       atomic.Int64
	integrationsConnected atomic.Int64
}

func NewService(
	log zerolog.Logger,
	limiter ratelimit.Limiter,
	resolver *PolicyResolver,
	fixtures *Fixtures,
	audit *AuditLog,
	opts ServiceOptions,
) *Service {
	if fixtures == nil {
		fixtures = DefaultFixtures()
	}
	s := &Service{
		log:            log,
		limiter:        limiter,
		resolver:       resolver,
		fixtures:       fixtures,
		audit:          audit,
		now:            opts.Now,
		onRateLimited:  opts.OnRateLimited,
		onAuthError:    opts.OnAuthError,
		onLimiterError: opts.OnLimiterError,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.registerOperations()
	return s
}

func (s *Service) registerOperations() {
	s.ops = NewOperationSet()
	s.ops.Add(&Operation{
		Name:    "chat.postMessage",
		Methods: methods(http.MethodPost),
		Path:    "/api/chat.postMessage",
		Handle:  s.handlePostMessage,
	})
	s.ops.Add(&Operation{
		Name:    "conversations.list",
		Methods: methods(http.MethodGet, http.MethodPost),
		Path:    "/api/conversations.list",
		Handle:  s.handleConversationsList,
	})
	s.ops.Add(&Operation{
		Name:    "users.list",
		Methods: methods(http.MethodGet, http.MethodPost),
		Path:    "/api/users.list",
		Handle:  s.handleUsersList,
	})
	s.ops.Add(&Operation{
		Name:    "briefs.create",
		Methods: methods(http.MethodPost),
		Path:    "/api/briefs",
		Handle:  s.handleCreateBrief,
	})
	s.ops.Add(&Operation{
		Name:    "integrations.connect",
		Methods: methods(http.MethodPost),
		Path:    "/api/integrations/connect",
		Handle:  s.handleConnectIntegration,
	})
	s.ops.Add(&Operation{
		Name:    "gmail.messages.list",
		Methods: methods(http.MethodGet),
		Path:    gmailMessagesPath,
		Handle:  s.handleGmailList,
	})
	s.ops.Add(&Operation{
		Name:        "gmail.messages.get",
		Methods:     methods(http.MethodGet),
		Path:        gmailMessagesPath,
		PrefixMatch: true,
		Handle:      s.handleGmailGet,
	})
}

// OperationName resolves the operation label for a request, for callers
// outside the handler chain (metric labels).
func (s *Service) OperationName(method, path string) string {
	if op, ok := s.ops.Match(method, path); ok {
		return op.Name
	}
	return "unknown"
}

// Handler assembles the operation chain: match the path to an operation,
// gate it on identity and rate policy, then render.
func (s *Service) Handler() http.Handler {
	return gateway.Chain(
		http.HandlerFunc(s.serveOperation),
		s.matchOperation,
		s.gate,
	)
}

func (s *Service) matchOperation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, ok := s.ops.Match(r.Method, r.URL.Path)
		if !ok {
			writeAPIError(w, http.StatusNotFound, "unknown_method")
			return
		}
		next.ServeHTTP(w, WithOperation(r, op))
	})
}

// gate applies the selector to the classified identity and, when the
// identity passes auth, to the limiter decision for this operation.
// Expired identities never touch the limiter. Every gated call lands on
// the audit trail with its outcome.
func (s *Service) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, ok := OperationFrom(r)
		if !ok {
			writeAPIError(w, http.StatusInternalServerError, "internal_error")
			return
		}

		id, ok := identity.FromContext(r.Context())
		if !ok {
			// No ingress classification mounted; treat the caller as a
			// plain valid identity.
			id = identity.Identity{Token: "anonymous", Kind: identity.KindValid}
		}

		rec := &auditRecorder{ResponseWriter: w}
		defer func() {
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			s.audit.Append(AuditEvent{
				Timestamp:  s.now(),
				EventType:  "api_call",
				UserID:     id.Token,
				ResourceID: op.Name,
				Action:     strings.ToLower(r.Method),
				Details:    map[string]any{"identity_kind": id.Kind.String(), "status": status},
				Success:    status < http.StatusBadRequest,
			})
		}()

		if id.Kind == identity.KindExpired {
			s.render(rec, op, Select(id.Kind, ratelimit.Decision{}))
			return
		}

		policy := s.resolver.Resolve(id.Kind, op.Name)
		key := ratelimit.RateKey{Identity: id.Token, Operation: op.Name}
		dec, err := s.limiter.Allow(r.Context(), key, policy, s.now())
		if err != nil {
			if s.onLimiterError != nil {
				s.onLimiterError(op.Name)
			}
			s.log.Error().Err(err).Str("operation", op.Name).Msg("limiter failure")
			writeAPIError(rec, http.StatusInternalServerError, "internal_error")
			return
		}

		resp := Select(id.Kind, dec)
		if resp.Kind == ResponseSuccess {
			next.ServeHTTP(rec, r)
			return
		}
		s.render(rec, op, resp)
	})
}

func (s *Service) render(w http.ResponseWriter, op *Operation, resp Response) {
	switch resp.Kind {
	case ResponseAuthError:
		if s.onAuthError != nil {
			s.onAuthError(op.Name)
		}
		s.log.Debug().
			Str("operation", op.Name).
			Str("reason", resp.AuthReason).
			Msg("auth rejected")
		writeAPIError(w, http.StatusUnauthorized, "invalid_auth")
	case ResponseRateLimited:
		if s.onRateLimited != nil {
			s.onRateLimited(op.Name)
		}
		s.log.Debug().
			Str("operation", op.Name).
			Dur("retry_after", resp.RetryAfter).
			Msg("rate limited")
		writeRateLimited(w, resp.RetryAfter)
	}
}

func (s *Service) serveOperation(w http.ResponseWriter, r *http.Request) {
	op, ok := OperationFrom(r)
	if !ok {
		writeAPIError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	op.Handle(w, r)
}

func callerID(r *http.Request) string {
	if id, ok := identity.FromContext(r.Context()); ok && id.Token != "" {
		return id.Token
	}
	return "anonymous"
}
