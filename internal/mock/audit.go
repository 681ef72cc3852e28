package mock

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// recentEventLimit caps how many events the audit feed returns.
const recentEventLimit = 50

type AuditEvent struct {
	ID         string         `json:"event_id"`
	Timestamp  time.Time      `json:"timestamp"`
	EventType  string         `json:"event_type"`
	UserID     string         `json:"user_id"`
	ResourceID string         `json:"resource_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
	Success    bool           `json:"success"`
}

// AuditLog is an append-only in-memory event trail with a bounded feed.
type AuditLog struct {
	mu      sync.Mutex
	service string
	events  []AuditEvent
}

func NewAuditLog(service string, seed []AuditEvent) *AuditLog {
	for i := range seed {
		if seed[i].ID == "" {
			seed[i].ID = uuid.NewString()
		}
	}
	return &AuditLog{service: service, events: seed}
}

func (a *AuditLog) Append(e AuditEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
}

func (a *AuditLog) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}

// Recent returns the newest n events, oldest first.
func (a *AuditLog) Recent(n int) []AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := len(a.events) - n
	if start < 0 {
		start = 0
	}
	out := make([]AuditEvent, len(a.events)-start)
	copy(out, a.events[start:])
	return out
}

// auditRecorder captures the response status so the gate can record each
// gated call's outcome on the trail.
type auditRecorder struct {
	http.ResponseWriter
	status int
}

func (w *auditRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *auditRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

type auditFeedResponse struct {
	Service        string       `json:"service"`
	TotalEvents    int          `json:"total_events"`
	ReturnedEvents int          `json:"returned_events"`
	Events         []AuditEvent `json:"events"`
}

func (a *AuditLog) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		recent := a.Recent(recentEventLimit)
		writeJSON(w, http.StatusOK, auditFeedResponse{
			Service:        a.service,
			TotalEvents:    a.Total(),
			ReturnedEvents: len(recent),
			Events:         recent,
		})
	}
}

// SeedEvents is the historical trail a fresh audit log starts with.
func SeedEvents(now time.Time) []AuditEvent {
	return []AuditEvent{
		{
			Timestamp:  now.Add(-2 * time.Hour),
			EventType:  "user_login",
			UserID:     "user_123",
			ResourceID: "auth_system",
			Action:     "login",
			Details:    map[string]any{"ip_address": "192.168.1.100"},
			Success:    true,
		},
		{
			Timestamp:  now.Add(-90 * time.Minute),
			EventType:  "integration_connected",
			UserID:     "user_123",
			ResourceID: "slack_integration",
			Action:     "connect",
			Details:    map[string]any{"integration_type": "slack", "workspace": "person-ai"},
			Success:    true,
		},
		{
			Timestamp:  now.Add(-45 * time.Minute),
			EventType:  "brief_created",
			UserID:     "user_123",
			ResourceID: "brief_456",
			Action:     "create",
			Details:    map[string]any{"brief_type": "daily", "source_count": 5},
			Success:    true,
		},
		{
			Timestamp:  now.Add(-20 * time.Minute),
			EventType:  "error_occurred",
			UserID:     "system",
			ResourceID: "gmail_api",
			Action:     "fetch_emails",
			Details:    map[string]any{"error_code": "RATE_LIMIT", "retry_after": 60},
			Success:    false,
		},
	}
}

type briefCreatedResponse struct {
	Status  string `json:"status"`
	BriefID string `json:"brief_id"`
}

type integrationConnectedResponse struct {
	Status        string `json:"status"`
	IntegrationID string `json:"integration_id"`
}

// handleCreateBrief simulates brief creation and records it on the audit
// trail.
func (s *Service) handleCreateBrief(w http.ResponseWriter, r *http.Request) {
	n := s.briefsProcessed.Add(1)
	id := fmt.Sprintf("brief_%d", n)

	s.audit.Append(AuditEvent{
		Timestamp:  s.now(),
		EventType:  "brief_created",
		UserID:     callerID(r),
		ResourceID: id,
		Action:     "create",
		Details:    map[string]any{"brief_type": "daily"},
		Success:    true,
	})

	writeJSON(w, http.StatusCreated, briefCreatedResponse{Status: "success", BriefID: id})
}

// handleConnectIntegration simulates connecting an upstream integration.
func (s *Service) handleConnectIntegration(w http.ResponseWriter, r *http.Request) {
	n := s.integrationsConnected.Add(1)
	id := fmt.Sprintf("integration_%d", n)

	s.audit.Append(AuditEvent{
		Timestamp:  s.now(),
		EventType:  "integration_connected",
		UserID:     callerID(r),
		ResourceID: id,
		Action:     "connect",
		Details:    map[string]any{"integration_type": "slack", "workspace": "person-ai"},
		Success:    true,
	})

	writeJSON(w, http.StatusCreated, integrationConnectedResponse{Status: "success", IntegrationID: id})
}
