package mock_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personai/briefmock/internal/mock"
)

func getHealth(t *testing.T, h *mock.HealthState) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthState_AllDependenciesUpIsHealthy(t *testing.T) {
	h := mock.NewHealthState("briefmock", "1.0.0", []string{"database", "slack_api", "gmail_api"})

	assert.Equal(t, mock.HealthHealthy, h.Status())

	rec, body := getHealth(t, h)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "briefmock", body["service"])
	assert.Equal(t, "1.0.0", body["version"])

	deps, ok := body["dependencies"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, deps, 3)

	system, ok := body["system"].(map[string]any)
	require.True(t, ok)
	assert.Greater(t, system["goroutines"].(float64), float64(0))
}

func TestHealthState_OneDependencyDownIsDegraded(t *testing.T) {
	h := mock.NewHealthState("briefmock", "1.0.0", []string{"database", "slack_api", "gmail_api"})
	h.SetDependency("gmail_api", false)

	assert.Equal(t, mock.HealthDegraded, h.Status())

	rec, body := getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestHealthState_MajorityDownIsUnhealthy(t *testing.T) {
	h := mock.NewHealthState("briefmock", "1.0.0", []string{"database", "slack_api", "gmail_api"})
	h.SetDependency("slack_api", false)
	h.SetDependency("gmail_api", false)

	assert.Equal(t, mock.HealthUnhealthy, h.Status())

	rec, _ := getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthState_RecoversAfterDependencyReturns(t *testing.T) {
	h := mock.NewHealthState("briefmock", "1.0.0", []string{"database", "slack_api"})
	h.SetDependency("database", false)
	require.Equal(t, mock.HealthDegraded, h.Status())

	h.SetDependency("database", true)
	assert.Equal(t, mock.HealthHealthy, h.Status())
}
