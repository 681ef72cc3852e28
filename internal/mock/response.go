package mock

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"
)

// ResponseKind tags the outcomes the mock can return for an operation.
type ResponseKind int

const (
	ResponseSuccess ResponseKind = iota
	ResponseAuthError
	ResponseRateLimited
)

// Response is the selected outcome for one mock API call. Exactly one
// variant applies. Success payloads are rendered by the operation handler
// and are not carried here.
type Response struct {
	Kind       ResponseKind
	AuthReason string        // AuthError only
	RetryAfter time.Duration // RateLimited only
}

func Success() Response { return Response{Kind: ResponseSuccess} }

func AuthError(reason string) Response {
	return Response{Kind: ResponseAuthError, AuthReason: reason}
}

func RateLimited(retryAfter time.Duration) Response {
	return Response{Kind: ResponseRateLimited, RetryAfter: retryAfter}
}

type apiError struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, errCode string) {
	writeJSON(w, code, apiError{Error: errCode})
}

// retryAfterSeconds rounds up so the hint never undershoots the window.
func retryAfterSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	secs := retryAfterSeconds(retryAfter)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	writeJSON(w, http.StatusTooManyRequests, apiError{Error: "ratelimited", RetryAfter: secs})
}
