package mock_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personai/briefmock/internal/mock"
)

func TestOperationSet_Match(t *testing.T) {
	set := mock.NewOperationSet()
	set.Add(&mock.Operation{
		Name:    "chat.postMessage",
		Methods: map[string]struct{}{http.MethodPost: {}},
		Path:    "/api/chat.postMessage",
	})
	set.Add(&mock.Operation{
		Name:    "gmail.messages.list",
		Methods: map[string]struct{}{http.MethodGet: {}},
		Path:    "/gmail/v1/users/me/messages",
	})
	set.Add(&mock.Operation{
		Name:        "gmail.messages.get",
		Methods:     map[string]struct{}{http.MethodGet: {}},
		Path:        "/gmail/v1/users/me/messages",
		PrefixMatch: true,
	})

	op, ok := set.Match(http.MethodPost, "/api/chat.postMessage")
	require.True(t, ok)
	assert.Equal(t, "chat.postMessage", op.Name)

	// Method has to match, not just the path.
	_, ok = set.Match(http.MethodGet, "/api/chat.postMessage")
	assert.False(t, ok)

	// Exact path resolves to the list operation, not the prefix one.
	op, ok = set.Match(http.MethodGet, "/gmail/v1/users/me/messages")
	require.True(t, ok)
	assert.Equal(t, "gmail.messages.list", op.Name)

	// A subpath resolves to the prefix operation.
	op, ok = set.Match(http.MethodGet, "/gmail/v1/users/me/messages/gmail_000001")
	require.True(t, ok)
	assert.Equal(t, "gmail.messages.get", op.Name)

	_, ok = set.Match(http.MethodPost, "/api/does.notExist")
	assert.False(t, ok)
}
