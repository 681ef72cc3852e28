package mock

import (
	"net/http"
	"strconv"
	"strings"
)

const gmailMessagesPath = "/gmail/v1/users/me/messages"

type gmailMessageRef struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	LabelIDs []string `json:"labelIds"`
}

type gmailListResponse struct {
	Messages           []gmailMessageRef `json:"messages"`
	ResultSizeEstimate int               `json:"resultSizeEstimate"`
}

type gmailHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type gmailBody struct {
	Data string `json:"data"`
}

type gmailPayload struct {
	Headers []gmailHeader `json:"headers"`
	Body    gmailBody     `json:"body"`
}

type gmailMessage struct {
	ID       string       `json:"id"`
	ThreadID string       `json:"threadId"`
	LabelIDs []string     `json:"labelIds"`
	Snippet  string       `json:"snippet"`
	Payload  gmailPayload `json:"payload"`
}

type gmailError struct {
	Error string `json:"error"`
}

// handleGmailList lists message references, honoring maxResults and a
// substring query over subject and body.
func (s *Service) handleGmailList(w http.ResponseWriter, r *http.Request) {
	maxResults := 10
	if v := r.URL.Query().Get("maxResults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, gmailError{Error: "invalid maxResults"})
			return
		}
		maxResults = n
	}
	q := strings.ToLower(r.URL.Query().Get("q"))

	refs := make([]gmailMessageRef, 0, len(s.fixtures.Emails))
	for _, e := range s.fixtures.Emails {
		if len(refs) >= maxResults {
			break
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Subject), q) &&
			!strings.Contains(strings.ToLower(e.Body), q) {
			continue
		}
		refs = append(refs, gmailMessageRef{ID: e.ID, ThreadID: e.ThreadID, LabelIDs: e.Labels})
	}

	writeJSON(w, http.StatusOK, gmailListResponse{Messages: refs, ResultSizeEstimate: len(refs)})
}

// handleGmailGet returns one full message by the id in the path.
func (s *Service) handleGmailGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, gmailMessagesPath+"/")

	for _, e := range s.fixtures.Emails {
		if e.ID != id {
			continue
		}
		writeJSON(w, http.StatusOK, gmailMessage{
			ID:       e.ID,
			ThreadID: e.ThreadID,
			LabelIDs: e.Labels,
			Snippet:  snippet(e.Body),
			Payload: gmailPayload{
				Headers: []gmailHeader{
					{Name: "Subject", Value: e.Subject},
					{Name: "From", Value: e.From},
					{Name: "To", Value: e.To},
					{Name: "Date", Value: e.Date},
				},
				Body: gmailBody{Data: e.Body},
			},
		})
		return
	}

	writeJSON(w, http.StatusNotFound, gmailError{Error: "Message not found"})
}

func snippet(body string) string {
	if len(body) <= 100 {
		return body
	}
	return body[:100] + "..."
}
