package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// slackTS renders a Slack-style message timestamp: unix seconds with a
// microsecond suffix.
func slackTS(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postedMessage struct {
	Text string `json:"text"`
	User string `json:"user"`
	TS   string `json:"ts"`
}

type postMessageResponse struct {
	OK      bool          `json:"ok"`
	Channel string        `json:"channel"`
	TS      string        `json:"ts"`
	Message postedMessage `json:"message"`
}

// handlePostMessage echoes the posted text back the way Slack acknowledges
// chat.postMessage. An omitted channel falls back to the first fixture
// channel.
func (s *Service) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	channel := req.Channel
	if channel == "" {
		channel = s.fixtures.Channels[0].ID
	}

	ts := slackTS(s.now())
	writeJSON(w, http.StatusOK, postMessageResponse{
		OK:      true,
		Channel: channel,
		TS:      ts,
		Message: postedMessage{Text: req.Text, User: s.fixtures.BotUser, TS: ts},
	})
}

type conversationsListResponse struct {
	OK       bool      `json:"ok"`
	Channels []Channel `json:"channels"`
}

func (s *Service) handleConversationsList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, conversationsListResponse{OK: true, Channels: s.fixtures.Channels})
}

type usersListResponse struct {
	OK      bool     `json:"ok"`
	Members []Member `json:"members"`
}

func (s *Service) handleUsersList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, usersListResponse{OK: true, Members: s.fixtures.Members})
}
