package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/supportdesk/frontend/internal/chat"
	"github.com/itchan-dev/supportdesk/frontend/internal/locale"
	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/domain"
)

func sendChat(t *testing.T, h *Handler, target string, body api.ChatSendRequest) (*httptest.ResponseRecorder, api.ChatSendResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.SendChat(rr, httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(data))))

	var resp api.ChatSendResponse
	if rr.Code == http.StatusOK || rr.Code == http.StatusBadGateway {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestStartChat(t *testing.T) {
	h := testHandler(&MockClient{})
	req := httptest.NewRequest(http.MethodPost, "/api/chat/session", nil)
	req.AddCookie(&http.Cookie{Name: locale.CookieName, Value: "da"})
	rr := httptest.NewRecorder()

	h.StartChat(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.ChatSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.SessionID, 36)
	assert.Equal(t, "da", resp.Language)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, domain.RoleAssistant, resp.Messages[0].Role)
	assert.Equal(t, "Hi! How can I help you today?", resp.Messages[0].Content)
	assert.Equal(t, 1, h.sessions.len())
}

func TestSendChat(t *testing.T) {
	t.Run("keeps history within a session", func(t *testing.T) {
		client := &MockClient{}
		h := testHandler(client)

		rr, first := sendChat(t, h, "/no/api/chat", api.ChatSendRequest{Message: "hei"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "echo: hei", first.Reply)
		assert.Equal(t, "no", first.Language)

		rr, second := sendChat(t, h, "/no/api/chat", api.ChatSendRequest{Message: "igjen", SessionID: first.SessionID})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, first.SessionID, second.SessionID)

		require.Len(t, client.chats, 2)
		assert.Len(t, client.chats[0].ConversationHistory, 1)
		assert.Len(t, client.chats[1].ConversationHistory, 3)
		assert.Equal(t, "no", client.chats[1].Language)
	})

	t.Run("unknown session starts a new one", func(t *testing.T) {
		h := testHandler(&MockClient{})

		rr, resp := sendChat(t, h, "/api/chat", api.ChatSendRequest{Message: "hi", SessionID: "stale"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEqual(t, "stale", resp.SessionID)
		assert.Len(t, resp.SessionID, 36)
	})

	t.Run("empty message", func(t *testing.T) {
		client := &MockClient{}
		rr, _ := sendChat(t, testHandler(client), "/api/chat", api.ChatSendRequest{Message: "  "})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, client.chats)
	})

	t.Run("invalid json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		testHandler(&MockClient{}).SendChat(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("webhook failure returns the apology", func(t *testing.T) {
		client := &MockClient{SendChatFunc: func(ctx context.Context, req api.ChatRequest) ([]byte, error) {
			return nil, errors.New("connection refused")
		}}

		rr, resp := sendChat(t, testHandler(client), "/api/chat", api.ChatSendRequest{Message: "hi"})

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Equal(t, chat.ErrorMessage, resp.Reply)
	})
}

func TestSessionStoreExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newSessionStore(time.Minute)
	store.now = func() time.Time { return now }

	old := chat.NewSession(&MockClient{}, "en", "")
	store.add(old)

	now = now.Add(30 * time.Second)
	_, ok := store.get(old.ID())
	require.True(t, ok, "use refreshes the idle timer")

	now = now.Add(50 * time.Second)
	_, ok = store.get(old.ID())
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	fresh := chat.NewSession(&MockClient{}, "en", "")
	store.add(fresh)
	assert.Equal(t, 1, store.len(), "adding sweeps idle sessions")

	_, ok = store.get(old.ID())
	assert.False(t, ok)
	_, ok = store.get(fresh.ID())
	assert.True(t, ok)
}

func TestSessionStoreWithoutTTL(t *testing.T) {
	now := time.Now()
	store := newSessionStore(0)
	store.now = func() time.Time { return now }
	s := chat.NewSession(&MockClient{}, "en", "")
	store.add(s)

	now = now.Add(24 * time.Hour)
	_, ok := store.get(s.ID())
	assert.True(t, ok)
}
