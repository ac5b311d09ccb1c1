package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham-309/chatbot/internal/api"
	"github.com/shubham-309/chatbot/internal/conversation"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(api.NewClient(server.URL, 5*time.Second, nil))
}

func TestLatestChats(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/latest-chats", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("x"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"latest_chats": []map[string]string{
				{"chat_id": "c1", "name": "First question"},
				{"chat_id": "c2", "name": "Second question"},
			},
		})
	}))

	refs, err := svc.LatestChats(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "c1", refs[0].ID)
	assert.Equal(t, "First question", refs[0].Name)
}

func TestHistoryEscapesChatID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/chat-history", r.URL.Path)
		assert.Equal(t, "id with spaces", r.URL.Query().Get("chat_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"chat_history": []map[string]string{
				{"sender": "user", "content": "hello"},
				{"sender": "bot", "content": "hi"},
			},
		})
	}))

	msgs, err := svc.History(context.Background(), "id with spaces")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.SenderUser, msgs[0].Sender)
	assert.Equal(t, conversation.SenderBot, msgs[1].Sender)
}

func TestAsk(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chatbot/ask", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["chat_id"])
		assert.Equal(t, "What is a free zone?", body["message"])

		_ = json.NewEncoder(w).Encode(map[string]string{"response": "A trade area."})
	}))

	reply, err := svc.Ask(context.Background(), "c1", "What is a free zone?")
	require.NoError(t, err)
	assert.Equal(t, "A trade area.", reply)
}

func TestAskPropagatesAPIError(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "Missing cookie"})
	}))

	_, err := svc.Ask(context.Background(), "c1", "hello")
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
