package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_DecodesJSONResponse(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/latest-chats", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("x"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"latest_chats":[{"chat_id":"c1","name":"hello"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	var out struct {
		LatestChats []struct {
			ChatID string `json:"chat_id"`
			Name   string `json:"name"`
		} `json:"latest_chats"`
	}
	err := client.Get(context.Background(), "chatbot/latest-chats?x=5", &out)
	require.NoError(t, err)
	require.Len(t, out.LatestChats, 1)
	assert.Equal(t, "c1", out.LatestChats[0].ChatID)
}

func TestRequest_PostEncodesBody(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, decodeJSON(r, &body))
		assert.Equal(t, "hi", body["message"])
		w.Write([]byte(`{"response":"Hello!"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	var out struct {
		Response string `json:"response"`
	}
	err := client.Post(context.Background(), "chatbot/ask", map[string]string{"message": "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", out.Response)
}

func TestRequest_NonSuccessCarriesServerMessage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"User already exists."}`, "User already exists."},
		{"msg field", http.StatusUnauthorized, `{"msg":"Invalid credentials"}`, "Invalid credentials"},
		{"no body", http.StatusInternalServerError, ``, "API request failed"},
		{"non-json body", http.StatusBadGateway, `upstream exploded`, "API request failed"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, 5*time.Second, nil)
			err := client.Get(context.Background(), "auth/current", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestRequest_ConnectionFailureIsNotAPIError(t *testing.T) {
	t.Parallel()
	// Closed server: the request never reaches an HTTP response
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(server.URL, time.Second, nil)
	err := client.Get(context.Background(), "auth/current", nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestRequest_CookiesAlwaysIncluded(t *testing.T) {
	t.Parallel()
	var sawCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok-123", HttpOnly: true})
			w.Write([]byte(`{"user":{"email":"a@b.c","username":"ab"}}`))
		default:
			if c, err := r.Cookie("access_token"); err == nil {
				sawCookie = c.Value
			}
			w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	jar, err := NewJar(filepath.Join(t.TempDir(), "cookies.json"))
	require.NoError(t, err)

	client := NewClient(server.URL, 5*time.Second, jar)
	require.NoError(t, client.Post(context.Background(), "auth/login", map[string]string{}, nil))
	require.NoError(t, client.Get(context.Background(), "auth/current", nil))

	assert.Equal(t, "tok-123", sawCookie, "session cookie should ride on every request")
}

func TestEndpointURL_TrimsSlashes(t *testing.T) {
	t.Parallel()
	client := NewClient("http://example.com/api/", 0, nil)
	assert.Equal(t, "http://example.com/api/auth/google_login", client.EndpointURL("/auth/google_login"))
}

// decodeJSON is a small helper to keep handler bodies readable.
func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
