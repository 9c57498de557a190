package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClientRewrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tone-changer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "s3cret", r.Header.Get("X-API-Secret"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"text": "hello", "tone": "calm"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rewrittenText":"Hello.","originalText":"hello","requestedTone":"calm"}`))
	}))
	defer server.Close()

	client := NewAPIClient(Config{Endpoint: server.URL + "/api/tone-changer", Secret: "s3cret", Timeout: time.Second})
	result, err := client.Rewrite(context.Background(), "hello", "calm")
	require.NoError(t, err)
	require.Equal(t, RewriteResult{RewrittenText: "Hello.", OriginalText: "hello", RequestedTone: "calm"}, result)
}

func TestAPIClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "json error body", status: http.StatusTooManyRequests, body: `{"error":"AI service quota exceeded","details":"later"}`, message: "AI service quota exceeded"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"Forbidden"}`, message: "Forbidden"},
		{name: "plain text body", status: http.StatusMethodNotAllowed, body: `Method GET Not Allowed`, message: "Error: 405 Method Not Allowed"},
		{name: "empty body", status: http.StatusBadGateway, message: "Error: 502 Bad Gateway"},
		{name: "empty error field", status: http.StatusInternalServerError, body: `{"error":""}`, message: "Error: 500 Internal Server Error"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewAPIClient(Config{Endpoint: server.URL, Secret: "s", Timeout: time.Second})
			_, err := client.Rewrite(context.Background(), "hello", "calm")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.EqualError(t, err, tt.message)
		})
	}
}

func TestAPIClientTrending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tones/trending", r.URL.Path)
		assert.Equal(t, "s3cret", r.Header.Get("X-API-Secret"))
		_, _ = w.Write([]byte(`{"tones":[{"tone":"Cheerful","count":3},{"tone":"formal","count":1}]}`))
	}))
	defer server.Close()

	client := NewAPIClient(Config{Endpoint: server.URL + "/api/tone-changer?x=1", Secret: "s3cret"})
	tones, err := client.Trending(context.Background())
	require.NoError(t, err)
	require.Equal(t, []ToneCount{{Tone: "Cheerful", Count: 3}, {Tone: "formal", Count: 1}}, tones)
}

func TestControllerAgainstAPIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		_, _ = w.Write([]byte(`{"error":"Upstream timeout","details":"The AI service did not respond in time."}`))
	}))
	defer server.Close()

	cfg := Config{Endpoint: server.URL, Secret: "s3cret", Timeout: time.Second}
	view := &fakeView{}
	ctrl := NewController(cfg, NewAPIClient(cfg), view)

	err := ctrl.Submit(context.Background(), Form{Text: "hello", Tone: "calm"})
	require.Error(t, err)
	require.Equal(t, "An error occurred: Upstream timeout", view.errorText)
	require.Equal(t, MsgRewriteFailed, view.result)
	view.requireIdle(t)
}
