package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL + "/", Model: "test-model", APIKey: "secret-token"})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{Endpoint: "http://localhost", Model: "m"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(Config{Endpoint: " ", Model: "m", APIKey: "k"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConfig_StringHidesKey(t *testing.T) {
	s := Config{Endpoint: "http://x", Model: "m", APIKey: "super-secret"}.String()
	assert.NotContains(t, s, "super-secret")
	assert.Contains(t, s, "<redacted>")
}

func TestClient_CompleteSendsRequest(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, sonic.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}},{"message":{"content":"ignored"}}]}`))
	})

	text, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
	}, WithTemperature(0.2))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	assert.Equal(t, 1.0, got.TopP)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "hi", got.Messages[1].Content)
}

func TestClient_CompleteNullContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":null}}]}`))
	})

	text, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestClient_CompleteFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"upstream error json", http.StatusUnauthorized, `{"error":{"message":"bad credentials"}}`, 401, "bad credentials"},
		{"upstream error text", http.StatusBadGateway, "upstream down", 502, "upstream down"},
		{"empty error body", http.StatusInternalServerError, "", 500, "Internal Server Error"},
		{"no choices", http.StatusOK, `{"choices":[]}`, 200, "response contains no choices"},
		{"invalid json", http.StatusOK, `not json`, 200, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "x"}})
			require.Error(t, err)

			var ce *CompletionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantStatus, ce.StatusCode)
			assert.Equal(t, tt.wantMsg, ce.Message)
			assert.NotContains(t, err.Error(), "secret-token")
		})
	}
}

func TestClient_CompleteRespectsContext(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, []Message{{Role: RoleUser, Content: "x"}})
	require.Error(t, err)
	assert.True(t, IsCompletionError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
