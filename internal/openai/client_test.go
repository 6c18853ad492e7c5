package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/model"
)

const okBody = `{
  "id": "resp_123",
  "output": [
    {"type": "reasoning", "summary": []},
    {"type": "message", "role": "assistant", "content": [
      {"type": "output_text", "text": "print('a')\n"},
      {"type": "refusal", "refusal": "no"},
      {"type": "output_text", "text": "print('b')\n"}
    ]}
  ],
  "usage": {"input_tokens": 10000, "output_tokens": 2000, "total_tokens": 12000}
}`

func TestComplete_OpenAI(t *testing.T) {
	var got responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c, err := NewClient(config.Credentials{OpenAIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1/"}, time.Second, zerolog.Nop())
	require.NoError(t, err)

	msgs := []model.Message{
		{Role: model.RoleSystem, Content: "sys"},
		{Role: model.RoleUser, Content: "brief"},
	}
	comp, err := c.Complete(context.Background(), "gpt-4.1-mini", msgs)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1-mini", got.Model)
	assert.Equal(t, msgs, got.Input)
	assert.Equal(t, "print('a')\nprint('b')\n", comp.Text)
	assert.Equal(t, "resp_123", comp.ResponseID)
	assert.Equal(t, model.NewUsage(10000, 2000), comp.Usage)
}

func TestComplete_Azure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/responses", r.URL.Path)
		assert.Equal(t, "preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "az-key", r.Header.Get("api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"output_text": "SELECT 1;"}`)
	}))
	defer srv.Close()

	creds := config.Credentials{AzureKey: "az-key", AzureEndpoint: srv.URL + "/", AzureVersion: "preview"}
	c, err := NewClient(creds, 0, zerolog.Nop())
	require.NoError(t, err)

	comp, err := c.Complete(context.Background(), "gpt-5", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", comp.Text)
	assert.Nil(t, comp.Usage)
}

func TestNewClient_NoCredentials(t *testing.T) {
	_, err := NewClient(config.Credentials{AzureKey: "only-key"}, 0, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrNoCredentials)
}

func TestComplete_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = io.WriteString(w, `{"error": {"message": "nope"}}`)
		}))
		c, err := NewClient(config.Credentials{OpenAIKey: "k", OpenAIBaseURL: srv.URL}, 0, zerolog.Nop())
		require.NoError(t, err)
		_, err = c.Complete(context.Background(), "gpt-5", nil)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		assert.Contains(t, err.Error(), "nope")
		srv.Close()
	}
}

func TestComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"message": "model not found"}}`)
	}))
	defer srv.Close()

	c, err := NewClient(config.Credentials{OpenAIKey: "k", OpenAIBaseURL: srv.URL}, 0, zerolog.Nop())
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "nope", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "model not found", apiErr.Message)
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewClient(config.Credentials{OpenAIKey: "k", OpenAIBaseURL: srv.URL}, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "gpt-5", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseResponse(t *testing.T) {
	comp, err := ParseResponse([]byte(`{"output": []}`))
	require.NoError(t, err)
	assert.Empty(t, comp.Text)
	assert.Nil(t, comp.Usage)

	_, err = ParseResponse([]byte(`not json`))
	assert.Error(t, err)

	comp, err = ParseResponse([]byte(`{"output_text": "x", "usage": {"input_tokens": 0, "output_tokens": 0}}`))
	require.NoError(t, err)
	assert.Nil(t, comp.Usage, "zero usage is treated as absent")

	_, err = ParseResponse([]byte(`{"error": {"message": "boom"}}`))
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestParseResponse_IncompleteStillCarriesUsage(t *testing.T) {
	body := `{"id": "resp_9", "status": "incomplete",
		"incomplete_details": {"reason": "max_output_tokens"},
		"output": [{"type": "reasoning"}],
		"usage": {"input_tokens": 50000, "output_tokens": 16000}}`

	comp, err := ParseResponse([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, comp.Text)
	assert.Equal(t, "incomplete", comp.Status)
	assert.Equal(t, "resp_9", comp.ResponseID)
	require.NotNil(t, comp.Usage)
	assert.Equal(t, int64(66000), comp.Usage.TotalTokens)
}
