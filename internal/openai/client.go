// Package openai calls the OpenAI Responses API, or its Azure OpenAI
// equivalent, to turn a message list into generated text.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/model"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	azurePath      = "/openai/v1/responses"
	maxBodySize    = 8 << 20 // 8 MB
	userAgent      = "codeassist/1.0"
)

var (
	// ErrUnauthorized indicates the API key is missing, expired, or invalid.
	ErrUnauthorized = errors.New("openai: unauthorized (check API key)")
	// ErrRateLimited indicates the API rate limit or quota was hit.
	ErrRateLimited = errors.New("openai: rate limited")
)

// Client sends completion requests to OpenAI or Azure OpenAI.
type Client struct {
	endpoint string
	headers  http.Header
	timeout  time.Duration
	http     *http.Client
	log      zerolog.Logger
}

// NewClient builds a client for the resolved credentials. Azure is used
// only when no OpenAI key is set. A timeout of 0 leaves calls unbounded.
func NewClient(creds config.Credentials, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	c := &Client{
		headers: make(http.Header),
		timeout: timeout,
		http:    &http.Client{},
		log:     log.With().Str("component", "openai").Logger(),
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")
	c.headers.Set("User-Agent", userAgent)

	switch {
	case creds.OpenAIKey != "":
		base := strings.TrimRight(creds.OpenAIBaseURL, "/")
		if base == "" {
			base = defaultBaseURL
		}
		c.endpoint = base + "/responses"
		c.headers.Set("Authorization", "Bearer "+creds.OpenAIKey)
	case creds.UseAzure():
		endpoint := strings.TrimRight(creds.AzureEndpoint, "/") + azurePath
		if creds.AzureVersion != "" {
			endpoint += "?api-version=" + url.QueryEscape(creds.AzureVersion)
		}
		c.endpoint = endpoint
		c.headers.Set("api-key", creds.AzureKey)
	default:
		return nil, config.ErrNoCredentials
	}

	if _, err := url.Parse(c.endpoint); err != nil {
		return nil, fmt.Errorf("openai: bad endpoint %q: %w", c.endpoint, err)
	}
	return c, nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Complete sends messages to modelID and returns the generated text and
// reported usage. Nothing is retried.
func (c *Client) Complete(ctx context.Context, modelID string, messages []model.Message) (model.Completion, error) {
	payload, err := json.Marshal(responsesRequest{Model: modelID, Input: messages})
	if err != nil {
		return model.Completion{}, fmt.Errorf("openai: encoding request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.Completion{}, fmt.Errorf("openai: creating request: %w", err)
	}
	req.Header = c.headers.Clone()

	start := time.Now()
	c.log.Debug().Str("model", modelID).Int("messages", len(messages)).Int("bytes", len(payload)).Msg("sending completion request")

	//nolint:gosec // URL comes from configuration
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Completion{}, fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.Completion{}, fmt.Errorf("openai: reading response: %w", err)
	}

	c.log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("completion response")

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.Completion{}, fmt.Errorf("%w: %s", ErrUnauthorized, errorMessage(body))
	case http.StatusTooManyRequests:
		return model.Completion{}, fmt.Errorf("%w: %s", ErrRateLimited, errorMessage(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Completion{}, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	return ParseResponse(body)
}

// ParseResponse extracts output text, usage, and id from a Responses API body.
// Text is the concatenation of every output_text part of every message item,
// falling back to a top-level output_text field.
func ParseResponse(body []byte) (model.Completion, error) {
	if !gjson.ValidBytes(body) {
		return model.Completion{}, errors.New("openai: response is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	if msg := root.Get("error.message"); msg.Exists() && msg.String() != "" {
		return model.Completion{}, &APIError{StatusCode: http.StatusOK, Message: msg.String()}
	}

	var sb strings.Builder
	root.Get("output").ForEach(func(_, item gjson.Result) bool {
		if item.Get("type").String() != "message" {
			return true
		}
		item.Get("content").ForEach(func(_, part gjson.Result) bool {
			if part.Get("type").String() == "output_text" {
				sb.WriteString(part.Get("text").String())
			}
			return true
		})
		return true
	})

	text := sb.String()
	if text == "" {
		text = root.Get("output_text").String()
	}

	// A reply can be billed and still carry no text, e.g. an incomplete
	// reasoning run; the caller records it like any other.
	comp := model.Completion{
		Text:       text,
		ResponseID: root.Get("id").String(),
		Status:     root.Get("status").String(),
	}
	if u := root.Get("usage"); u.Exists() {
		in := u.Get("input_tokens").Int()
		out := u.Get("output_tokens").Int()
		if in != 0 || out != 0 {
			comp.Usage = model.NewUsage(in, out)
		}
	}
	return comp, nil
}

// errorMessage pulls error.message out of an error body, or a trimmed
// prefix of the raw body when it is not the usual shape.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
