package openai

import (
	"fmt"

	"github.com/theirongolddev/codeassist/internal/model"
)

// responsesRequest is the body of POST /responses.
type responsesRequest struct {
	Model string          `json:"model"`
	Input []model.Message `json:"input"`
}

// APIError is an error reply from the completion endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
}
