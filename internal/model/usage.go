package model

// Usage is the token accounting reported for one completion.
// A nil *Usage means the endpoint reported nothing.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// NewUsage builds a Usage with TotalTokens = in + out.
func NewUsage(in, out int64) *Usage {
	return &Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// IsZero reports whether u is nil or carries no tokens.
func (u *Usage) IsZero() bool {
	return u == nil || (u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0)
}

// Input returns the input token count, 0 for nil.
func (u *Usage) Input() int64 {
	if u == nil {
		return 0
	}
	return u.InputTokens
}

// Output returns the output token count, 0 for nil.
func (u *Usage) Output() int64 {
	if u == nil {
		return 0
	}
	return u.OutputTokens
}

// Message is a role/content pair sent to the completion endpoint.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completion is a successful response from the completion endpoint.
// Text may be empty when the endpoint stopped early; Usage is still billed.
type Completion struct {
	Text       string
	Usage      *Usage
	ResponseID string
	Status     string
}
