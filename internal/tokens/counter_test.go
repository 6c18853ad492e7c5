package tokens

import (
	"testing"

	"github.com/theirongolddev/codeassist/internal/model"
)

func TestApproximateCount(t *testing.T) {
	c := &Counter{}
	if c.Exact() {
		t.Fatal("zero Counter should approximate")
	}

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		if got := c.Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCountMessages(t *testing.T) {
	c := &Counter{}
	if got := c.CountMessages(nil); got != 0 {
		t.Errorf("CountMessages(nil) = %d, want 0", got)
	}

	msgs := []model.Message{
		{Role: model.RoleSystem, Content: "abcdefgh"}, // role 2, content 2
		{Role: model.RoleUser, Content: "abcd"},       // role 1, content 1
	}
	// reply 3 + (3+2+2) + (3+1+1)
	if got := c.CountMessages(msgs); got != 15 {
		t.Errorf("CountMessages = %d, want 15", got)
	}
}
