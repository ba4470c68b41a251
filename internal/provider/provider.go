// Package provider defines the completion-provider boundary and its
// Anthropic implementation.
package provider

import (
	"context"
	"errors"
)

// ErrConnection marks a connection-level fault: the request never reached
// the provider or no response came back. Unlike per-request provider
// errors, connection faults abort candidate generation entirely.
var ErrConnection = errors.New("provider connection fault")

// IsConnectionFault reports whether err is a connection-level fault.
func IsConnectionFault(err error) bool {
	return errors.Is(err, ErrConnection)
}

// Role identifies the author of a message.
type Role string

const (
	// RoleSystem is instruction context for the provider.
	RoleSystem Role = "system"
	// RoleUser is the requesting side of the conversation.
	RoleUser Role = "user"
	// RoleAssistant is prior provider output.
	RoleAssistant Role = "assistant"
)

// Message is one turn of the prompt conversation.
type Message struct {
	// Role is who authored the message.
	Role Role `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
}

// Options controls a single completion request.
type Options struct {
	// Temperature is the sampling temperature. Zero means provider default.
	Temperature float64
	// MaxTokens caps the completion length.
	MaxTokens int
}

// Usage is the provider-reported token accounting for one request.
type Usage struct {
	// PromptTokens is the input token count.
	PromptTokens int `json:"prompt_tokens"`
	// CompletionTokens is the output token count.
	CompletionTokens int `json:"completion_tokens"`
}

// Completion is one provider response.
type Completion struct {
	// Content is the completion text.
	Content string `json:"content"`
	// Usage is the token accounting, when the provider reported it.
	Usage *Usage `json:"usage,omitempty"`
}

// CompletionProvider issues completion requests. Implementations must
// honor ctx between requests; cancellation below the provider boundary is
// not guaranteed.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []Message, opts Options) (*Completion, error)
}
