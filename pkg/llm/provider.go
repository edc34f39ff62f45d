// Package llm defines the provider-agnostic completion contract used by
// the assistant, including image attachments for manual-page grounding.
package llm

import (
	"context"
)

// Message is a role-tagged chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// ImageAttachment carries one manual-page image for a vision-capable
// model. DataURL is a base64 data URL; Detail is a provider hint
// ("low", "high" or "auto").
type ImageAttachment struct {
	DataURL string
	Detail  string
}

// Option allows optional parameters like Temperature and MaxTokens.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any completion backend. Images, when
// present, are attached to the last user message of the conversation.
type Provider interface {
	Chat(ctx context.Context, system string, history []Message, images []ImageAttachment, options ...Option) (string, error)
}
