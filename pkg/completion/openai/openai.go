// Package openai implements completion.Completer on top of the official OpenAI SDK.
// Any OpenAI-compatible endpoint can be used through Config.BaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

// ErrNoChoices is returned when the API answers without any choice.
var ErrNoChoices = errors.New("no choices returned from OpenAI")

// Ensure Provider implements completion.Completer.
var _ completion.Completer = (*Provider)(nil)

// Config holds OpenAI provider configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Provider calls the chat completions API.
type Provider struct {
	config Config
	client openaisdk.Client
}

// New creates a new OpenAI provider.
func New(config Config, opts ...option.RequestOption) *Provider {
	if config.Model == "" {
		config.Model = DefaultModel
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}
	options = append(options, opts...)

	return &Provider{
		config: config,
		client: openaisdk.NewClient(options...),
	}
}

// Complete implements completion.Completer.
func (p *Provider) Complete(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
	params := openaisdk.ChatCompletionNewParams{
		Messages: toParams(msgs),
		Model:    openaisdk.ChatModel(p.config.Model),
	}
	if p.config.Temperature > 0 {
		params.Temperature = param.NewOpt(p.config.Temperature)
	}
	if p.config.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(p.config.MaxTokens)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Message{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Message{}, ErrNoChoices
	}
	return domain.AssistantMessage(resp.Choices[0].Message.Content), nil
}

func toParams(msgs []domain.Message) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openaisdk.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, openaisdk.AssistantMessage(m.Content))
		default:
			out = append(out, openaisdk.UserMessage(m.Content))
		}
	}
	return out
}
