// Package anthropic implements completion.Completer on top of the official Anthropic SDK.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/domain"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "claude-sonnet-4-5-20250929"
	// DefaultMaxTokens is required by the Messages API.
	DefaultMaxTokens = 4096
)

// Ensure Provider implements completion.Completer.
var _ completion.Completer = (*Provider)(nil)

// Config holds Anthropic provider configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Provider calls the Messages API.
type Provider struct {
	config Config
	client anthropic.Client
}

// New creates a new Anthropic provider.
func New(config Config, opts ...option.RequestOption) *Provider {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}
	options = append(options, opts...)

	return &Provider{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Complete implements completion.Completer.
// System messages are sent through the dedicated system field.
func (p *Provider) Complete(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
	var system []string
	conversation := make([]anthropic.MessageParam, 0, len(msgs))

	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleAssistant:
			conversation = append(conversation, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			conversation = append(conversation, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		Messages:  conversation,
		MaxTokens: p.config.MaxTokens,
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n")}}
	}
	if p.config.Temperature > 0 {
		params.Temperature = param.NewOpt(p.config.Temperature)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return domain.Message{}, fmt.Errorf("anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return domain.AssistantMessage(sb.String()), nil
}
