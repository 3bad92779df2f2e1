package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/internal/config"
	"github.com/aretw0/aura/pkg/adapters/loam"
	"github.com/aretw0/aura/pkg/adapters/memory"
	"github.com/aretw0/aura/pkg/adapters/redis"
	"github.com/aretw0/aura/pkg/completion"
	"github.com/aretw0/aura/pkg/completion/anthropic"
	"github.com/aretw0/aura/pkg/completion/mock"
	"github.com/aretw0/aura/pkg/completion/openai"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/observability"
	"github.com/aretw0/aura/pkg/ports"
	"github.com/aretw0/aura/pkg/prompt"
)

// App bundles everything a command needs to serve the agent.
type App struct {
	Config  *config.Config
	Agent   *aura.Agent
	Metrics *observability.Metrics
	Logger  *slog.Logger

	closers []io.Closer
}

// Close releases the template source connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Build wires the agent from cfg: template source, prompts, completion provider and hooks.
// Templates are read once here; a missing template fails startup.
// overrides (template id -> text) take precedence over the configured source.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, overrides map[string]string) (*App, error) {
	app := &App{Config: cfg, Logger: logger}
	if cfg.Metrics.Enabled {
		app.Metrics = observability.NewMetrics(nil)
	}

	src, closer, err := NewTemplateSource(cfg.Prompts)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	if len(overrides) > 0 {
		src = Overlay(memory.NewSource(overrides), src)
	}

	asm, err := prompt.Load(ctx, src, prompt.Templates{
		System:   cfg.Prompts.System,
		Greeting: cfg.Prompts.Greeting,
	}, prompt.WithMaxWords(cfg.Prompts.MaxWords))
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error loading prompts: %w", err)
	}

	c, err := NewCompleter(cfg.LLM, logger, app.Metrics)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	agent, err := aura.New(asm, c, AgentOptions(cfg, logger, app.Metrics)...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing agent: %w", err)
	}
	app.Agent = agent
	return app, nil
}

// AgentOptions maps the configuration to agent options.
func AgentOptions(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) []aura.Option {
	opts := []aura.Option{aura.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, aura.WithLifecycleHooks(metrics.Hooks()))
	}
	if !cfg.Errors.Expose {
		opts = append(opts, aura.WithRedactedErrors())
	}
	return opts
}

// NewTemplateSource opens the configured template source.
// The returned closer is nil for sources holding no connection.
func NewTemplateSource(cfg config.PromptsConfig) (ports.TemplateSource, io.Closer, error) {
	switch cfg.Source {
	case config.SourceDir:
		src, err := loam.Open(cfg.Dir)
		if err != nil {
			return nil, nil, &domain.ConfigError{Key: "prompts.dir", Err: err}
		}
		return src, nil, nil
	case config.SourceRedis:
		src, err := redis.NewFromURL(cfg.RedisURL, redis.WithPrefix(cfg.RedisPrefix))
		if err != nil {
			return nil, nil, &domain.ConfigError{Key: "prompts.redis_url", Err: err}
		}
		return src, src, nil
	default:
		return nil, nil, &domain.ConfigError{Key: "prompts.source", Err: fmt.Errorf("unknown source %q", cfg.Source)}
	}
}

// NewCompleter creates the completion provider and wraps it with the configured middleware.
// Order, outermost first: observer, logging, retry, timeout. Each retry gets its own timeout.
func NewCompleter(cfg config.LLMConfig, logger *slog.Logger, metrics *observability.Metrics) (completion.Completer, error) {
	var base completion.Completer
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base = openai.New(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	case config.ProviderAnthropic:
		base = anthropic.New(anthropic.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	case config.ProviderMock:
		base = mock.New()
	default:
		return nil, &domain.ConfigError{Key: "llm.provider", Err: fmt.Errorf("unknown provider %q", cfg.Provider)}
	}

	var mws []completion.Middleware
	if metrics != nil {
		mws = append(mws, completion.WithObserver(metrics.CompletionObserver()))
	}
	mws = append(mws, completion.WithLogging(logger))
	if cfg.Retries > 0 {
		mws = append(mws, completion.WithRetry(completion.RetryConfig{MaxRetries: cfg.Retries}))
	}
	if cfg.Timeout > 0 {
		mws = append(mws, completion.WithTimeout(cfg.Timeout))
	}

	return completion.Chain(base, mws...), nil
}

type overlay struct {
	top  ports.TemplateSource
	base ports.TemplateSource
}

// Overlay reads templates from top first and falls back to base when top has no such id.
func Overlay(top, base ports.TemplateSource) ports.TemplateSource {
	return overlay{top: top, base: base}
}

func (o overlay) Template(ctx context.Context, id string) (string, error) {
	text, err := o.top.Template(ctx, id)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		return o.base.Template(ctx, id)
	}
	return text, err
}
