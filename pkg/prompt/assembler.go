package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
)

// Assembler holds already-loaded template text and builds prompts from it.
// It is immutable and safe for concurrent use.
type Assembler struct {
	system   string
	greeting string
	maxWords int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithGreeting enables the greeting prompt with the given template text.
func WithGreeting(text string) Option {
	return func(a *Assembler) {
		a.greeting = text
	}
}

// WithMaxWords sets how many query words the greeting prompt keeps.
func WithMaxWords(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.maxWords = n
		}
	}
}

// New creates an Assembler from the system template text.
func New(system string, opts ...Option) *Assembler {
	a := &Assembler{
		system:   system,
		maxWords: DefaultMaxWords,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// System returns the system message.
func (a *Assembler) System() domain.Message {
	return SystemPrompt(a.system)
}

// UserQuery builds the agent prompt for q.
func (a *Assembler) UserQuery(q string) []domain.Message {
	return UserQueryPrompt(a.system, q)
}

// Greeting builds the greeting prompt for q.
func (a *Assembler) Greeting(q string) []domain.Message {
	return GreetingPrompt(a.greeting, q, a.maxWords)
}

// HasGreeting reports whether a greeting template was configured.
func (a *Assembler) HasGreeting() bool {
	return a.greeting != ""
}

// MaxWords returns the greeting truncation length.
func (a *Assembler) MaxWords() int {
	return a.maxWords
}

// Templates names the template ids to load.
type Templates struct {
	System string
	// Greeting is optional. Empty means the agent runs without a greeting step.
	Greeting string
}

// Load reads the templates from src once and returns an Assembler.
// A missing template is reported as a *domain.ConfigError.
func Load(ctx context.Context, src ports.TemplateSource, tpl Templates, opts ...Option) (*Assembler, error) {
	if tpl.System == "" {
		return nil, &domain.ConfigError{Key: "prompts.system", Err: errors.New("system template id is required")}
	}

	system, err := read(ctx, src, tpl.System)
	if err != nil {
		return nil, err
	}

	if tpl.Greeting != "" {
		greeting, err := read(ctx, src, tpl.Greeting)
		if err != nil {
			return nil, err
		}
		opts = append([]Option{WithGreeting(greeting)}, opts...)
	}

	return New(system, opts...), nil
}

func read(ctx context.Context, src ports.TemplateSource, id string) (string, error) {
	text, err := src.Template(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return "", &domain.ConfigError{Key: id, Err: err}
		}
		return "", &domain.ConfigError{Key: id, Err: fmt.Errorf("failed to read template: %w", err)}
	}
	return text, nil
}
