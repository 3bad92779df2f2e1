package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces template keys.
const DefaultPrefix = "aura:prompt:"

// Source implements ports.TemplateSource using Redis strings stored under <prefix><id>.
type Source struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*Source)

// WithPrefix sets the key prefix for templates.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL sets the expiration applied by Save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		s.ttl = ttl
	}
}

// New creates a new Redis source with options.
func New(address, password string, db int, opts ...Option) *Source {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromURL creates a new Redis source from a redis:// URL.
func NewFromURL(url string, opts ...Option) (*Source, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), opts...), nil
}

// NewFromClient creates a new Redis source using an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Source {
	s := &Source{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) key(id string) string {
	return s.prefix + id
}

// Template retrieves the text stored for id.
func (s *Source) Template(ctx context.Context, id string) (string, error) {
	text, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, backend.Nil) {
		return "", fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get template from redis: %w", err)
	}
	return text, nil
}

// Save stores a template, overriding any previous text.
func (s *Source) Save(ctx context.Context, id, text string) error {
	if id == "" {
		return errors.New("template id is required")
	}
	if err := s.client.Set(ctx, s.key(id), text, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save template to redis: %w", err)
	}
	return nil
}

// Delete removes a template.
func (s *Source) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete template from redis: %w", err)
	}
	return nil
}

// ListTemplates returns the ids of all templates under the prefix.
func (s *Source) ListTemplates(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan templates: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Ping checks connectivity.
func (s *Source) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Source) Close() error {
	return s.client.Close()
}
