package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/aura/pkg/domain"
)

// Source implements ports.TemplateSource using an in-memory map.
type Source struct {
	mu        sync.RWMutex
	templates map[string]string
}

// NewSource creates a new Source with the provided templates (id -> text).
func NewSource(data map[string]string) *Source {
	templates := make(map[string]string, len(data))
	for k, v := range data {
		templates[k] = v
	}
	return &Source{templates: templates}
}

// Template retrieves the text of a template by id.
func (s *Source) Template(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
	}
	return text, nil
}

// Set stores or overrides a template.
func (s *Source) Set(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[id] = text
}

// ListTemplates returns all available template ids.
func (s *Source) ListTemplates(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.templates))
	for k := range s.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
