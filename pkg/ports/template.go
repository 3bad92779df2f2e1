package ports

import "context"

// TemplateSource defines how prompt templates are retrieved.
// This allows the storage layer (Loam, Redis, Memory) to be decoupled from the assembler.
type TemplateSource interface {
	// Template returns the raw text of the template identified by id.
	// It returns an error wrapping domain.ErrTemplateNotFound when the id is unknown.
	Template(ctx context.Context, id string) (string, error)
}

// TemplateLister is implemented by sources that can enumerate their templates.
// It is used for introspection (e.g. 'aura validate').
type TemplateLister interface {
	ListTemplates(ctx context.Context) ([]string, error)
}
