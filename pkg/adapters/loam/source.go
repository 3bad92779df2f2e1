package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/loam"
)

// Source adapts the Loam library to the ports.TemplateSource interface.
// Each template is a markdown document; its body (without front-matter) is the template text.
type Source struct {
	Repo *loam.TypedRepository[TemplateMetadata]
}

// New creates a new Loam adapter over an existing typed repository.
func New(repo *loam.TypedRepository[TemplateMetadata]) *Source {
	return &Source{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric front-matter consistent across serializers.
	// Read-only mode avoids Loam's sandbox behavior; templates are never written here.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[TemplateMetadata](repo)), nil
}

// Template retrieves the body of the template document identified by id.
// Loam resolves "system" to "system.md".
func (s *Source) Template(ctx context.Context, id string) (string, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: %s (loam: %v)", domain.ErrTemplateNotFound, id, err)
	}
	return strings.TrimSpace(doc.Content), nil
}

// ListTemplates lists all template ids in the repository.
func (s *Source) ListTemplates(ctx context.Context) ([]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: template '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

// Describe returns the front-matter of a template.
func (s *Source) Describe(ctx context.Context, id string) (TemplateMetadata, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return TemplateMetadata{}, fmt.Errorf("%w: %s (loam: %v)", domain.ErrTemplateNotFound, id, err)
	}
	meta := doc.Data
	if meta.ID == "" {
		meta.ID = trimExtension(doc.ID)
	}
	return meta, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
