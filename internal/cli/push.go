package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/aura/pkg/adapters/redis"
	"github.com/aretw0/aura/pkg/ports"
)

// Source lists and reads templates.
type Source interface {
	ports.TemplateSource
	ports.TemplateLister
}

// PushPrompts copies every template of src into dst and returns the ids it wrote.
func PushPrompts(ctx context.Context, src Source, dst *redis.Source, logger *slog.Logger) ([]string, error) {
	ids, err := src.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pushed := make([]string, 0, len(ids))
	for _, id := range ids {
		text, err := src.Template(ctx, id)
		if err != nil {
			return pushed, fmt.Errorf("failed to read template %q: %w", id, err)
		}
		if err := dst.Save(ctx, id, text); err != nil {
			return pushed, fmt.Errorf("failed to save template %q: %w", id, err)
		}
		logger.Debug("template pushed", "id", id, "size", len(text))
		pushed = append(pushed, id)
	}
	return pushed, nil
}
