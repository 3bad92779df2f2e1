package ports

import (
	"context"
	"testing"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTemplateSourceContract runs a suite of tests to verify that a TemplateSource implementation
// adheres to the defined interface contract. The source must already hold the fixtures.
func RunTemplateSourceContract(t *testing.T, src TemplateSource, fixtures map[string]string) {
	ctx := context.Background()

	t.Run("Resolve Known Templates", func(t *testing.T) {
		for id, want := range fixtures {
			got, err := src.Template(ctx, id)
			require.NoError(t, err, "Template(%q) should not return error", id)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Idempotent Reads", func(t *testing.T) {
		for id := range fixtures {
			first, err := src.Template(ctx, id)
			require.NoError(t, err)
			second, err := src.Template(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	})

	t.Run("Unknown Template", func(t *testing.T) {
		_, err := src.Template(ctx, "contract-missing-template")
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	lister, ok := src.(TemplateLister)
	if !ok {
		return
	}
	t.Run("List", func(t *testing.T) {
		ids, err := lister.ListTemplates(ctx)
		require.NoError(t, err)
		for id := range fixtures {
			assert.Contains(t, ids, id)
		}
	})
}
