package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTemplateRepo creates a temporary Loam repository seeded with the given documents
// (file name -> raw content, front-matter included).
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTemplateRepo(t *testing.T, docs map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, append([]loam.Option{loam.WithVersioning(false)}, opts...)...)
	require.NoError(t, err, "Failed to init loam repo")

	ctx := context.Background()
	for name, content := range docs {
		require.NoError(t, repo.Save(ctx, core.Document{ID: name, Content: content}), "Failed to seed %s", name)
	}

	return absPath, repo
}
