package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archboard/archboard-backend/internal/logger"
)

func TestStaticDirectoryFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `entities:
  - ref: component:default/checkout
    team: payments
    type: service
  - ref: component:search
    team: discovery
    type: service
  - ref: "not a ref"
    team: nobody
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	directory, err := NewStaticDirectoryFromFile(path, logger.NewNop())
	require.NoError(t, err)

	ctx := context.Background()

	entity, err := directory.Resolve(ctx, "component:default/checkout")
	require.NoError(t, err)
	require.NotNil(t, entity)
	require.Equal(t, "payments", entity.Team)

	// short form resolves through canonicalization
	entity, err = directory.Resolve(ctx, "component:default/search")
	require.NoError(t, err)
	require.NotNil(t, entity)
	require.Equal(t, "discovery", entity.Team)

	// unknown and malformed refs resolve to nothing, not an error
	entity, err = directory.Resolve(ctx, "component:default/missing")
	require.NoError(t, err)
	require.Nil(t, entity)
	entity, err = directory.Resolve(ctx, "garbage")
	require.NoError(t, err)
	require.Nil(t, entity)

	// the malformed entry was skipped on load
	all, err := directory.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestStaticDirectoryFromMissingFile(t *testing.T) {
	_, err := NewStaticDirectoryFromFile(filepath.Join(t.TempDir(), "nope.yaml"), logger.NewNop())
	require.Error(t, err)
}
