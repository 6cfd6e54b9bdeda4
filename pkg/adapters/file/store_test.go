package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/easybake/pkg/adapters/file"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunLedgerStoreContract(t, func(t *testing.T) ports.LedgerStore {
		return file.New(t.TempDir())
	})
}

func TestFileStore_DocumentLayout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 2}))
	require.NoError(t, store.Save(ctx, domain.Cookware, domain.Ledger{"pan": 1}))

	pantry, err := os.ReadFile(filepath.Join(dir, file.PantryFile))
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"eggs\": 2\n}", string(pantry))

	assert.FileExists(t, filepath.Join(dir, file.CabinetsFile))

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileStore_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":      "eggs=2",
		"null":          "null",
		"wrong type":    `{"eggs": "two"}`,
		"negative":      `{"eggs": -1}`,
		"array payload": `[1, 2]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, file.PantryFile), []byte(content), 0644))

			_, err := file.New(dir).Load(context.Background(), domain.Ingredients)
			assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		})
	}
}

func TestFileStore_DefaultBasePath(t *testing.T) {
	assert.Equal(t, ".easybake", file.New("").BasePath)
}
