package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

func TestSeedCatalog(t *testing.T) {
	isolate(t)

	seed, err := seedCatalog(&dbInitFlagValues{})
	require.NoError(t, err)
	assert.Nil(t, seed)

	seed, err = seedCatalog(&dbInitFlagValues{sample: true})
	require.NoError(t, err)
	assert.Len(t, seed.Records(), 5)
	assert.Len(t, seed.Catalogs(), 3)

	doc := `catalogs:
  - id: 11111111-2222-4333-8444-555555555555
    name: Finance
metadatas:
  - name: ledger
    creator: acct
    sourceType: ENGINE
    catalogIds: [11111111-2222-4333-8444-555555555555]
    tags: [monthly]
`
	require.NoError(t, os.WriteFile("catalog.yaml", []byte(doc), 0o644))
	seed, err = seedCatalog(&dbInitFlagValues{from: "catalog.yaml"})
	require.NoError(t, err)
	require.Len(t, seed.Records(), 1)
	assert.Equal(t, "ledger", seed.Records()[0].Name)

	require.NoError(t, os.WriteFile("broken.yaml", []byte("metadatas: [ {"), 0o644))
	_, err = seedCatalog(&dbInitFlagValues{from: "broken.yaml"})
	assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)

	_, err = seedCatalog(&dbInitFlagValues{from: "missing.yaml"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDBInit_FlagConflicts(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "db", "init", "--sample", "--from", "x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
	assert.Equal(t, dexplore.ExitUsageError, dexplore.ExitCodeForError(err))

	_, _, err = execute(t, "db", "init", "--connection", "postgresql://localhost/dexplore", "-h", "db")
	assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)

	_, _, err = execute(t, "db", "init", "--aws", "--google")
	assert.ErrorIs(t, err, dexplore.ErrInvalidConfig)
}

func TestDBInit_HasNoServerFlags(t *testing.T) {
	assert.Nil(t, dbInitCmd.Flags().Lookup("server"))
	assert.Nil(t, dbInitCmd.Flags().Lookup("demo"))
	assert.NotNil(t, dbInitCmd.Flags().Lookup("connection"))
}
