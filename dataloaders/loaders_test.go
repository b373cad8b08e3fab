package dataloaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/packev/cache"
	"github.com/lorekeep/packev/config"
)

func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	catalogJSON := `[
		{"id": "tfc-1", "name": "Ariel", "rarity": "Rare", "set_code": "TFC"},
		{"id": "tfc-2", "name": "Elsa", "rarity": "Enchanted", "set_code": "TFC",
		 "finishes": ["special"]}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), []byte(catalogJSON), 0o644))

	rowsJSON := `[{"printing_id": "tfc-1-base", "market": 2.0}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rowsource.json"), []byte(rowsJSON), 0o644))

	nestedJSON := `{"tfc-1": {"foil": {"market": 9.0}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nestedsource.json"), []byte(nestedJSON), 0o644))

	modelYAML := `
rare_slot_odds:
  rare: 1.0
slots:
  rare_or_higher_slots: 1
packs_per_box: 24
boxes_per_case: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "packmodel.yaml"), []byte(modelYAML), 0o644))

	cache.CreateGlobalObjectCache()
	return &config.Config{
		Data: config.DataConfig{
			Dir:         dir,
			CatalogFile: "catalog.json",
			ModelFile:   "packmodel.yaml",
		},
		Pricing: config.PricingConfig{
			Sources: []string{"rowsource", "nestedsource"},
		},
	}
}

func TestCatalog(t *testing.T) {
	cfg := writeFixtures(t)
	cards, err := Catalog(cfg)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	// Second load hits the cache and returns the same data.
	again, err := Catalog(cfg)
	require.NoError(t, err)
	assert.Equal(t, cards, again)
}

func TestSources(t *testing.T) {
	cfg := writeFixtures(t)
	indexes, err := Sources(cfg)
	require.NoError(t, err)
	require.Len(t, indexes, 2)
	assert.Equal(t, 2.0, *indexes["rowsource"]["tfc-1-base"].Market)
	assert.Equal(t, 9.0, *indexes["nestedsource"]["tfc-1-foil"].Market)
}

func TestSourcesMissingFile(t *testing.T) {
	cfg := writeFixtures(t)
	cfg.Pricing.Sources = []string{"ghost"}
	_, err := Sources(cfg)
	require.Error(t, err)
}

func TestPackModel(t *testing.T) {
	cfg := writeFixtures(t)
	model, err := PackModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, 24, model.PacksPerBox)
	assert.Equal(t, 1, model.Slots.RareOrHigher)
}
