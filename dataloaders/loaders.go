// Package dataloaders wires the engine's input files (card catalog, price
// sources, pack model) through the object cache.
package dataloaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lorekeep/packev/cache"
	"github.com/lorekeep/packev/catalog"
	"github.com/lorekeep/packev/config"
	"github.com/lorekeep/packev/packmodel"
	"github.com/lorekeep/packev/pricefeed"
)

// CatalogCacheLoadFunc parses the configured catalog file.
func CatalogCacheLoadFunc(cfg *config.Config, key string) (interface{}, error) {
	raw, err := os.ReadFile(filepath.Join(cfg.Data.Dir, cfg.Data.CatalogFile))
	if err != nil {
		return nil, err
	}
	return catalog.LoadCards(raw)
}

// Catalog returns the cached card catalog.
func Catalog(cfg *config.Config) ([]catalog.Card, error) {
	obj, err := cache.Load(cfg, "catalog:"+cfg.Data.CatalogFile, CatalogCacheLoadFunc)
	if err != nil {
		return nil, err
	}
	cards, ok := obj.([]catalog.Card)
	if !ok {
		return nil, fmt.Errorf("catalog cache entry has wrong type")
	}
	return cards, nil
}

// SourceCacheLoadFunc indexes one price source's payload. The cache key is
// "source:<name>"; the payload lives at <name>.json under the data dir.
func SourceCacheLoadFunc(cfg *config.Config, key string) (interface{}, error) {
	name := strings.TrimPrefix(key, "source:")
	raw, err := os.ReadFile(filepath.Join(cfg.Data.Dir, name+".json"))
	if err != nil {
		return nil, err
	}
	return pricefeed.DetectAndIndex(name, raw)
}

// Sources indexes every configured price source, keyed by source name.
// A source whose file is missing is reported as an error: a configured
// source with no payload is a setup problem, unlike a printing with no
// price.
func Sources(cfg *config.Config) (map[string]pricefeed.Index, error) {
	indexes := make(map[string]pricefeed.Index, len(cfg.Pricing.Sources))
	for _, name := range cfg.Pricing.Sources {
		obj, err := cache.Load(cfg, "source:"+name, SourceCacheLoadFunc)
		if err != nil {
			return nil, fmt.Errorf("loading price source %s: %w", name, err)
		}
		idx, ok := obj.(pricefeed.Index)
		if !ok {
			return nil, fmt.Errorf("price source cache entry %s has wrong type", name)
		}
		indexes[name] = idx
	}
	return indexes, nil
}

// PackModelCacheLoadFunc parses the configured pack model file.
func PackModelCacheLoadFunc(cfg *config.Config, key string) (interface{}, error) {
	raw, err := os.ReadFile(filepath.Join(cfg.Data.Dir, cfg.Data.ModelFile))
	if err != nil {
		return nil, err
	}
	return packmodel.Load(raw)
}

// PackModel returns the cached pack model.
func PackModel(cfg *config.Config) (*packmodel.Config, error) {
	obj, err := cache.Load(cfg, "packmodel:"+cfg.Data.ModelFile, PackModelCacheLoadFunc)
	if err != nil {
		return nil, err
	}
	model, ok := obj.(*packmodel.Config)
	if !ok {
		return nil, fmt.Errorf("pack model cache entry has wrong type")
	}
	return model, nil
}
