package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/david/uni-finder/internal/models"
)

// Catalog is the normalized, read-only working collection for a process.
type Catalog struct {
	Metadata     models.Metadata
	Universities []models.University
	// Dropped counts raw records excluded by the name/rank invariant.
	Dropped int
}

// NewCatalog normalizes a dataset once.
func NewCatalog(ds models.Dataset) *Catalog {
	universities := Normalize(ds.Universities)
	return &Catalog{
		Metadata:     ds.Metadata(),
		Universities: universities,
		Dropped:      len(ds.Universities) - len(universities),
	}
}

// EmptyCatalog is what a failed load resolves to.
func EmptyCatalog() *Catalog {
	return &Catalog{Universities: []models.University{}}
}

// ReadDataset decodes a dataset document.
func ReadDataset(r io.Reader) (models.Dataset, error) {
	var ds models.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return models.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// OpenDataset reads the dataset from a file path or an http(s) URL.
func OpenDataset(ctx context.Context, source string, fetcher Fetcher) (models.Dataset, error) {
	if source == "" {
		return models.Dataset{}, fmt.Errorf("no dataset source configured")
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if fetcher == nil {
			return models.Dataset{}, fmt.Errorf("no fetcher for %s", source)
		}
		doc, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return models.Dataset{}, fmt.Errorf("fetch dataset: %w", err)
		}
		defer doc.Body.Close()
		return ReadDataset(doc.Body)
	}

	f, err := os.Open(source)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// Load opens and normalizes the dataset. Any failure is logged and resolves to
// an empty catalog so callers always get a usable collection.
func Load(ctx context.Context, source string, fetcher Fetcher, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	ds, err := OpenDataset(ctx, source, fetcher)
	if err != nil {
		logger.Warn("dataset load failed, serving empty collection",
			zap.String("source", source), zap.Error(err))
		return EmptyCatalog()
	}

	cat := NewCatalog(ds)
	if cat.Dropped > 0 {
		logger.Debug("dropped records without name or positive rank", zap.Int("dropped", cat.Dropped))
	}
	logger.Info("dataset loaded",
		zap.String("source", source),
		zap.String("generated_on", cat.Metadata.GeneratedOn),
		zap.Int("universities", len(cat.Universities)),
		zap.Int("dropped", cat.Dropped))
	return cat
}
