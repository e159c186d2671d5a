// Package source connects to the tabular sources declared in config and
// fetches named datasets from them.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"lifeviz/internal/config"
	"lifeviz/internal/dataset"
	"lifeviz/internal/logger"
)

var ErrUnknownDataset = errors.New("source: unknown dataset")

// backend reads the raw table behind one source.
type backend interface {
	Fetch(ctx context.Context) (dataset.Table, error)
	Close() error
}

// Handle is a connection to a set of named sources. It is passed explicitly
// to whatever needs to fetch.
type Handle struct {
	mu       sync.Mutex
	sources  map[string]config.SourceConfig
	backends map[string]backend
}

// Connect merges inline and catalog sources and checks that every backing
// file exists. Backends are opened lazily on first fetch.
func Connect(ctx context.Context, cfg config.DataConfig) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	merged := make(map[string]config.SourceConfig)
	for _, src := range cfg.Sources {
		merged[key(src.Name)] = src
	}
	if path := strings.TrimSpace(cfg.CatalogPath); path != "" {
		entries, err := readCatalog(path)
		if err != nil {
			return nil, err
		}
		for _, src := range entries {
			if _, ok := merged[key(src.Name)]; ok {
				logger.Infof("source: catalog entry %s overrides inline config", src.Name)
			}
			merged[key(src.Name)] = src
		}
	}
	if len(merged) == 0 {
		return nil, fmt.Errorf("source: no sources configured")
	}
	for _, src := range merged {
		if err := config.ValidateSource(src); err != nil {
			return nil, err
		}
		if _, err := os.Stat(src.Path); err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}
	}
	h := &Handle{sources: merged, backends: make(map[string]backend)}
	logger.Infof("source: connected %d sources (%s)", len(merged), strings.Join(h.Names(), ", "))
	return h, nil
}

// Names lists the configured dataset names, sorted.
func (h *Handle) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.sources))
	for _, src := range h.sources {
		out = append(out, src.Name)
	}
	sort.Strings(out)
	return out
}

// Source returns the config for a dataset name.
func (h *Handle) Source(name string) (config.SourceConfig, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	src, ok := h.sources[key(name)]
	return src, ok
}

// Dataset fetches the named dataset. Missing required columns surface here
// as dataset.ErrMissingColumn.
func (h *Handle) Dataset(ctx context.Context, name string) (dataset.Dataset, error) {
	src, ok := h.Source(name)
	if !ok {
		return dataset.Dataset{}, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	b, err := h.backend(src)
	if err != nil {
		return dataset.Dataset{}, err
	}
	tbl, err := b.Fetch(ctx)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("source %s: %w", src.Name, err)
	}
	ds, err := dataset.FromTable(src.Name, tbl)
	if err != nil {
		return dataset.Dataset{}, err
	}
	logger.Debugf("source: %s fetched %d rows, %d columns", src.Name, ds.Len(), len(tbl.Columns))
	return ds, nil
}

// Close releases every opened backend.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	var firstErr error
	for k, b := range h.backends {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(h.backends, k)
	}
	return firstErr
}

func (h *Handle) backend(src config.SourceConfig) (backend, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := key(src.Name)
	if b, ok := h.backends[k]; ok {
		return b, nil
	}
	var (
		b   backend
		err error
	)
	switch strings.ToLower(src.Kind) {
	case config.SourceCSV:
		b = newCSVBackend(src.Path)
	case config.SourceSQLite:
		b, err = newSQLiteBackend(src.Path, src.Table)
	default:
		err = fmt.Errorf("source %s: unsupported kind %q", src.Name, src.Kind)
	}
	if err != nil {
		return nil, err
	}
	h.backends[k] = b
	return b, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
