package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	"github.com/pathwaysai/patient-copilot/pkg/config"
)

// defaultPaths are the conventional provider data locations probed when no
// explicit path is configured.
var defaultPaths = []string{
	"./shared-data/providers.json",
	"../shared-data/providers.json",
	"/app/shared-data/providers.json",
}

// FileAdapter implements ProviderCatalog backed by a JSON file. The first
// successful Load populates a process-wide snapshot; Invalidate clears it so
// the next Load re-reads the file. The snapshot pointer is swapped under a
// write lock, so readers always see a complete list from a single load.
type FileAdapter struct {
	paths []string

	mu       sync.RWMutex
	snapshot []*entities.Provider

	// loadMu serializes reloads so at most one file read is in flight while
	// readers continue to serve the previous snapshot.
	loadMu sync.Mutex
}

// NewFileAdapter creates a catalog over the configured provider data file.
func NewFileAdapter(cfg *config.CatalogConfig) *FileAdapter {
	paths := defaultPaths
	if cfg != nil && cfg.Path != "" {
		paths = append([]string{cfg.Path}, defaultPaths...)
	}
	return &FileAdapter{paths: paths}
}

// Load returns the cached provider snapshot, reading from source when the
// cache is empty.
func (a *FileAdapter) Load(ctx context.Context) ([]*entities.Provider, error) {
	a.mu.RLock()
	snapshot := a.snapshot
	a.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	a.loadMu.Lock()
	defer a.loadMu.Unlock()

	// Another reload may have completed while we waited.
	a.mu.RLock()
	snapshot = a.snapshot
	a.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	loaded, err := a.readFromSource()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.snapshot = loaded
	a.mu.Unlock()

	log.Info().Int("providers", len(loaded)).Msg("provider catalog loaded")
	return loaded, nil
}

// Invalidate clears the cached snapshot.
func (a *FileAdapter) Invalidate() {
	a.mu.Lock()
	a.snapshot = nil
	a.mu.Unlock()
	log.Info().Msg("provider catalog cache invalidated")
}

// Specialties returns the sorted set of specialty names in the catalog.
func (a *FileAdapter) Specialties(ctx context.Context) ([]string, error) {
	providers, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, p := range providers {
		if p.Specialty != "" {
			set[p.Specialty] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// Insurances returns the sorted set of insurance names in the catalog.
func (a *FileAdapter) Insurances(ctx context.Context) ([]string, error) {
	providers, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, p := range providers {
		for _, ins := range p.Insurances {
			if ins != "" {
				set[ins] = struct{}{}
			}
		}
	}
	return sortedKeys(set), nil
}

func (a *FileAdapter) readFromSource() ([]*entities.Provider, error) {
	for _, path := range a.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var providers []*entities.Provider
		if err := json.Unmarshal(data, &providers); err != nil {
			return nil, fmt.Errorf("%w: malformed provider data at %s: %v",
				repositories.ErrCatalogUnavailable, path, err)
		}
		return providers, nil
	}
	return nil, fmt.Errorf("%w: no provider data file found", repositories.ErrCatalogUnavailable)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ repositories.ProviderCatalog = (*FileAdapter)(nil)
