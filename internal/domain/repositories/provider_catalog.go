package repositories

import (
	"context"
	"errors"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
)

// ErrCatalogUnavailable is returned when no provider data source can be
// located or the source is not well-formed. It is fatal to any request that
// needs the catalog.
var ErrCatalogUnavailable = errors.New("provider catalog unavailable")

// ProviderCatalog is the sole owner of provider records. Load returns the
// current snapshot, populating a process-wide cache on first success;
// Invalidate clears the cache so the next Load re-reads the source. Readers
// always observe a complete snapshot from a single load, never a mix of two.
type ProviderCatalog interface {
	// Load returns the cached provider snapshot, reading from source when
	// the cache is empty.
	Load(ctx context.Context) ([]*entities.Provider, error)

	// Invalidate clears the cached snapshot.
	Invalidate()

	// Specialties returns the set of specialty names present in the catalog.
	Specialties(ctx context.Context) ([]string, error)

	// Insurances returns the set of insurance names present in the catalog.
	Insurances(ctx context.Context) ([]string, error)
}

// ProviderSearchRepository indexes catalog providers for free-text search.
type ProviderSearchRepository interface {
	// IndexProviders replaces the search index contents with the given
	// snapshot.
	IndexProviders(ctx context.Context, providers []*entities.Provider) error

	// Search returns providers matching the query text.
	Search(ctx context.Context, query string, limit int) ([]*entities.Provider, error)
}
