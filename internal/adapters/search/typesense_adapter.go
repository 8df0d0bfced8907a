package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	tsclient "github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements provider search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProviderSearchRepository
var _ repositories.ProviderSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the providers collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: tsclient.ProvidersCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "specialty", Type: "string", Facet: pointer.True()},
			{Name: "zip_code", Type: "string"},
			{Name: "insurances", Type: "string[]"},
			{Name: "rating", Type: "float"},
			{Name: "availability_date", Type: "string", Optional: pointer.True()},
		},
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// IndexProviders upserts the full provider catalog into the search index
func (a *TypesenseAdapter) IndexProviders(ctx context.Context, providers []*entities.Provider) error {
	for i, provider := range providers {
		id := provider.ID
		if id == "" {
			id = fmt.Sprintf("provider-%d", i)
		}

		document := map[string]interface{}{
			"id":                id,
			"name":              provider.Name,
			"specialty":         provider.Specialty,
			"zip_code":          provider.ZipCode,
			"insurances":        provider.Insurances,
			"rating":            provider.Rating,
			"availability_date": provider.Availability,
		}

		if _, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Upsert(ctx, document); err != nil {
			return fmt.Errorf("failed to index provider %q: %w", provider.Name, err)
		}
	}

	return nil
}

// Search performs a free-text search over provider names, specialties and insurances
func (a *TypesenseAdapter) Search(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	if strings.TrimSpace(query) == "" {
		query = "*"
	}
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,specialty,insurances"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	providers := []*entities.Provider{}
	if result.Hits == nil {
		return providers, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		provider := &entities.Provider{}
		if val, ok := doc["id"].(string); ok {
			provider.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			provider.Name = val
		}
		if val, ok := doc["specialty"].(string); ok {
			provider.Specialty = val
		}
		if val, ok := doc["zip_code"].(string); ok {
			provider.ZipCode = val
		}
		if val, ok := doc["rating"].(float64); ok {
			provider.Rating = val
		}
		if val, ok := doc["availability_date"].(string); ok {
			provider.Availability = val
		}
		if raw, ok := doc["insurances"].([]interface{}); ok {
			for _, item := range raw {
				if s, ok := item.(string); ok {
					provider.Insurances = append(provider.Insurances, s)
				}
			}
		}

		providers = append(providers, provider)
	}

	return providers, nil
}
