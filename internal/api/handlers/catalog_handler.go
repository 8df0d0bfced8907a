package handlers

import (
	"net/http"
	"strconv"

	"github.com/pathwaysai/patient-copilot/internal/application/services"
)

// CatalogHandler exposes the provider catalog's derived read models.
type CatalogHandler struct {
	intake *services.IntakeService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(intake *services.IntakeService) *CatalogHandler {
	return &CatalogHandler{intake: intake}
}

// ListSpecialties handles GET /api/specialties
func (h *CatalogHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.intake.AvailableSpecialties(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, specialties)
}

// ListInsurances handles GET /api/insurances
func (h *CatalogHandler) ListInsurances(w http.ResponseWriter, r *http.Request) {
	insurances, err := h.intake.AvailableInsurances(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, insurances)
}

// InvalidateCatalog handles POST /api/catalog/invalidate
func (h *CatalogHandler) InvalidateCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.intake.InvalidateCatalog(r.Context()); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "catalog cache invalidated",
	})
}

// SearchProviders handles GET /api/providers/search
func (h *CatalogHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	providerList, err := h.intake.SearchProviders(r.Context(), query, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to search providers")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providerList,
		"count":     len(providerList),
	})
}
