package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pathwaysai/patient-copilot/internal/domain/providers"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	apperrors "github.com/pathwaysai/patient-copilot/pkg/errors"
)

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps domain errors onto HTTP status codes. The two
// pipeline-fatal conditions surface as 503; everything else follows the
// AppError taxonomy.
func respondWithServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, repositories.ErrCatalogUnavailable) {
		respondWithError(w, http.StatusServiceUnavailable, "provider catalog unavailable")
		return
	}
	if errors.Is(err, providers.ErrTranscriptionUnavailable) {
		respondWithError(w, http.StatusServiceUnavailable, "no transcription backend available")
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnavailable:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
