package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Messages returned in the response envelope.
const (
	msgMissingToken         = "Please pass access Token"
	msgCategoriesFromCache  = "Categories retrieved from cache"
	msgCategoriesRetrieved  = "Categories retrieved successfully"
	msgNoCategoryFound      = "No category found under this parent category"
	msgProductsFromCache    = "Products retrieved from cache"
	msgProductsRetrieved    = "Products retrieved successfully"
	msgDefaultFetchFailure  = "Error in fetching data"
	msgMissingSearchRequest = "Please pass a search query or refinement"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}
