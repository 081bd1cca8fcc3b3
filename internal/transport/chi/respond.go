package chi

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the JSON error envelope.
const (
	codeBadRequest           = "bad_request"
	codeUnauthorized         = "unauthorized"
	codeCatalogUnavailable   = "catalog_unavailable"
	codeTileNotFound         = "tile_not_found"
	codeNoTilesMatch         = "no_tiles_match"
	codeSalesDataUnavailable = "sales_data_unavailable"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
