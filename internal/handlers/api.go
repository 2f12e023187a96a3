package handlers

import (
	"encoding/json"
	"net/http"

	"mantra/backend/internal/logger"
	"mantra/backend/internal/mantra"
)

const maxRequestBody = 64 << 10

type API struct {
	Mantra *mantra.Service
	Logger *logger.LogMiddleware
}

func NewAPI(service *mantra.Service, log *logger.LogMiddleware) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{Mantra: service, Logger: log}
}

func (a *API) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (a *API) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON tolerates unknown fields; clients may send more than we read.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	return decoder.Decode(dst)
}
