package handlers

import "net/http"

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Provider: a.Mantra.ProviderName()})
}
