package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mantra/backend/internal/mantra"
)

func (a *API) GenerateMantra(w http.ResponseWriter, r *http.Request) {
	var req mantra.GenerationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := a.Mantra.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, mantra.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Logger.Logger(r.Context()).Error("[API] Mantra generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate mantra")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
