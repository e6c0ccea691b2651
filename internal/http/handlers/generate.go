package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"promail/internal/domain"
	"promail/internal/middleware"
)

type generateResponse struct {
	Subject string       `json:"subject"`
	Body    string       `json:"body"`
	User    *domain.User `json:"user"`
}

// Generate runs one drafting request through the orchestrator. Provider
// errors never reach the client verbatim.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	profileID := a.currentProfileID(r)
	if profileID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req domain.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Language == "" {
		req.Language = middleware.DraftLanguageFromContext(r.Context())
	}

	result, user, err := a.Orchestrator.Generate(r.Context(), profileID, req, middleware.ClientIP(r))
	switch {
	case err == nil:
		a.json(w, http.StatusOK, generateResponse{Subject: result.Subject, Body: result.Body, User: user})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusUnauthorized, "unauthorized", "sign in before generating")
	case errors.Is(err, domain.ErrEmptyDescription):
		a.error(w, http.StatusBadRequest, "bad_request", "describe the email you need")
	case errors.Is(err, domain.ErrInvalidSelection):
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported language, tone, or category")
	case errors.Is(err, domain.ErrInsufficientPoints):
		a.error(w, http.StatusPaymentRequired, "insufficient_points", "Insufficient points! Each email costs 30 points.")
	case errors.Is(err, domain.ErrDraftFailure):
		a.error(w, http.StatusBadGateway, "generation_failed", "Failed to generate email. Please try again later.")
	default:
		a.Logger.Error().Err(err).Msg("generate failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to generate email")
	}
}
