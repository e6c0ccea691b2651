package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"promail/internal/domain"
)

type purchaseRequest struct {
	PackID string `json:"pack_id"`
}

type purchaseResponse struct {
	Pack domain.PointPack `json:"pack"`
	User *domain.User     `json:"user"`
}

// PacksList returns the point packs shown on the pricing screen.
func (a *App) PacksList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"packs": domain.PointPacks})
}

// Purchase simulates payment for a pack and credits its points. Only the
// pack's point count touches the balance.
func (a *App) Purchase(w http.ResponseWriter, r *http.Request) {
	profileID := a.currentProfileID(r)
	if profileID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	pack, err := domain.PackByID(req.PackID)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown point pack")
		return
	}

	user, err := a.Accounts.Credit(r.Context(), profileID, pack.Points)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "sign in before purchasing")
			return
		}
		a.Logger.Error().Err(err).Msg("credit failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to credit points")
		return
	}
	a.json(w, http.StatusOK, purchaseResponse{Pack: pack, User: user})
}
