package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"promail/internal/account"
	"promail/internal/domain"
	"promail/internal/middleware"
)

const (
	tokenIssuer   = "promail-api"
	tokenAudience = "promail-web"
	tokenLifetime = 24 * time.Hour
)

type signInRequest struct {
	Email string `json:"email"`
}

type signInResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// SignIn establishes the session for an email identity. A returning profile
// is loaded (triggering the daily reset check); a new one is created with
// the full grant.
func (a *App) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") {
		a.error(w, http.StatusBadRequest, "bad_request", "a valid email is required")
		return
	}

	profileID := account.ProfileID(email)
	user, err := a.Accounts.Load(r.Context(), profileID)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = a.Accounts.Create(r.Context(), email)
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign-in failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign in")
		return
	}

	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      profileID,
		Admin:    user.IsAdmin,
		Exp:      time.Now().Add(tokenLifetime).Unix(),
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}

	a.json(w, http.StatusOK, signInResponse{Token: token, User: user})
}

// SignOut clears the stored user record. The usage and visit logs survive.
func (a *App) SignOut(w http.ResponseWriter, r *http.Request) {
	profileID := a.currentProfileID(r)
	if profileID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.Accounts.Clear(r.Context(), profileID); err != nil {
		a.Logger.Error().Err(err).Msg("sign-out failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user with the reset check applied.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	profileID := a.currentProfileID(r)
	if profileID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Accounts.Load(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		return
	}
	a.json(w, http.StatusOK, user)
}
