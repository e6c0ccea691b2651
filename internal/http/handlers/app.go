package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"promail/internal/account"
	"promail/internal/draft"
	"promail/internal/middleware"
	"promail/internal/usage"
)

// App is the handler container holding the core services.
type App struct {
	Accounts     *account.Manager
	Recorder     *usage.Recorder
	Orchestrator *draft.Orchestrator
	JWTSecret    string
	Logger       zerolog.Logger
}

func NewApp(accounts *account.Manager, recorder *usage.Recorder, orchestrator *draft.Orchestrator, jwtSecret string, logger zerolog.Logger) *App {
	return &App{
		Accounts:     accounts,
		Recorder:     recorder,
		Orchestrator: orchestrator,
		JWTSecret:    jwtSecret,
		Logger:       logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

func (a *App) currentProfileID(r *http.Request) string {
	return middleware.ProfileIDFromContext(r.Context())
}
