package handlers

import (
	"net/http"

	"promail/internal/analytics"
	"promail/internal/middleware"
)

// VisitCreate appends one visit entry; the frontend calls it on page load,
// signed in or not.
func (a *App) VisitCreate(w http.ResponseWriter, r *http.Request) {
	if err := a.Recorder.RecordVisit(r.Context()); err != nil {
		a.Logger.Error().Err(err).Msg("record visit failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record visit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminStats aggregates the usage and visit logs for the dashboard.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	if a.currentProfileID(r) == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if !middleware.IsAdminFromContext(r.Context()) {
		a.error(w, http.StatusForbidden, "forbidden", "admin access required")
		return
	}

	entries, err := a.Recorder.Usage(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load usage log failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	visits, err := a.Recorder.Visits(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load visit log failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"total_visits":      analytics.TotalVisits(visits),
		"total_generations": analytics.TotalGenerations(entries),
		"unique_users":      analytics.UniqueUsers(entries),
		"top_combinations":  analytics.TopCombinations(entries, analytics.DefaultTopN),
		"top_categories":    analytics.TopCategories(entries, analytics.DefaultTopN),
	})
}
