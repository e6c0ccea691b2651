package handlers

import (
	"encoding/json"
	"net/http"

	"promail/internal/middleware"
	"promail/pkg/zip"
)

// AdminExport downloads the raw usage and visit logs as a zip archive, for
// offline analysis outside the dashboard.
func (a *App) AdminExport(w http.ResponseWriter, r *http.Request) {
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
		a.error(w, http.StatusInternalServerError, "internal", "failed to export logs")
		return
	}
	visits, err := a.Recorder.Visits(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load visit log failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to export logs")
		return
	}

	usageJSON, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to export logs")
		return
	}
	visitsJSON, err := json.MarshalIndent(visits, "", "  ")
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to export logs")
		return
	}

	archive := zip.Archive([]zip.File{
		{Name: "usage.json", Data: usageJSON},
		{Name: "visits.json", Data: visitsJSON},
	})
	if archive == nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to export logs")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="promail-logs.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
