package http

import (
	"net/http"
	"time"

	"contas/internal/log"
)

// handleDashboard serves the per-user dashboard report. Reports are cached
// for a short TTL and dropped on every write for the user, so a fresh read
// after a write always recomputes.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	key := "dashboard:" + user
	if report, ok := s.dashboardCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.analytics.Dashboard(ctx, user, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build dashboard",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	s.dashboardCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

// handlePeriodReport summarizes a caller-chosen window. The from and to
// query parameters take dates or RFC3339 timestamps; to is exclusive.
func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userID(r)

	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")
	if fromParam == "" || toParam == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	from, err := parseDate(fromParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from: use YYYY-MM-DD or RFC3339")
		return
	}
	to, err := parseDate(toParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to: use YYYY-MM-DD or RFC3339")
		return
	}

	key := "period:" + user + ":" + from.Format(time.RFC3339) + ":" + to.Format(time.RFC3339)
	if report, ok := s.periodCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.analytics.Period(ctx, user, from, to)
	if err != nil {
		if !to.After(from) {
			writeError(w, http.StatusBadRequest, "to must be after from")
			return
		}
		s.logger.ErrorContext(ctx, "Failed to build period report",
			log.FieldError, err,
			log.FieldUserID, user)
		writeStorageError(w, err)
		return
	}

	s.periodCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}
