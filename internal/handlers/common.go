package handlers

import (
	"errors"
	"net/http"
	"time"

	"scrap-backend/internal/repositories"
	"scrap-backend/internal/timeutil"
)

const dateLayout = "2006-01-02"

// parseDateRange reads the fecha_inicio / fecha_fin query parameters.
// Both default to today in plant time when absent.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := timeutil.Now()
	start, end := now, now

	if v := r.URL.Query().Get("fecha_inicio"); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, timeutil.PlantLocation)
		if err != nil {
			return start, end, errors.New("fecha_inicio must be YYYY-MM-DD")
		}
		start = parsed
	}
	if v := r.URL.Query().Get("fecha_fin"); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, timeutil.PlantLocation)
		if err != nil {
			return start, end, errors.New("fecha_fin must be YYYY-MM-DD")
		}
		end = parsed
	}
	if end.Before(start) {
		return start, end, errors.New("fecha_fin must not be before fecha_inicio")
	}

	return start, end, nil
}

// writeServiceError maps store/service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, repositories.ErrInsufficientStock):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
