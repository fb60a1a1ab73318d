package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DanilaYukin/Learning-platform/internal/education"
)

// Handlers only — routes remain in main.go

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func listOpts(r *http.Request) education.ListOpts {
	var opts education.ListOpts
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		opts.Offset = v
	}
	return opts
}

// storeError maps repository errors to status codes for plain CRUD paths.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, education.ErrSectionNotFound),
		errors.Is(err, education.ErrLessonNotFound),
		errors.Is(err, education.ErrTestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "db error")
	}
}
