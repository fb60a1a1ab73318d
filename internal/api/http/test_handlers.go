package http

import (
	"encoding/json"
	"net/http"
	"strings"

	authmw "github.com/DanilaYukin/Learning-platform/internal/auth/middleware"
	"github.com/DanilaYukin/Learning-platform/internal/education"
	"github.com/DanilaYukin/Learning-platform/internal/rbac"
)

// CreateTestHandler accepts a test with nested questions and answers, the
// same shape the retrieve endpoint serves (plus is_correct flags).
func CreateTestHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string               `json:"title"`
			Description string               `json:"description"`
			LessonID    *int64               `json:"lesson"`
			Questions   []education.Question `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title required")
			return
		}
		owner := authmw.SubjectFromContext(r.Context())
		t, err := store.CreateTest(r.Context(), education.Test{
			Title:       req.Title,
			Description: req.Description,
			LessonID:    req.LessonID,
			OwnerID:     &owner,
			Questions:   req.Questions,
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func ListTestsHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListTests(r.Context(), listOpts(r))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetTestHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "testID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		t, err := store.GetTest(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func UpdateTestHandler(store education.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "testID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		t, err := store.GetTest(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, t.OwnerID, "test:update") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			LessonID    *int64  `json:"lesson"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.LessonID != nil {
			t.LessonID = req.LessonID
		}
		out, err := store.UpdateTest(r.Context(), t)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteTestHandler(store education.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "testID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		t, err := store.GetTest(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, t.OwnerID, "test:delete") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		if err := store.DeleteTest(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
