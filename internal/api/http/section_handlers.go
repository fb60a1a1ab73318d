package http

import (
	"encoding/json"
	"net/http"
	"strings"

	authmw "github.com/DanilaYukin/Learning-platform/internal/auth/middleware"
	"github.com/DanilaYukin/Learning-platform/internal/education"
	"github.com/DanilaYukin/Learning-platform/internal/rbac"
)

func CreateSectionHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title required")
			return
		}
		owner := authmw.SubjectFromContext(r.Context())
		sec, err := store.CreateSection(r.Context(), education.Section{
			Title:       req.Title,
			Description: req.Description,
			OwnerID:     &owner,
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sec)
	}
}

func ListSectionsHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListSections(r.Context(), listOpts(r))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetSectionHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "sectionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		sec, err := store.GetSection(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sec)
	}
}

func UpdateSectionHandler(store education.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "sectionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		sec, err := store.GetSection(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, sec.OwnerID, "section:update") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Title != nil {
			sec.Title = *req.Title
		}
		if req.Description != nil {
			sec.Description = *req.Description
		}
		out, err := store.UpdateSection(r.Context(), sec)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteSectionHandler(store education.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "sectionID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		sec, err := store.GetSection(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, sec.OwnerID, "section:delete") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		if err := store.DeleteSection(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
