package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	authmw "github.com/DanilaYukin/Learning-platform/internal/auth/middleware"
	"github.com/DanilaYukin/Learning-platform/internal/education"
	"github.com/DanilaYukin/Learning-platform/internal/rbac"
	"github.com/DanilaYukin/Learning-platform/internal/storage"
)

func CreateLessonHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			SectionID   int64  `json:"section"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" || req.SectionID == 0 {
			writeError(w, http.StatusBadRequest, "title and section required")
			return
		}
		owner := authmw.SubjectFromContext(r.Context())
		l, err := store.CreateLesson(r.Context(), education.Lesson{
			Title:       req.Title,
			Description: req.Description,
			SectionID:   req.SectionID,
			OwnerID:     &owner,
		})
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

func ListLessonsHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListLessons(r.Context(), listOpts(r))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetLessonHandler(store education.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func UpdateLessonHandler(store education.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, l.OwnerID, "lesson:update") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			SectionID   *int64  `json:"section"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Title != nil {
			l.Title = *req.Title
		}
		if req.Description != nil {
			l.Description = *req.Description
		}
		if req.SectionID != nil {
			l.SectionID = *req.SectionID
		}
		out, err := store.UpdateLesson(r.Context(), l)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteLessonHandler(store education.Store, blobs storage.BlobStore, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, l.OwnerID, "lesson:delete") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		if err := store.DeleteLesson(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		if l.MaterialKey != "" {
			_ = blobs.Remove(l.MaterialKey)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

/* ---------------- lesson materials ---------------- */

var allowedMaterialExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".txt": true, ".xls": true, ".xlsx": true,
}

func UploadMaterialHandler(store education.Store, blobs storage.BlobStore, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		actor := authmw.SubjectFromContext(r.Context())
		if !checker.CanMutate(role, actor, l.OwnerID, "lesson:material") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file required")
			return
		}
		defer f.Close()

		name := filepath.Base(hdr.Filename)
		ext := strings.ToLower(filepath.Ext(name))
		if !allowedMaterialExts[ext] {
			writeError(w, http.StatusBadRequest, "file type not allowed: "+ext)
			return
		}

		key, err := blobs.Put(fmt.Sprintf("lessons/%d/%s", id, name), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store file")
			return
		}
		if err := store.SetLessonMaterial(r.Context(), id, key); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"material": key})
	}
}

func DownloadMaterialHandler(store education.Store, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "lessonID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad id")
			return
		}
		l, err := store.GetLesson(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		if l.MaterialKey == "" {
			writeError(w, http.StatusNotFound, "lesson has no material")
			return
		}
		rc, err := blobs.Get(l.MaterialKey)
		if err != nil {
			writeError(w, http.StatusNotFound, "material missing")
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(l.MaterialKey)+`"`)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}
