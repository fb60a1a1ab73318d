package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/DanilaYukin/Learning-platform/internal/api/http"
	auth "github.com/DanilaYukin/Learning-platform/internal/auth/middleware"
	"github.com/DanilaYukin/Learning-platform/internal/config"
	"github.com/DanilaYukin/Learning-platform/internal/db"
	"github.com/DanilaYukin/Learning-platform/internal/education"
	"github.com/DanilaYukin/Learning-platform/internal/rbac"
	"github.com/DanilaYukin/Learning-platform/internal/storage"
	syncx "github.com/DanilaYukin/Learning-platform/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := seedAdmin(ctx, dbh, cfg.AdminEmail, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	store := education.NewSQLStore(dbh, cfg.DBDriver)
	svc := education.NewService(store)
	events := syncx.NewEventRepo(dbh)
	checker := rbac.Default()

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", api.RegisterHandler(dbh))
	r.Post("/auth/login", api.LoginHandler(dbh, authSvc))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("section:create")).
			Post("/section/create/", api.CreateSectionHandler(store))
		pr.With(rbac.Require("section:view")).
			Get("/sections/", api.ListSectionsHandler(store))
		pr.With(rbac.Require("section:view")).
			Get("/section/{sectionID}/", api.GetSectionHandler(store))
		pr.Patch("/section/update/{sectionID}/", api.UpdateSectionHandler(store, checker))
		pr.Delete("/section/delete/{sectionID}/", api.DeleteSectionHandler(store, checker))

		pr.With(rbac.Require("lesson:create")).
			Post("/lesson/create/", api.CreateLessonHandler(store))
		pr.With(rbac.Require("lesson:view")).
			Get("/lessons/", api.ListLessonsHandler(store))
		pr.With(rbac.Require("lesson:view")).
			Get("/lesson/{lessonID}/", api.GetLessonHandler(store))
		pr.Patch("/lesson/update/{lessonID}/", api.UpdateLessonHandler(store, checker))
		pr.Delete("/lesson/delete/{lessonID}/", api.DeleteLessonHandler(store, blobs, checker))
		pr.Post("/lesson/{lessonID}/material/", api.UploadMaterialHandler(store, blobs, checker))
		pr.With(rbac.Require("lesson:view")).
			Get("/lesson/{lessonID}/material/", api.DownloadMaterialHandler(store, blobs))

		pr.With(rbac.Require("test:create")).
			Post("/test/create/", api.CreateTestHandler(store))
		pr.With(rbac.Require("test:view")).
			Get("/tests/", api.ListTestsHandler(store))
		pr.With(rbac.Require("test:view")).
			Get("/test/{testID}/", api.GetTestHandler(store))
		pr.Patch("/test/update/{testID}/", api.UpdateTestHandler(store, checker))
		pr.Delete("/test/delete/{testID}/", api.DeleteTestHandler(store, checker))

		pr.With(rbac.Require("test:submit")).
			Post("/test/{testID}/submit/", api.SubmitAnswersHandler(svc, events, cfg.SiteID))

		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// seedAdmin creates the configured admin account when it does not exist yet.
func seedAdmin(ctx context.Context, dbh *sql.DB, email, passHash string) error {
	var exists int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email=$1`, email).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, created_at) VALUES ($1,$2,'admin',$3)`,
		email, passHash, time.Now().Unix())
	return err
}
