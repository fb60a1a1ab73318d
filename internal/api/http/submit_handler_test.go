package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/DanilaYukin/Learning-platform/internal/auth/middleware"
	"github.com/DanilaYukin/Learning-platform/internal/db"
	"github.com/DanilaYukin/Learning-platform/internal/education"
	syncx "github.com/DanilaYukin/Learning-platform/internal/sync"
)

type testEnv struct {
	router  *chi.Mux
	store   *education.SQLStore
	sqlDB   *sql.DB
	authSvc *authmw.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	sqlDB, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := education.NewSQLStore(sqlDB, "sqlite")
	svc := education.NewService(store)
	events := syncx.NewEventRepo(sqlDB)
	authSvc := authmw.NewAuthService("test-secret")

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.Post("/test/{testID}/submit/", SubmitAnswersHandler(svc, events, "test"))
	})
	return &testEnv{router: r, store: store, sqlDB: sqlDB, authSvc: authSvc}
}

func (e *testEnv) createUser(t *testing.T, email string) int64 {
	t.Helper()
	var id int64
	err := e.sqlDB.QueryRow(
		`INSERT INTO users (email, password_hash, created_at) VALUES ($1,'x',$2) RETURNING id`,
		email, time.Now().Unix()).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (e *testEnv) seedQuiz(t *testing.T) education.Test {
	t.Helper()
	quiz, err := e.store.CreateTest(context.Background(), education.Test{
		Title: "Math Quiz",
		Questions: []education.Question{
			{Number: 1, Text: "2+2?", Answers: []education.Answer{
				{Number: 1, Text: "4", IsCorrect: true},
				{Number: 2, Text: "5"},
			}},
			{Number: 2, Text: "3*3?", Answers: []education.Answer{
				{Number: 1, Text: "9", IsCorrect: true},
				{Number: 2, Text: "6"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return quiz
}

func (e *testEnv) submit(t *testing.T, token, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitEndpointSuccess(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "s@example.com")
	quiz := env.seedQuiz(t)
	token, err := env.authSvc.IssueJWT(user, "student")
	if err != nil {
		t.Fatal(err)
	}

	rec := env.submit(t, token, "/test/1/submit/",
		`[{"question_number":1,"answer_number":1},{"question_number":2,"answer_number":1}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Test    string `json:"test"`
		Correct int    `json:"correct"`
		Total   int    `json:"total"`
		Score   string `json:"score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Test != quiz.Title || res.Correct != 2 || res.Total != 2 || res.Score != "100.0 %" {
		t.Fatalf("unexpected response: %+v", res)
	}

	// Submission recorded in the event log.
	var n int
	if err := env.sqlDB.QueryRow(`SELECT COUNT(*) FROM event_log WHERE typ=$1`, syncx.EventTestSubmitted).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("event log entries = %d, want 1", n)
	}
}

func TestSubmitEndpointUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "s@example.com")
	env.seedQuiz(t)

	rec := env.submit(t, "", "/test/1/submit/", `[{"question_number":1,"answer_number":1}]`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	// No store mutation happened.
	var n int
	if err := env.sqlDB.QueryRow(`SELECT COUNT(*) FROM user_answers`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("user_answers = %d, want 0", n)
	}
}

func TestSubmitEndpointUnknownQuestion(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "s@example.com")
	env.seedQuiz(t)
	token, _ := env.authSvc.IssueJWT(user, "student")

	rec := env.submit(t, token, "/test/1/submit/", `[{"question_number":42,"answer_number":1}]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var res struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Error, "42") || !strings.Contains(res.Error, "Math Quiz") {
		t.Fatalf("error should name the question number and test title: %q", res.Error)
	}
}

func TestSubmitEndpointUnknownAnswer(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "s@example.com")
	env.seedQuiz(t)
	token, _ := env.authSvc.IssueJWT(user, "student")

	rec := env.submit(t, token, "/test/1/submit/", `[{"question_number":1,"answer_number":42}]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var res struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Error, "1") || !strings.Contains(res.Error, "42") {
		t.Fatalf("error should name question and answer numbers: %q", res.Error)
	}
}

func TestSubmitEndpointUnknownTest(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "s@example.com")
	token, _ := env.authSvc.IssueJWT(user, "student")

	rec := env.submit(t, token, "/test/999/submit/", `[]`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSubmitEndpointEmptyTest(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "s@example.com")
	if _, err := env.store.CreateTest(context.Background(), education.Test{Title: "Empty"}); err != nil {
		t.Fatal(err)
	}
	token, _ := env.authSvc.IssueJWT(user, "student")

	rec := env.submit(t, token, "/test/1/submit/", `[]`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestSubmitEndpointBadBody(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "s@example.com")
	env.seedQuiz(t)
	token, _ := env.authSvc.IssueJWT(user, "student")

	rec := env.submit(t, token, "/test/1/submit/", `{"not":"an array"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
