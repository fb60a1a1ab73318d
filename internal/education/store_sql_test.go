package education

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func countRows(t *testing.T, sqlDB *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := sqlDB.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCreateTestNested(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	quiz := seedMathQuiz(t, store)
	if quiz.ID == 0 {
		t.Fatal("test id not assigned")
	}

	got, err := store.GetTest(ctx, quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(got.Questions))
	}
	if got.Questions[0].Number != 1 || got.Questions[1].Number != 2 {
		t.Fatalf("questions not ordered by number: %+v", got.Questions)
	}
	if len(got.Questions[0].Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(got.Questions[0].Answers))
	}
	// GetTest is the student-safe view.
	for _, q := range got.Questions {
		for _, a := range q.Answers {
			if a.IsCorrect {
				t.Fatal("GetTest must not expose correct flags")
			}
		}
	}
}

func TestCountQuestions(t *testing.T) {
	store, _ := setupTestDB(t)
	quiz := seedMathQuiz(t, store)

	n, err := store.CountQuestions(context.Background(), quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestCascadeDeleteTest(t *testing.T) {
	store, sqlDB := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, sqlDB, "a@example.com")
	quiz := seedMathQuiz(t, store)

	q1, err := store.GetQuestion(ctx, quiz.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	a1, err := store.GetAnswer(ctx, q1.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertUserAnswer(ctx, user, q1.ID, a1.ID); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteTest(ctx, quiz.ID); err != nil {
		t.Fatal(err)
	}

	if n := countRows(t, sqlDB, `SELECT COUNT(*) FROM questions WHERE test_id=$1`, quiz.ID); n != 0 {
		t.Fatalf("questions not cascaded: %d", n)
	}
	if n := countRows(t, sqlDB, `SELECT COUNT(*) FROM answers`); n != 0 {
		t.Fatalf("answers not cascaded: %d", n)
	}
	if n := countRows(t, sqlDB, `SELECT COUNT(*) FROM user_answers`); n != 0 {
		t.Fatalf("user answers not cascaded: %d", n)
	}
}

func TestOwnerNulledOnUserDelete(t *testing.T) {
	store, sqlDB := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, sqlDB, "owner@example.com")

	sec, err := store.CreateSection(ctx, Section{Title: "Algebra", OwnerID: &owner})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := sqlDB.Exec(`DELETE FROM users WHERE id=$1`, owner); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetSection(ctx, sec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.OwnerID != nil {
		t.Fatalf("owner should be nulled, got %v", *got.OwnerID)
	}
}

func TestLessonCascadeFromSection(t *testing.T) {
	store, sqlDB := setupTestDB(t)
	ctx := context.Background()

	sec, err := store.CreateSection(ctx, Section{Title: "Algebra"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateLesson(ctx, Lesson{Title: "Intro", SectionID: sec.ID}); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteSection(ctx, sec.ID); err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, sqlDB, `SELECT COUNT(*) FROM lessons`); n != 0 {
		t.Fatalf("lessons not cascaded: %d", n)
	}
}

func TestUpsertUserAnswerSingleRow(t *testing.T) {
	store, sqlDB := setupTestDB(t)
	ctx := context.Background()
	user := createUser(t, sqlDB, "a@example.com")
	quiz := seedMathQuiz(t, store)

	q1, _ := store.GetQuestion(ctx, quiz.ID, 1)
	a1, _ := store.GetAnswer(ctx, q1.ID, 1)
	a2, _ := store.GetAnswer(ctx, q1.ID, 2)

	if err := store.UpsertUserAnswer(ctx, user, q1.ID, a1.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertUserAnswer(ctx, user, q1.ID, a2.ID); err != nil {
		t.Fatal(err)
	}

	if n := countRows(t, sqlDB, `SELECT COUNT(*) FROM user_answers WHERE user_id=$1`, user); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
	ua, err := store.GetUserAnswer(ctx, user, q1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ua.AnswerID != a2.ID {
		t.Fatalf("answer = %d, want latest %d", ua.AnswerID, a2.ID)
	}
}

func TestGetQuestionScopedToTest(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	first := seedMathQuiz(t, store)
	second, err := store.CreateTest(ctx, Test{
		Title:     "Other",
		Questions: []Question{{Number: 7, Text: "only here", Answers: []Answer{{Number: 1, Text: "a"}}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetQuestion(ctx, first.ID, 7); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("question 7 belongs to the other test, got %v", err)
	}
	q, err := store.GetQuestion(ctx, second.ID, 7)
	if err != nil {
		t.Fatal(err)
	}
	if q.TestID != second.ID {
		t.Fatalf("wrong test: %d", q.TestID)
	}
}

func TestSectionLessonCounts(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	sec, err := store.CreateSection(ctx, Section{Title: "Algebra"})
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"Intro", "Linear equations"} {
		if _, err := store.CreateLesson(ctx, Lesson{Title: title, SectionID: sec.ID}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.GetSection(ctx, sec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumberOfLessons != 2 || len(got.Lessons) != 2 {
		t.Fatalf("lesson count mismatch: %+v", got)
	}
}

func TestListPagination(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.CreateSection(ctx, Section{Title: string(rune('a' + i))}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := store.ListSections(ctx, ListOpts{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].Title != "c" {
		t.Fatalf("offset ignored, first = %q", page[0].Title)
	}
}
