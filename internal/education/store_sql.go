package education

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func clampList(opts ListOpts) (int, int) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

/* ---------------- sections ---------------- */

func (s *SQLStore) CreateSection(ctx context.Context, sec Section) (Section, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO sections (title, description, owner_id) VALUES ($1,$2,$3) RETURNING id`,
		sec.Title, sec.Description, sec.OwnerID).Scan(&sec.ID)
	return sec, err
}

func (s *SQLStore) GetSection(ctx context.Context, id int64) (Section, error) {
	var sec Section
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.title, s.description, s.owner_id,
		        (SELECT COUNT(*) FROM lessons l WHERE l.section_id = s.id)
		   FROM sections s WHERE s.id=$1`, id).
		Scan(&sec.ID, &sec.Title, &sec.Description, &sec.OwnerID, &sec.NumberOfLessons)
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrSectionNotFound
	}
	if err != nil {
		return Section{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, material_key, section_id, owner_id
		   FROM lessons WHERE section_id=$1 ORDER BY title`, id)
	if err != nil {
		return Section{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.MaterialKey, &l.SectionID, &l.OwnerID); err != nil {
			return Section{}, err
		}
		sec.Lessons = append(sec.Lessons, l)
	}
	return sec, rows.Err()
}

func (s *SQLStore) ListSections(ctx context.Context, opts ListOpts) ([]Section, error) {
	limit, offset := clampList(opts)
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.description, s.owner_id,
		        (SELECT COUNT(*) FROM lessons l WHERE l.section_id = s.id)
		   FROM sections s ORDER BY s.title LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Section{}
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Description, &sec.OwnerID, &sec.NumberOfLessons); err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateSection(ctx context.Context, sec Section) (Section, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sections SET title=$1, description=$2 WHERE id=$3`,
		sec.Title, sec.Description, sec.ID)
	if err != nil {
		return Section{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Section{}, ErrSectionNotFound
	}
	return s.GetSection(ctx, sec.ID)
}

func (s *SQLStore) DeleteSection(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sections WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSectionNotFound
	}
	return nil
}

/* ---------------- lessons ---------------- */

func (s *SQLStore) CreateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO lessons (title, description, material_key, section_id, owner_id)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		l.Title, l.Description, l.MaterialKey, l.SectionID, l.OwnerID).Scan(&l.ID)
	return l, err
}

func (s *SQLStore) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	var l Lesson
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, material_key, section_id, owner_id
		   FROM lessons WHERE id=$1`, id).
		Scan(&l.ID, &l.Title, &l.Description, &l.MaterialKey, &l.SectionID, &l.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Lesson{}, ErrLessonNotFound
	}
	return l, err
}

func (s *SQLStore) ListLessons(ctx context.Context, opts ListOpts) ([]Lesson, error) {
	limit, offset := clampList(opts)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, material_key, section_id, owner_id
		   FROM lessons ORDER BY title, section_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Lesson{}
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.MaterialKey, &l.SectionID, &l.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateLesson(ctx context.Context, l Lesson) (Lesson, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET title=$1, description=$2, section_id=$3 WHERE id=$4`,
		l.Title, l.Description, l.SectionID, l.ID)
	if err != nil {
		return Lesson{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Lesson{}, ErrLessonNotFound
	}
	return s.GetLesson(ctx, l.ID)
}

func (s *SQLStore) DeleteLesson(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (s *SQLStore) SetLessonMaterial(ctx context.Context, id int64, key string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE lessons SET material_key=$1 WHERE id=$2`, key, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLessonNotFound
	}
	return nil
}

/* ---------------- tests ---------------- */

func (s *SQLStore) CreateTest(ctx context.Context, t Test) (Test, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Test{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		`INSERT INTO tests (title, description, lesson_id, owner_id)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		t.Title, t.Description, t.LessonID, t.OwnerID).Scan(&t.ID); err != nil {
		return Test{}, err
	}

	for i := range t.Questions {
		q := &t.Questions[i]
		q.TestID = t.ID
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO questions (test_id, number, question) VALUES ($1,$2,$3) RETURNING id`,
			t.ID, q.Number, q.Text).Scan(&q.ID); err != nil {
			return Test{}, err
		}
		for j := range q.Answers {
			a := &q.Answers[j]
			a.QuestionID = q.ID
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO answers (question_id, number, answer, is_correct)
				 VALUES ($1,$2,$3,$4) RETURNING id`,
				q.ID, a.Number, a.Text, a.IsCorrect).Scan(&a.ID); err != nil {
				return Test{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) GetTest(ctx context.Context, id int64) (Test, error) {
	t, err := s.getTest(ctx, id)
	if err != nil {
		return Test{}, err
	}
	// Hide correct flags when serving tests out (parity with list view).
	for i := range t.Questions {
		for j := range t.Questions[i].Answers {
			t.Questions[i].Answers[j].IsCorrect = false
		}
	}
	return t, nil
}

func (s *SQLStore) getTest(ctx context.Context, id int64) (Test, error) {
	var t Test
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, lesson_id, owner_id FROM tests WHERE id=$1`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.LessonID, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Test{}, ErrTestNotFound
	}
	if err != nil {
		return Test{}, err
	}

	qrows, err := s.db.QueryContext(ctx,
		`SELECT id, test_id, number, question FROM questions WHERE test_id=$1 ORDER BY number`, id)
	if err != nil {
		return Test{}, err
	}
	defer qrows.Close()
	for qrows.Next() {
		var q Question
		if err := qrows.Scan(&q.ID, &q.TestID, &q.Number, &q.Text); err != nil {
			return Test{}, err
		}
		t.Questions = append(t.Questions, q)
	}
	if err := qrows.Err(); err != nil {
		return Test{}, err
	}

	for i := range t.Questions {
		arows, err := s.db.QueryContext(ctx,
			`SELECT id, question_id, number, answer, is_correct
			   FROM answers WHERE question_id=$1 ORDER BY number`, t.Questions[i].ID)
		if err != nil {
			return Test{}, err
		}
		for arows.Next() {
			var a Answer
			if err := arows.Scan(&a.ID, &a.QuestionID, &a.Number, &a.Text, &a.IsCorrect); err != nil {
				arows.Close()
				return Test{}, err
			}
			t.Questions[i].Answers = append(t.Questions[i].Answers, a)
		}
		if err := arows.Err(); err != nil {
			arows.Close()
			return Test{}, err
		}
		arows.Close()
	}
	return t, nil
}

func (s *SQLStore) ListTests(ctx context.Context, opts ListOpts) ([]Test, error) {
	limit, offset := clampList(opts)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, lesson_id, owner_id
		   FROM tests ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Test{}
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.LessonID, &t.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateTest(ctx context.Context, t Test) (Test, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tests SET title=$1, description=$2, lesson_id=$3 WHERE id=$4`,
		t.Title, t.Description, t.LessonID, t.ID)
	if err != nil {
		return Test{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Test{}, ErrTestNotFound
	}
	return s.GetTest(ctx, t.ID)
}

func (s *SQLStore) DeleteTest(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTestNotFound
	}
	return nil
}

/* ---------------- scorer collaborators ---------------- */

func (s *SQLStore) GetQuestion(ctx context.Context, testID int64, number int) (Question, error) {
	var q Question
	err := s.db.QueryRowContext(ctx,
		`SELECT id, test_id, number, question FROM questions WHERE test_id=$1 AND number=$2`,
		testID, number).Scan(&q.ID, &q.TestID, &q.Number, &q.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrQuestionNotFound
	}
	return q, err
}

func (s *SQLStore) GetAnswer(ctx context.Context, questionID int64, number int) (Answer, error) {
	var a Answer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, question_id, number, answer, is_correct
		   FROM answers WHERE question_id=$1 AND number=$2`,
		questionID, number).Scan(&a.ID, &a.QuestionID, &a.Number, &a.Text, &a.IsCorrect)
	if errors.Is(err, sql.ErrNoRows) {
		return Answer{}, ErrAnswerNotFound
	}
	return a, err
}

// UpsertUserAnswer records the user's latest choice for a question. The
// single INSERT .. ON CONFLICT keeps the row atomic under concurrent
// submissions from the same user (last writer wins).
func (s *SQLStore) UpsertUserAnswer(ctx context.Context, userID, questionID, answerID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_answers (user_id, question_id, answer_id, submitted_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, question_id)
		 DO UPDATE SET answer_id=EXCLUDED.answer_id, submitted_at=EXCLUDED.submitted_at`,
		userID, questionID, answerID, time.Now().Unix())
	return err
}

func (s *SQLStore) CountQuestions(ctx context.Context, testID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions WHERE test_id=$1`, testID).Scan(&n)
	return n, err
}

func (s *SQLStore) GetUserAnswer(ctx context.Context, userID, questionID int64) (UserAnswer, error) {
	var ua UserAnswer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, question_id, answer_id, submitted_at
		   FROM user_answers WHERE user_id=$1 AND question_id=$2`,
		userID, questionID).
		Scan(&ua.ID, &ua.UserID, &ua.QuestionID, &ua.AnswerID, &ua.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UserAnswer{}, ErrUserAnswerNotFound
	}
	return ua, err
}
