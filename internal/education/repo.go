package education

import "context"

type ListOpts struct {
	Limit  int
	Offset int
}

// Store is the typed repository over the relational tables. The scorer and
// the HTTP handlers hold a Store, never a database session.
type Store interface {
	CreateSection(ctx context.Context, s Section) (Section, error)
	GetSection(ctx context.Context, id int64) (Section, error)
	ListSections(ctx context.Context, opts ListOpts) ([]Section, error)
	UpdateSection(ctx context.Context, s Section) (Section, error)
	DeleteSection(ctx context.Context, id int64) error

	CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
	GetLesson(ctx context.Context, id int64) (Lesson, error)
	ListLessons(ctx context.Context, opts ListOpts) ([]Lesson, error)
	UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
	SetLessonMaterial(ctx context.Context, id int64, key string) error

	// CreateTest inserts the test together with its nested questions and
	// answers in one transaction.
	CreateTest(ctx context.Context, t Test) (Test, error)
	// GetTest returns the test with questions and answers, student-safe
	// (is_correct stripped).
	GetTest(ctx context.Context, id int64) (Test, error)
	ListTests(ctx context.Context, opts ListOpts) ([]Test, error)
	UpdateTest(ctx context.Context, t Test) (Test, error)
	DeleteTest(ctx context.Context, id int64) error

	// Scorer collaborators. Lookups use creator-assigned numbers scoped to
	// the parent, not row ids.
	GetQuestion(ctx context.Context, testID int64, number int) (Question, error)
	GetAnswer(ctx context.Context, questionID int64, number int) (Answer, error)
	UpsertUserAnswer(ctx context.Context, userID, questionID, answerID int64) error
	CountQuestions(ctx context.Context, testID int64) (int, error)
	GetUserAnswer(ctx context.Context, userID, questionID int64) (UserAnswer, error)
}
