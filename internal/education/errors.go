package education

import (
	"errors"
	"fmt"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrTestNotFound    = errors.New("test not found")

	// Store-level sentinels; the scorer wraps them with numbers and titles.
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrUserAnswerNotFound = errors.New("user answer not found")

	// ErrEmptyTest guards the score division for tests with no questions.
	ErrEmptyTest = errors.New("test has no questions")
)

// QuestionNotFoundError reports a submitted question number that does not
// exist in the target test.
type QuestionNotFoundError struct {
	Number    int
	TestTitle string
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %d not found in test %q", e.Number, e.TestTitle)
}

func (e *QuestionNotFoundError) Unwrap() error { return ErrQuestionNotFound }

// AnswerNotFoundError reports a submitted answer number that does not exist
// for the resolved question.
type AnswerNotFoundError struct {
	QuestionNumber int
	Number         int
}

func (e *AnswerNotFoundError) Error() string {
	return fmt.Sprintf("question %d has no answer %d", e.QuestionNumber, e.Number)
}

func (e *AnswerNotFoundError) Unwrap() error { return ErrAnswerNotFound }
