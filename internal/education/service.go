package education

import (
	"context"
	"errors"
	"fmt"
)

// Service implements the submission scoring flow over a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// SubmitAnswers validates each selection against the test's questions and
// answers, records the user's latest choice per question, and returns the
// score summary.
//
// Selections are processed strictly in input order. The call fails fast on
// the first unresolved question or answer number; upserts committed for
// earlier selections stay committed (there is no transaction across
// selections). A question number repeated within one call overwrites the
// stored choice, and each processed selection counts toward the tally.
func (s *Service) SubmitAnswers(ctx context.Context, testID, userID int64, selections []Selection) (ScoreResult, error) {
	t, err := s.store.GetTest(ctx, testID)
	if err != nil {
		return ScoreResult{}, err
	}

	total, err := s.store.CountQuestions(ctx, testID)
	if err != nil {
		return ScoreResult{}, err
	}
	if total == 0 {
		return ScoreResult{}, ErrEmptyTest
	}

	correct := 0
	for _, sel := range selections {
		q, err := s.store.GetQuestion(ctx, testID, sel.QuestionNumber)
		if err != nil {
			if errors.Is(err, ErrQuestionNotFound) {
				return ScoreResult{}, &QuestionNotFoundError{Number: sel.QuestionNumber, TestTitle: t.Title}
			}
			return ScoreResult{}, err
		}

		a, err := s.store.GetAnswer(ctx, q.ID, sel.AnswerNumber)
		if err != nil {
			if errors.Is(err, ErrAnswerNotFound) {
				return ScoreResult{}, &AnswerNotFoundError{QuestionNumber: sel.QuestionNumber, Number: sel.AnswerNumber}
			}
			return ScoreResult{}, err
		}

		if err := s.store.UpsertUserAnswer(ctx, userID, q.ID, a.ID); err != nil {
			return ScoreResult{}, err
		}

		if a.IsCorrect {
			correct++
		}
	}

	return ScoreResult{
		Test:    t.Title,
		Correct: correct,
		Total:   total,
		Score:   fmt.Sprintf("%.1f %%", float64(correct)/float64(total)*100),
	}, nil
}
