package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	authmw "github.com/DanilaYukin/Learning-platform/internal/auth/middleware"
	"github.com/DanilaYukin/Learning-platform/internal/education"
	syncx "github.com/DanilaYukin/Learning-platform/internal/sync"
)

// SubmitAnswersHandler scores a submission against the test's stored
// answers. Body: JSON array of {question_number, answer_number}.
func SubmitAnswersHandler(svc *education.Service, events *syncx.EventRepo, siteID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == 0 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		testID, err := idParam(r, "testID")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad test id")
			return
		}

		var selections []education.Selection
		if err := json.NewDecoder(r.Body).Decode(&selections); err != nil {
			writeError(w, http.StatusBadRequest, "expected JSON array of selections")
			return
		}

		res, err := svc.SubmitAnswers(r.Context(), testID, userID, selections)
		if err != nil {
			var qErr *education.QuestionNotFoundError
			var aErr *education.AnswerNotFoundError
			switch {
			case errors.Is(err, education.ErrTestNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.As(err, &qErr), errors.As(err, &aErr):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, education.ErrEmptyTest):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "db error")
			}
			return
		}

		if events != nil {
			data, _ := json.Marshal(map[string]any{
				"user_id": userID,
				"correct": res.Correct,
				"total":   res.Total,
				"score":   res.Score,
			})
			if err := events.Append(r.Context(), syncx.Event{
				SiteID:   siteID,
				Type:     syncx.EventTestSubmitted,
				Key:      strconv.FormatInt(testID, 10),
				DataJSON: string(data),
			}); err != nil {
				log.Printf("event log append: %v", err)
			}
		}

		writeJSON(w, http.StatusOK, res)
	}
}
