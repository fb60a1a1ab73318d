package education

// Section groups lessons into a course chapter.
type Section struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     *int64 `json:"owner,omitempty"`

	NumberOfLessons int      `json:"number_of_lessons,omitempty"`
	Lessons         []Lesson `json:"lessons,omitempty"`
}

// Lesson belongs to a section and may carry an uploaded material file.
type Lesson struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaterialKey string `json:"material,omitempty"` // blob store key
	SectionID   int64  `json:"section"`
	OwnerID     *int64 `json:"owner,omitempty"`
}

type Test struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	LessonID    *int64     `json:"lesson,omitempty"`
	OwnerID     *int64     `json:"owner,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// Question is identified within its test by Number, assigned at creation
// time. The scorer looks questions up by (test, number), never by row id.
type Question struct {
	ID      int64    `json:"-"`
	TestID  int64    `json:"-"`
	Number  int      `json:"number"`
	Text    string   `json:"question"`
	Answers []Answer `json:"answers,omitempty"`
}

// Answer is identified within its question by Number. A question may have
// zero, one, or several answers flagged correct.
type Answer struct {
	ID         int64  `json:"-"`
	QuestionID int64  `json:"-"`
	Number     int    `json:"number"`
	Text       string `json:"answer"`
	IsCorrect  bool   `json:"is_correct,omitempty"`
}

// UserAnswer holds the latest choice of one user for one question.
// At most one row exists per (user, question); resubmission overwrites.
type UserAnswer struct {
	ID          int64
	UserID      int64
	QuestionID  int64
	AnswerID    int64
	SubmittedAt int64
}

// Selection is one submitted (question, answer) pair.
type Selection struct {
	QuestionNumber int `json:"question_number"`
	AnswerNumber   int `json:"answer_number"`
}

type ScoreResult struct {
	Test    string `json:"test"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Score   string `json:"score"`
}
