package model

type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "true_false"
	QuestionFillBlank QuestionType = "fill_blank"
	QuestionMatching  QuestionType = "matching"
	QuestionEssay     QuestionType = "essay"
)

// Quiz belongs to exactly one module of type quiz.
// swagger:model Quiz
type Quiz struct {
	UUIDBase
	ModuleID       string         `gorm:"uniqueIndex;type:varchar(36);not null" json:"moduleId"`
	PassPercentage int            `gorm:"default:80" json:"passPercentage"`
	MaxAttempts    int            `gorm:"default:3" json:"maxAttempts"`
	Shuffle        bool           `gorm:"default:false" json:"shuffle"`
	Questions      []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	UUIDBase
	QuizID    string       `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Type      QuestionType `gorm:"type:enum('mcq','true_false','fill_blank','matching','essay');not null" json:"type"`
	Text      string       `gorm:"type:text;not null" json:"text"`
	Points    int          `gorm:"default:1" json:"points"`
	SortOrder int          `gorm:"default:0" json:"sortOrder"`
	Answers   []QuizAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAnswer rows are the answer key. IsCorrect is never serialized;
// learner-facing responses go through catalog DTOs that omit it entirely.
// swagger:model QuizAnswer
type QuizAnswer struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
