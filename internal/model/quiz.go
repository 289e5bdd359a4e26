package model

// Quiz 每个课时最多一个测验
type Quiz struct {
	BaseModel
	LessonID  uint       `gorm:"not null;uniqueIndex" json:"lessonId"`
	Title     string     `gorm:"size:255" json:"title"`
	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuestionType string

const (
	SingleChoice   QuestionType = "single"
	MultipleChoice QuestionType = "multiple"
)

type Question struct {
	BaseModel
	QuizID      uint         `gorm:"not null;index" json:"quizId"`
	Text        string       `gorm:"type:text;not null" json:"text"`
	Type        QuestionType `gorm:"size:20;default:'single'" json:"type"`
	Explanation string       `gorm:"type:text" json:"explanation,omitempty"`
	Order       int          `gorm:"column:sort_order;not null" json:"order"`
	Options     []Option     `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

// Option 选项。IsCorrect 在出题时确定，不对学员输出
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (Option) TableName() string {
	return "quiz_options"
}
