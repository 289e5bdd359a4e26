package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizResult 每次提交追加一条，不做修改
type QuizResult struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint           `gorm:"not null;index:idx_quiz_result_user_quiz" json:"userId"`
	QuizID     uint           `gorm:"not null;index:idx_quiz_result_user_quiz" json:"quizId"`
	Score      int            `gorm:"not null" json:"score"`
	Total      int            `gorm:"not null" json:"total"`
	Percentage int            `gorm:"not null;default:0" json:"percentage"`
	Passed     bool           `gorm:"not null;default:false" json:"passed"`
	Answers    datatypes.JSON `json:"answers"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// AnswerDetail 单题判分明细，序列化后存入 QuizResult.Answers
type AnswerDetail struct {
	QuestionID        uint   `json:"questionId"`
	SelectedOptionIDs []uint `json:"selectedOptionIds"`
	CorrectOptionIDs  []uint `json:"correctOptionIds"`
	IsCorrect         bool   `json:"isCorrect"`
}
