package model

import "time"

// Progress 用户对课时的完成记录，(user_id, lesson_id) 唯一
type Progress struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"userId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson;index" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "lesson_progress"
}
