package model

import "time"

type BadgeCondition string

const (
	BadgeFirstLesson        BadgeCondition = "first_lesson"
	BadgeStartThreeCourses  BadgeCondition = "start_3_courses"
	BadgePerfectQuiz        BadgeCondition = "perfect_quiz"
	BadgeCompleteCourse     BadgeCondition = "complete_course"
	BadgeCompleteAllCourses BadgeCondition = "complete_all_courses"
)

// ValidBadgeCondition 判断是否为已支持的解锁条件
func ValidBadgeCondition(c string) bool {
	switch BadgeCondition(c) {
	case BadgeFirstLesson, BadgeStartThreeCourses, BadgePerfectQuiz, BadgeCompleteCourse, BadgeCompleteAllCourses:
		return true
	}
	return false
}

type Badge struct {
	BaseModel
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:255" json:"description"`
	Icon        string         `gorm:"size:32" json:"icon"`
	Condition   BadgeCondition `gorm:"column:unlock_condition;size:50;not null;uniqueIndex" json:"condition"`
}

func (Badge) TableName() string {
	return "badges"
}

type UserBadge struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"userId"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
	Badge    Badge     `gorm:"foreignKey:BadgeID" json:"badge"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
