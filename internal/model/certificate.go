package model

import "time"

// Certificate 结业证书，每个 (user_id, course_id) 至多一张，创建后不可修改
type Certificate struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"userId"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_certificate_user_course" json:"courseId"`
	Code      string    `gorm:"size:32;not null;uniqueIndex" json:"code"`
	IssuedAt  time.Time `gorm:"not null" json:"issuedAt"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (Certificate) TableName() string {
	return "certificates"
}
