package model

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ValidDifficulty 判断难度取值是否合法
func ValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Course 课程（学习路径），拥有有序的模块
// swagger:model Course
type Course struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:100;index" json:"category"`
	Difficulty  Difficulty `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Duration    string     `gorm:"size:50" json:"duration"`
	ImageURL    string     `gorm:"size:255" json:"imageUrl"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	Modules     []Module   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Module 课程下的模块，order 在课程内唯一
type Module struct {
	BaseModel
	CourseID    uint     `gorm:"not null;uniqueIndex:idx_module_course_order" json:"courseId"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Order       int      `gorm:"column:sort_order;not null;uniqueIndex:idx_module_course_order" json:"order"`
	Lessons     []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`

	// 仅用于课程列表展示
	LessonCount int64 `gorm:"-" json:"lessonCount"`
}

func (Module) TableName() string {
	return "course_modules"
}

type LessonType string

const (
	LessonText  LessonType = "text"
	LessonVideo LessonType = "video"
)

type Lesson struct {
	BaseModel
	ModuleID uint       `gorm:"not null;index" json:"moduleId"`
	Title    string     `gorm:"size:255;not null" json:"title"`
	Type     LessonType `gorm:"size:20;default:'text'" json:"type"`
	Order    int        `gorm:"column:sort_order;not null" json:"order"`
	Content  string     `gorm:"type:text" json:"content"`
	Quiz     *Quiz      `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"quiz,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
