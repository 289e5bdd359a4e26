package repository

import (
	"context"
	"pulsa_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindWithQuestions 加载测验、有序题目及选项（含正确答案）
func (r *QuizRepository) FindWithQuestions(ctx context.Context, quizID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderBySortOrder).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) CreateResult(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

func (r *QuizRepository) ListResults(ctx context.Context, userID, quizID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at DESC, id DESC").
		Find(&results).Error
	return results, err
}

// HasPerfectResult 用户是否有过满分提交
func (r *QuizRepository) HasPerfectResult(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.QuizResult{}).
		Where("user_id = ? AND total > 0 AND score = total", userID).
		Count(&count).Error
	return count > 0, err
}
