package repository

import (
	"context"
	"pulsa_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) ListAll(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserBadge, error) {
	var badges []model.UserBadge
	err := r.DB.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC, id DESC").
		Find(&badges).Error
	return badges, err
}

// FindUnearned 用户尚未获得、且条件在给定集合中的徽章
func (r *BadgeRepository) FindUnearned(ctx context.Context, userID uint, conditions []model.BadgeCondition) ([]model.Badge, error) {
	var badges []model.Badge
	if len(conditions) == 0 {
		return badges, nil
	}
	earned := r.DB.Model(&model.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)
	err := r.DB.WithContext(ctx).
		Where("unlock_condition IN ?", conditions).
		Where("id NOT IN (?)", earned).
		Find(&badges).Error
	return badges, err
}

// Award 幂等发放，返回是否为新发放
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID uint, now time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
