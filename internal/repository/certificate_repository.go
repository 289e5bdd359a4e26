package repository

import (
	"context"
	"pulsa_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// CreateIfAbsent 冲突时不写入，返回是否真正插入
func (r *CertificateRepository) CreateIfAbsent(ctx context.Context, cert *model.Certificate) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cert)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC, id DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) FindByCode(ctx context.Context, code string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Preload("User").
		Where("code = ?", code).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) CountForCourses(ctx context.Context, userID uint, courseIDs []uint) (int64, error) {
	var count int64
	if len(courseIDs) == 0 {
		return 0, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Certificate{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Count(&count).Error
	return count, err
}

func (r *CertificateRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Certificate{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
