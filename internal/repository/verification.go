package repository

import (
	"automarket/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(ctx context.Context, v *model.EmailVerification) error
	FindByCode(ctx context.Context, code string) (*model.EmailVerification, error)
	FindByUserAndCode(ctx context.Context, userID uint, code string) (*model.EmailVerification, error)
	// Delete removes a single code and reports whether it still existed
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func (r *verificationRepository) Create(ctx context.Context, v *model.EmailVerification) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *verificationRepository) FindByCode(ctx context.Context, code string) (*model.EmailVerification, error) {
	var v model.EmailVerification

	err := r.db.WithContext(ctx).Where("code = ?", code).First(&v).Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *verificationRepository) FindByUserAndCode(ctx context.Context, userID uint, code string) (*model.EmailVerification, error) {
	var v model.EmailVerification

	err := r.db.WithContext(ctx).Where("user_id = ? AND code = ?", userID, code).First(&v).Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *verificationRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.EmailVerification{})
	return res.RowsAffected > 0, res.Error
}

func (r *verificationRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.EmailVerification{}).Error
}

func (r *verificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.EmailVerification{})
	return res.RowsAffected, res.Error
}
