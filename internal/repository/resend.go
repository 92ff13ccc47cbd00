package repository

import (
	"automarket/internal/model"
	"context"

	"gorm.io/gorm"
)

type ResendRepository interface {
	FindByUser(ctx context.Context, userID uint) (*model.ResendRequest, error)
	// Save inserts r or updates it when it already has an ID
	Save(ctx context.Context, r *model.ResendRequest) error
}

type resendRepository struct {
	db *gorm.DB
}

func (r *resendRepository) FindByUser(ctx context.Context, userID uint) (*model.ResendRequest, error) {
	var req model.ResendRequest

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&req).Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &req, nil
}

func (r *resendRepository) Save(ctx context.Context, req *model.ResendRequest) error {
	return translate(r.db.WithContext(ctx).Save(req).Error)
}
