package repository

import (
	"automarket/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// UsernameTaken reports whether another user than exceptID holds username
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	Activate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	// DeleteUnverifiedBefore removes accounts that registered before cutoff
	// and never verified
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepository) find(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, "email = ?", email)
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).
		Error

	return count > 0, err
}

func (r *userRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).
		Error

	return count > 0, err
}

// UpdateProfile writes the editable profile columns of u
func (r *userRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(ctx).
		Model(u).
		Select("username", "first_name", "last_name", "phone_number").
		Updates(u).
		Error

	return translate(err)
}

func (r *userRepository) Activate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":   true,
			"is_verified": true,
		}).
		Error
}

// Delete removes the user together with everything hanging off them: their
// listings and the listings' children, every favorite pointing at those
// listings, the user's own favorites, their verification codes and resend
// history. Call it
// inside a transaction
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&model.CarListing{}).Select("id").Where("user_id = ?", id)

	steps := []func() error{
		func() error {
			return db.Where("user_id = ? OR car_listing_id IN (?)", id, owned).Delete(&model.Favorite{}).Error
		},
		func() error { return db.Where("car_listing_id IN (?)", owned).Delete(&model.CarImage{}).Error },
		func() error { return db.Where("car_listing_id IN (?)", owned).Delete(&model.InsuranceInfo{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&model.CarListing{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&model.EmailVerification{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&model.ResendRequest{}).Error },
		func() error { return db.Where("id = ?", id).Delete(&model.User{}).Error },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

func (r *userRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&model.User{}).Select("id").Where("is_verified = ? AND created_at < ?", false, cutoff)

		if err := tx.Where("user_id IN (?)", stale).Delete(&model.EmailVerification{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id IN (?)", stale).Delete(&model.ResendRequest{}).Error; err != nil {
			return err
		}

		res := tx.Where("is_verified = ? AND created_at < ?", false, cutoff).Delete(&model.User{})
		n = res.RowsAffected

		return res.Error
	})

	return n, err
}
