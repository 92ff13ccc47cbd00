package repository

import (
	"automarket/internal/model"
	"context"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(ctx context.Context, f *model.Favorite) error
	Find(ctx context.Context, userID, listingID uint) (*model.Favorite, error)
	// Delete removes the pair and reports whether it existed
	Delete(ctx context.Context, userID, listingID uint) (bool, error)
	// ListListings returns one page of the user's favorite listings, most
	// recently added first, and the total count
	ListListings(ctx context.Context, userID uint, offset, limit int) ([]model.CarListing, int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func (r *favoriteRepository) Create(ctx context.Context, f *model.Favorite) error {
	return translate(r.db.WithContext(ctx).Omit("CarListing").Create(f).Error)
}

func (r *favoriteRepository) Find(ctx context.Context, userID, listingID uint) (*model.Favorite, error) {
	var f model.Favorite

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND car_listing_id = ?", userID, listingID).
		First(&f).
		Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, listingID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND car_listing_id = ?", userID, listingID).
		Delete(&model.Favorite{})

	return res.RowsAffected > 0, res.Error
}

func (r *favoriteRepository) ListListings(ctx context.Context, userID uint, offset, limit int) ([]model.CarListing, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.CarListing{}).
		Joins("JOIN favorites ON favorites.car_listing_id = car_listings.id").
		Where("favorites.user_id = ?", userID).
		Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	listings := []model.CarListing{}
	if count == 0 {
		return listings, 0, nil
	}

	err := q.
		Preload("Images", preloadImages).
		Order("favorites.added_at DESC, favorites.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).
		Error

	return listings, count, err
}
