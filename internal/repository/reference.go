package repository

import (
	"automarket/internal/model"
	"context"

	"gorm.io/gorm"
)

type BrandRepository interface {
	FindByName(ctx context.Context, name string) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
}

type LocationRepository interface {
	// FindByCity returns the oldest location in city. Cities aren't unique
	FindByCity(ctx context.Context, city string) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
}

type brandRepository struct {
	db *gorm.DB
}

func (r *brandRepository) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	var b model.Brand

	err := r.db.WithContext(ctx).Where("name = ?", name).First(&b).Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *brandRepository) List(ctx context.Context) ([]model.Brand, error) {
	brands := []model.Brand{}
	err := r.db.WithContext(ctx).Order("name").Find(&brands).Error

	return brands, err
}

type locationRepository struct {
	db *gorm.DB
}

func (r *locationRepository) FindByCity(ctx context.Context, city string) (*model.Location, error) {
	var l model.Location

	err := r.db.WithContext(ctx).Where("city = ?", city).Order("id").First(&l).Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *locationRepository) List(ctx context.Context) ([]model.Location, error) {
	locations := []model.Location{}
	err := r.db.WithContext(ctx).Order("city, id").Find(&locations).Error

	return locations, err
}
