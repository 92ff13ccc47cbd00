package repository

import (
	"automarket/internal/model"
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingFilter narrows down listing queries. Zero values don't filter
type ListingFilter struct {
	OwnerID       uint
	IncludeHidden bool

	Search   string
	Brand    string
	City     string
	IsSold   *bool
	Paid     *bool
	MinPrice *model.Price
	MaxPrice *model.Price
	MinYear  *int
	MaxYear  *int
}

type ListingRepository interface {
	// Create inserts the listing together with its insurance info and images
	Create(ctx context.Context, l *model.CarListing) error
	// FindByID returns the listing with brand, location, insurance and images loaded
	FindByID(ctx context.Context, id uint) (*model.CarListing, error)
	// FindOwned is FindByID restricted to listings owned by userID
	FindOwned(ctx context.Context, id, userID uint) (*model.CarListing, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// Save writes the listing columns without touching its children
	Save(ctx context.Context, l *model.CarListing) error
	SaveInsurance(ctx context.Context, i *model.InsuranceInfo) error
	ReplaceImages(ctx context.Context, listingID uint, images []model.CarImage) error
	SetHidden(ctx context.Context, id uint, hidden bool) error
	// Delete removes the listing, its children and every favorite of it
	Delete(ctx context.Context, id uint) error
	// List returns one page of listings, newest first, and the total count
	List(ctx context.Context, f ListingFilter, offset, limit int) ([]model.CarListing, int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("car_images.id")
}

func (r *listingRepository) Create(ctx context.Context, l *model.CarListing) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *listingRepository) find(ctx context.Context, query string, args ...any) (*model.CarListing, error) {
	var l model.CarListing

	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Location").
		Preload("Insurance").
		Preload("Images", preloadImages).
		Where(query, args...).
		First(&l).
		Error
	if notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *listingRepository) FindByID(ctx context.Context, id uint) (*model.CarListing, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *listingRepository) FindOwned(ctx context.Context, id, userID uint) (*model.CarListing, error) {
	return r.find(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *listingRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CarListing{}).
		Where("id = ?", id).
		Count(&count).
		Error

	return count > 0, err
}

func (r *listingRepository) Save(ctx context.Context, l *model.CarListing) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *listingRepository) SaveInsurance(ctx context.Context, i *model.InsuranceInfo) error {
	return translate(r.db.WithContext(ctx).Save(i).Error)
}

func (r *listingRepository) ReplaceImages(ctx context.Context, listingID uint, images []model.CarImage) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("car_listing_id = ?", listingID).Delete(&model.CarImage{}).Error; err != nil {
		return err
	}

	if len(images) == 0 {
		return nil
	}

	for i := range images {
		images[i].ID = 0
		images[i].CarListingID = listingID
	}

	return db.Create(&images).Error
}

func (r *listingRepository) SetHidden(ctx context.Context, id uint, hidden bool) error {
	return r.db.WithContext(ctx).
		Model(&model.CarListing{}).
		Where("id = ?", id).
		Update("is_hidden", hidden).
		Error
}

func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("car_listing_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
		return err
	}

	if err := db.Where("car_listing_id = ?", id).Delete(&model.CarImage{}).Error; err != nil {
		return err
	}

	if err := db.Where("car_listing_id = ?", id).Delete(&model.InsuranceInfo{}).Error; err != nil {
		return err
	}

	return db.Where("id = ?", id).Delete(&model.CarListing{}).Error
}

func (r *listingRepository) List(ctx context.Context, f ListingFilter, offset, limit int) ([]model.CarListing, int64, error) {
	// the session makes q safe to reuse for both the count and the page query
	q := applyFilter(r.db.WithContext(ctx).Model(&model.CarListing{}), f).Session(&gorm.Session{})

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
		Order("car_listings.created_at DESC, car_listings.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).
		Error

	return listings, count, err
}

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func applyFilter(q *gorm.DB, f ListingFilter) *gorm.DB {
	if f.OwnerID != 0 {
		q = q.Where("car_listings.user_id = ?", f.OwnerID)
	}

	if !f.IncludeHidden {
		q = q.Where("car_listings.is_hidden = ?", false)
	}

	if f.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(car_listings.title) LIKE ? ESCAPE '\' OR LOWER(car_listings.description) LIKE ? ESCAPE '\')`, like, like)
	}

	if f.Brand != "" {
		q = q.Where("car_listings.brand_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&model.Brand{}).Select("id").Where("name = ?", f.Brand))
	}

	if f.City != "" {
		q = q.Where("car_listings.location_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&model.Location{}).Select("id").Where("city = ?", f.City))
	}

	if f.IsSold != nil {
		q = q.Where("car_listings.is_sold = ?", *f.IsSold)
	}

	if f.Paid != nil {
		q = q.Where("car_listings.paid = ?", *f.Paid)
	}

	if f.MinPrice != nil {
		q = q.Where("car_listings.price >= ?", f.MinPrice.Decimal)
	}

	if f.MaxPrice != nil {
		q = q.Where("car_listings.price <= ?", f.MaxPrice.Decimal)
	}

	if f.MinYear != nil {
		q = q.Where("car_listings.year >= ?", *f.MinYear)
	}

	if f.MaxYear != nil {
		q = q.Where("car_listings.year <= ?", *f.MaxYear)
	}

	return q
}
