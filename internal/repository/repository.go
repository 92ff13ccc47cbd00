// Package repository wraps every gorm query the services need behind one
// interface per entity. Lookups return (nil, nil) when nothing matched
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert or update trips a unique index
var ErrDuplicate = errors.New("record already exists")

// Store bundles the repositories sharing a single connection or transaction
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Verifications VerificationRepository
	Resends       ResendRepository
	Brands        BrandRepository
	Locations     LocationRepository
	Listings      ListingRepository
	Favorites     FavoriteRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         &userRepository{db: db},
		Verifications: &verificationRepository{db: db},
		Resends:       &resendRepository{db: db},
		Brands:        &brandRepository{db: db},
		Locations:     &locationRepository{db: db},
		Listings:      &listingRepository{db: db},
		Favorites:     &favoriteRepository{db: db},
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Returning an error from fn rolls everything back
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps driver level errors to the repository sentinels. The
// connection has to be opened with TranslateError for this to work
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	return err
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
