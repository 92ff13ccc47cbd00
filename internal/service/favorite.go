package service

import (
	"automarket/internal/apperror"
	"automarket/internal/model"
	"automarket/internal/repository"
	"context"
	"errors"
	"fmt"
)

type AddResult int

const (
	Created AddResult = iota
	AlreadyExists
)

type FavoriteService struct {
	store  *repository.Store
	paging Paging
}

func NewFavoriteService(store *repository.Store, paging Paging) *FavoriteService {
	return &FavoriteService{store: store, paging: paging}
}

func (s *FavoriteService) listingExists(ctx context.Context, listingID uint) error {
	ok, err := s.store.Listings.Exists(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to look up listing, %w", err)
	}

	if !ok {
		return apperror.NotFound("Car listing not found.")
	}

	return nil
}

// Add is idempotent. Adding a listing twice reports AlreadyExists, never
// an error
func (s *FavoriteService) Add(ctx context.Context, userID, listingID uint) (AddResult, error) {
	if err := s.listingExists(ctx, listingID); err != nil {
		return 0, err
	}

	fav, err := s.store.Favorites.Find(ctx, userID, listingID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up favorite, %w", err)
	}

	if fav != nil {
		return AlreadyExists, nil
	}

	err = s.store.Favorites.Create(ctx, &model.Favorite{UserID: userID, CarListingID: listingID})
	if errors.Is(err, repository.ErrDuplicate) {
		return AlreadyExists, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to create favorite, %w", err)
	}

	return Created, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, listingID uint) error {
	if err := s.listingExists(ctx, listingID); err != nil {
		return err
	}

	ok, err := s.store.Favorites.Delete(ctx, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite, %w", err)
	}

	if !ok {
		return apperror.NotFound("Not in favorites.")
	}

	return nil
}

// List returns the user's favorite listings, hidden ones included
func (s *FavoriteService) List(ctx context.Context, userID uint, q ListQuery) (*Page[model.ListingBrief], error) {
	offset, limit, page, err := s.paging.window(q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	listings, count, err := s.store.Favorites.ListListings(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites, %w", err)
	}

	return briefPage(listings, count, page, limit)
}
