package service

import (
	"automarket/internal/model"
	"automarket/internal/repository"
	"context"
	"fmt"
)

// ReferenceService exposes the brands and locations listings point at
type ReferenceService struct {
	store *repository.Store
}

func NewReferenceService(store *repository.Store) *ReferenceService {
	return &ReferenceService{store: store}
}

func (s *ReferenceService) Brands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.store.Brands.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands, %w", err)
	}

	return brands, nil
}

func (s *ReferenceService) Locations(ctx context.Context) ([]model.Location, error) {
	locations, err := s.store.Locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations, %w", err)
	}

	return locations, nil
}
