package service

import (
	"automarket/internal/apperror"
	"automarket/internal/model"
	"automarket/internal/repository"
	"automarket/validators"
	"context"
	"fmt"
)

const msgEndBeforeStart = "Insurance end date can't be before the start date."

// ListingService enforces that only the owner of a listing may change it
type ListingService struct {
	store  *repository.Store
	paging Paging
}

func NewListingService(store *repository.Store, paging Paging) *ListingService {
	return &ListingService{store: store, paging: paging}
}

func brandMissing(name string) error {
	return apperror.ValidationFailed("brand_name", fmt.Sprintf("Brand with name '%s' does not exist.", name))
}

func locationMissing(city string) error {
	return apperror.ValidationFailed("location_name", fmt.Sprintf("Location with city '%s' does not exist.", city))
}

// resolve looks up brand and location by name. Either may be nil to skip it
func (s *ListingService) resolve(ctx context.Context, tx *repository.Store, brandName, city *string) (*model.Brand, *model.Location, error) {
	var brand *model.Brand
	var location *model.Location
	var err error

	if brandName != nil {
		brand, err = tx.Brands.FindByName(ctx, *brandName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up brand, %w", err)
		}

		if brand == nil {
			return nil, nil, brandMissing(*brandName)
		}
	}

	if city != nil {
		location, err = tx.Locations.FindByCity(ctx, *city)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up location, %w", err)
		}

		if location == nil {
			return nil, nil, locationMissing(*city)
		}
	}

	return brand, location, nil
}

// Create stores the listing, its insurance info and its images as a unit.
// Nothing is written when any part fails
func (s *ListingService) Create(ctx context.Context, ownerID uint, in ListingInput) (*model.ListingDetail, error) {
	if fields := validators.Struct(in); fields != nil {
		return nil, apperror.ValidationFields(fields)
	}

	start := parseDate(in.Insurance.InsuranceStartDate)
	end := parseDate(in.Insurance.InsuranceEndDate)
	if end.Before(start) {
		return nil, apperror.ValidationFailed("insurance_information.insurance_end_date", msgEndBeforeStart)
	}

	var created *model.CarListing

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		brand, location, err := s.resolve(ctx, tx, &in.BrandName, &in.LocationName)
		if err != nil {
			return err
		}

		l := &model.CarListing{
			UserID:       ownerID,
			Title:        in.Title,
			Description:  in.Description,
			Price:        *in.Price,
			BrandID:      &brand.ID,
			CarModel:     in.Model,
			Year:         in.Year,
			Mileage:      *in.Mileage,
			EngineType:   in.EngineType,
			Transmission: in.Transmission,
			BodyType:     in.BodyType,
			Color:        in.Color,
			LocationID:   &location.ID,
			IsSold:       in.IsSold,
			Paid:         in.Paid,
			Insurance: &model.InsuranceInfo{
				InsuranceStartDate: start,
				InsuranceEndDate:   end,
				OwnerCount:         in.Insurance.OwnerCount,
				AccidentCount:      in.Insurance.AccidentCount,
				AccidentDetails:    in.Insurance.AccidentDetails,
			},
			Images: imagesFrom(in.Images),
		}

		if err := tx.Listings.Create(ctx, l); err != nil {
			return fmt.Errorf("failed to create listing, %w", err)
		}

		created, err = tx.Listings.FindByID(ctx, l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	d := created.Detail()
	return &d, nil
}

// Get returns a listing. Hidden listings only exist for their owner
func (s *ListingService) Get(ctx context.Context, requesterID, id uint) (*model.ListingDetail, error) {
	l, err := s.store.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up listing, %w", err)
	}

	if l == nil || (l.IsHidden && l.UserID != requesterID) {
		return nil, apperror.NotFound("Not found.")
	}

	d := l.Detail()
	return &d, nil
}

// Update applies p to a listing owned by requesterID
func (s *ListingService) Update(ctx context.Context, requesterID, id uint, p ListingPatch) (*model.ListingDetail, error) {
	var updated *model.CarListing

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		l, err := tx.Listings.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up listing, %w", err)
		}

		if l == nil {
			return apperror.NotFound("Not found.")
		}

		if fields := validators.Struct(p); fields != nil {
			return apperror.ValidationFields(fields)
		}

		if l.UserID != requesterID {
			return apperror.Forbidden("You do not have permission to edit this listing.")
		}

		brand, location, err := s.resolve(ctx, tx, p.BrandName, p.LocationName)
		if err != nil {
			return err
		}

		if brand != nil {
			l.BrandID, l.Brand = &brand.ID, brand
		}

		if location != nil {
			l.LocationID, l.Location = &location.ID, location
		}

		applyListingPatch(l, &p)

		if err := tx.Listings.Save(ctx, l); err != nil {
			return fmt.Errorf("failed to save listing, %w", err)
		}

		if p.Insurance != nil {
			if err := s.patchInsurance(ctx, tx, l, p.Insurance); err != nil {
				return err
			}
		}

		if p.Images != nil {
			if err := tx.Listings.ReplaceImages(ctx, l.ID, imagesFrom(p.Images)); err != nil {
				return fmt.Errorf("failed to replace images, %w", err)
			}
		}

		updated, err = tx.Listings.FindByID(ctx, l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	d := updated.Detail()
	return &d, nil
}

func applyListingPatch(l *model.CarListing, p *ListingPatch) {
	if p.Title != nil {
		l.Title = *p.Title
	}

	if p.Description != nil {
		l.Description = *p.Description
	}

	if p.Model != nil {
		l.CarModel = *p.Model
	}

	if p.Price != nil {
		l.Price = *p.Price
	}

	if p.Year != nil {
		l.Year = *p.Year
	}

	if p.Mileage != nil {
		l.Mileage = *p.Mileage
	}

	if p.EngineType != nil {
		l.EngineType = *p.EngineType
	}

	if p.Transmission != nil {
		l.Transmission = *p.Transmission
	}

	if p.BodyType != nil {
		l.BodyType = *p.BodyType
	}

	if p.Color != nil {
		l.Color = *p.Color
	}

	if p.IsSold != nil {
		l.IsSold = *p.IsSold
	}

	if p.Paid != nil {
		l.Paid = *p.Paid
	}
}

// patchInsurance updates the insurance info in place
func (s *ListingService) patchInsurance(ctx context.Context, tx *repository.Store, l *model.CarListing, p *InsurancePatch) error {
	ins := l.Insurance
	if ins == nil {
		ins = &model.InsuranceInfo{CarListingID: l.ID}
	}

	if p.InsuranceStartDate != nil {
		ins.InsuranceStartDate = parseDate(*p.InsuranceStartDate)
	}

	if p.InsuranceEndDate != nil {
		ins.InsuranceEndDate = parseDate(*p.InsuranceEndDate)
	}

	if p.OwnerCount != nil {
		ins.OwnerCount = *p.OwnerCount
	}

	if p.AccidentCount != nil {
		ins.AccidentCount = *p.AccidentCount
	}

	if p.AccidentDetails != nil {
		ins.AccidentDetails = *p.AccidentDetails
	}

	if ins.InsuranceEndDate.Before(ins.InsuranceStartDate) {
		return apperror.ValidationFailed("insurance_information.insurance_end_date", msgEndBeforeStart)
	}

	if err := tx.Listings.SaveInsurance(ctx, ins); err != nil {
		return fmt.Errorf("failed to save insurance info, %w", err)
	}

	return nil
}

// Delete removes a listing owned by requesterID. confirm has to be true
// and is checked before ownership
func (s *ListingService) Delete(ctx context.Context, requesterID, id uint, confirm bool) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		l, err := tx.Listings.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to look up listing, %w", err)
		}

		if l == nil {
			return apperror.NotFound("Not found.")
		}

		if !confirm {
			return apperror.Forbidden("Please provide confirm=True to delete this listing.")
		}

		if l.UserID != requesterID {
			return apperror.Forbidden("You do not have permission to delete this listing.")
		}

		if err := tx.Listings.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete listing, %w", err)
		}

		return nil
	})
}

// Hide takes a listing out of the public list. Listings of other users
// look the same as missing ones
func (s *ListingService) Hide(ctx context.Context, requesterID, id uint) error {
	return s.setHidden(ctx, requesterID, id, true, "hide")
}

func (s *ListingService) Show(ctx context.Context, requesterID, id uint) error {
	return s.setHidden(ctx, requesterID, id, false, "show")
}

func (s *ListingService) setHidden(ctx context.Context, requesterID, id uint, hidden bool, verb string) error {
	l, err := s.store.Listings.FindOwned(ctx, id, requesterID)
	if err != nil {
		return fmt.Errorf("failed to look up listing, %w", err)
	}

	if l == nil {
		return apperror.NotFoundf("Car listing not found or you do not have permission to %s it.", verb)
	}

	if err := s.store.Listings.SetHidden(ctx, id, hidden); err != nil {
		return fmt.Errorf("failed to update listing, %w", err)
	}

	return nil
}

// ListPublic returns visible listings, newest first
func (s *ListingService) ListPublic(ctx context.Context, q ListQuery) (*Page[model.ListingBrief], error) {
	return s.list(ctx, filterFrom(q), q)
}

// ListMine returns the listings of ownerID including hidden ones
func (s *ListingService) ListMine(ctx context.Context, ownerID uint, q ListQuery) (*Page[model.ListingBrief], error) {
	f := filterFrom(q)
	f.OwnerID = ownerID
	f.IncludeHidden = true

	return s.list(ctx, f, q)
}

func (s *ListingService) list(ctx context.Context, f repository.ListingFilter, q ListQuery) (*Page[model.ListingBrief], error) {
	offset, limit, page, err := s.paging.window(q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	listings, count, err := s.store.Listings.List(ctx, f, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings, %w", err)
	}

	return briefPage(listings, count, page, limit)
}

func filterFrom(q ListQuery) repository.ListingFilter {
	return repository.ListingFilter{
		Search:   q.Search,
		Brand:    q.Brand,
		City:     q.City,
		IsSold:   q.IsSold,
		Paid:     q.Paid,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		MinYear:  q.MinYear,
		MaxYear:  q.MaxYear,
	}
}
