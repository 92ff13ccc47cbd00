package service

import (
	"automarket/internal/model"
	"time"
)

const dateLayout = "2006-01-02"

type InsuranceInput struct {
	InsuranceStartDate string `json:"insurance_start_date" validate:"required,datetime=2006-01-02"`
	InsuranceEndDate   string `json:"insurance_end_date" validate:"required,datetime=2006-01-02"`
	OwnerCount         int    `json:"owner_count" validate:"gte=0"`
	AccidentCount      int    `json:"accident_count" validate:"gte=0"`
	AccidentDetails    string `json:"accident_details"`
}

type ImageInput struct {
	ImageURL string `json:"image_url" validate:"required,url,max=200"`
}

// ListingInput is the body of a new listing. Brand and location are
// referenced by name and have to exist already
type ListingInput struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Description  string          `json:"description" validate:"required"`
	Price        *model.Price    `json:"price" validate:"required"`
	Model        string          `json:"model" validate:"max=255"`
	Year         int             `json:"year" validate:"required,gte=1886,lte=2100"`
	Mileage      *int            `json:"mileage" validate:"required,gte=0"`
	EngineType   string          `json:"engine_type" validate:"required,max=100"`
	Transmission string          `json:"transmission" validate:"required,max=100"`
	BodyType     string          `json:"body_type" validate:"required,max=100"`
	Color        string          `json:"color" validate:"required,max=50"`
	BrandName    string          `json:"brand_name" validate:"required,max=255"`
	LocationName string          `json:"location_name" validate:"required,max=255"`
	IsSold       bool            `json:"is_sold"`
	Paid         bool            `json:"paid"`
	Insurance    *InsuranceInput `json:"insurance_information" validate:"required"`
	Images       []ImageInput    `json:"images" validate:"max=20,dive"`
}

type InsurancePatch struct {
	InsuranceStartDate *string `json:"insurance_start_date" validate:"omitnil,datetime=2006-01-02"`
	InsuranceEndDate   *string `json:"insurance_end_date" validate:"omitnil,datetime=2006-01-02"`
	OwnerCount         *int    `json:"owner_count" validate:"omitnil,gte=0"`
	AccidentCount      *int    `json:"accident_count" validate:"omitnil,gte=0"`
	AccidentDetails    *string `json:"accident_details"`
}

// ListingPatch is a partial listing update. Nil fields are left alone and a
// non-nil Images replaces every image of the listing
type ListingPatch struct {
	Title        *string         `json:"title" validate:"omitnil,min=1,max=255"`
	Description  *string         `json:"description" validate:"omitnil,min=1"`
	Price        *model.Price    `json:"price"`
	Model        *string         `json:"model" validate:"omitnil,max=255"`
	Year         *int            `json:"year" validate:"omitnil,gte=1886,lte=2100"`
	Mileage      *int            `json:"mileage" validate:"omitnil,gte=0"`
	EngineType   *string         `json:"engine_type" validate:"omitnil,min=1,max=100"`
	Transmission *string         `json:"transmission" validate:"omitnil,min=1,max=100"`
	BodyType     *string         `json:"body_type" validate:"omitnil,min=1,max=100"`
	Color        *string         `json:"color" validate:"omitnil,min=1,max=50"`
	BrandName    *string         `json:"brand_name" validate:"omitnil,min=1,max=255"`
	LocationName *string         `json:"location_name" validate:"omitnil,min=1,max=255"`
	IsSold       *bool           `json:"is_sold"`
	Paid         *bool           `json:"paid"`
	Insurance    *InsurancePatch `json:"insurance_information"`
	Images       []ImageInput    `json:"images" validate:"omitempty,max=20,dive"`
}

// ListQuery selects a page of listings and optionally filters it
type ListQuery struct {
	Page     int
	PageSize int

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

// parseDate expects a value already checked by the datetime rule
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func imagesFrom(in []ImageInput) []model.CarImage {
	images := make([]model.CarImage, len(in))
	for i, img := range in {
		images[i] = model.CarImage{ImageURL: img.ImageURL}
	}

	return images
}
