package model

import "time"

type CarListing struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UserID       uint   `gorm:"index;not null"`
	Title        string `gorm:"size:255;not null"`
	Description  string `gorm:"type:text"`
	Price        Price  `gorm:"type:decimal(10,2);not null"`
	BrandID      *uint  `gorm:"index"`
	Brand        *Brand `gorm:"constraint:OnDelete:SET NULL"`
	CarModel     string `gorm:"column:model;size:255"`
	Year         int
	Mileage      int
	EngineType   string    `gorm:"size:100"`
	Transmission string    `gorm:"size:100"`
	BodyType     string    `gorm:"size:100"`
	Color        string    `gorm:"size:50"`
	LocationID   *uint     `gorm:"index"`
	Location     *Location `gorm:"constraint:OnDelete:SET NULL"`
	IsSold       bool      `gorm:"not null;default:false"`
	Paid         bool      `gorm:"not null;default:false"`
	IsHidden     bool      `gorm:"index;not null;default:false"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	Insurance *InsuranceInfo `gorm:"foreignKey:CarListingID;constraint:OnDelete:CASCADE"`
	Images    []CarImage     `gorm:"foreignKey:CarListingID;constraint:OnDelete:CASCADE"`
}

type InsuranceInfo struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CarListingID       uint      `gorm:"uniqueIndex;not null" json:"-"`
	InsuranceStartDate time.Time `gorm:"not null" json:"insurance_start_date"`
	InsuranceEndDate   time.Time `gorm:"not null" json:"insurance_end_date"`
	OwnerCount         int       `json:"owner_count"`
	AccidentCount      int       `json:"accident_count"`
	AccidentDetails    string    `gorm:"type:text" json:"accident_details"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}

type CarImage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CarListingID uint      `gorm:"index;not null" json:"-"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Favorite pairs a user with a listing they bookmarked. A pair is unique
type Favorite struct {
	ID           uint        `gorm:"primaryKey;autoIncrement"`
	UserID       uint        `gorm:"not null;uniqueIndex:unique_favorite,priority:1"`
	CarListingID uint        `gorm:"not null;uniqueIndex:unique_favorite,priority:2;index"`
	CarListing   *CarListing `gorm:"constraint:OnDelete:CASCADE"`
	AddedAt      time.Time   `gorm:"autoCreateTime"`
}

// ListingBrief is the compact representation used by list endpoints
type ListingBrief struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Price         Price   `json:"price"`
	Year          int     `json:"year"`
	Mileage       int     `json:"mileage"`
	FirstImageURL *string `json:"first_image_url"`
}

// ListingDetail is the full representation of a listing
type ListingDetail struct {
	ID                   uint           `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Price                Price          `json:"price"`
	Model                string         `json:"model"`
	Year                 int            `json:"year"`
	Mileage              int            `json:"mileage"`
	EngineType           string         `json:"engine_type"`
	Transmission         string         `json:"transmission"`
	BodyType             string         `json:"body_type"`
	Color                string         `json:"color"`
	BrandName            *string        `json:"brand_name"`
	LocationName         *string        `json:"location_name"`
	IsSold               bool           `json:"is_sold"`
	Paid                 bool           `json:"paid"`
	IsHidden             bool           `json:"is_hidden"`
	InsuranceInformation *InsuranceInfo `json:"insurance_information"`
	Images               []CarImage     `json:"images"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// Brief expects Images to be preloaded in id order
func (l *CarListing) Brief() ListingBrief {
	b := ListingBrief{
		ID:      l.ID,
		Title:   l.Title,
		Price:   l.Price,
		Year:    l.Year,
		Mileage: l.Mileage,
	}

	if len(l.Images) > 0 {
		url := l.Images[0].ImageURL
		b.FirstImageURL = &url
	}

	return b
}

func (l *CarListing) Detail() ListingDetail {
	d := ListingDetail{
		ID:                   l.ID,
		Title:                l.Title,
		Description:          l.Description,
		Price:                l.Price,
		Model:                l.CarModel,
		Year:                 l.Year,
		Mileage:              l.Mileage,
		EngineType:           l.EngineType,
		Transmission:         l.Transmission,
		BodyType:             l.BodyType,
		Color:                l.Color,
		IsSold:               l.IsSold,
		Paid:                 l.Paid,
		IsHidden:             l.IsHidden,
		InsuranceInformation: l.Insurance,
		Images:               l.Images,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}

	if d.Images == nil {
		d.Images = []CarImage{}
	}

	if l.Brand != nil {
		d.BrandName = &l.Brand.Name
	}

	if l.Location != nil {
		d.LocationName = &l.Location.City
	}

	return d
}
