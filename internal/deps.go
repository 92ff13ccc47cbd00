package internal

import (
	"automarket/internal/service"

	"gorm.io/gorm"
)

// Deps is handed to every handler
type Deps struct {
	DB        *gorm.DB
	Users     *service.UserService
	Listings  *service.ListingService
	Favorites *service.FavoriteService
	Reference *service.ReferenceService
}
