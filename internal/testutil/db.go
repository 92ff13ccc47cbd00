// Package testutil provides helpers shared by the test suites
package testutil

import (
	"automarket/db"
	"automarket/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database private to t
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.New("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	// every pooled connection would otherwise open its own empty database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { sqlDB.Close() })

	return gdb
}

// CreateUser inserts a user; verified controls both is_active and is_verified
func CreateUser(t *testing.T, gdb *gorm.DB, username string, verified bool) *model.User {
	t.Helper()

	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     verified,
		IsVerified:   verified,
	}
	require.NoError(t, gdb.Create(u).Error)

	return u
}

// SeedReference inserts a Toyota brand and an Almaty location
func SeedReference(t *testing.T, gdb *gorm.DB) (*model.Brand, *model.Location) {
	t.Helper()

	b := &model.Brand{Name: "Toyota", OriginCountry: "Japan", EstablishedYear: 1937}
	require.NoError(t, gdb.Create(b).Error)

	l := &model.Location{City: "Almaty", Country: "Kazakhstan"}
	require.NoError(t, gdb.Create(l).Error)

	return b, l
}

// CreateListing inserts a complete listing owned by owner with n images
func CreateListing(t *testing.T, gdb *gorm.DB, owner *model.User, title string, images int) *model.CarListing {
	t.Helper()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &model.CarListing{
		UserID:  owner.ID,
		Title:   title,
		Price:   model.NewPrice(1_000_000),
		Year:    2020,
		Mileage: 1000,
		Insurance: &model.InsuranceInfo{
			InsuranceStartDate: start,
			InsuranceEndDate:   start.AddDate(1, 0, 0),
			OwnerCount:         1,
		},
	}

	for i := range images {
		l.Images = append(l.Images, model.CarImage{ImageURL: "https://img.example.com/" + title + "/" + string(rune('a'+i)) + ".jpg"})
	}

	require.NoError(t, gdb.Create(l).Error)

	return l
}
