package db_test

import (
	"automarket/db"
	"automarket/internal/model"
	"automarket/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := db.New("mysql", "whatever")
	assert.Error(t, err)
}

func TestMigrationCreatesTables(t *testing.T) {
	gdb := testutil.NewTestDB(t)

	for _, m := range db.Models {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}

	assert.True(t, gdb.Migrator().HasIndex(&model.Favorite{}, "unique_favorite"))
}

func TestFavoriteUniqueIndex(t *testing.T) {
	gdb := testutil.NewTestDB(t)

	u := testutil.CreateUser(t, gdb, "john", true)
	l := testutil.CreateListing(t, gdb, u, "camry", 0)

	require.NoError(t, gdb.Create(&model.Favorite{UserID: u.ID, CarListingID: l.ID}).Error)
	assert.Error(t, gdb.Create(&model.Favorite{UserID: u.ID, CarListingID: l.ID}).Error)
}

func TestSeed(t *testing.T) {
	gdb := testutil.NewTestDB(t)

	brands := []model.Brand{{Name: "Toyota", OriginCountry: "Japan"}, {Name: "BMW", OriginCountry: "Germany"}}
	locations := []model.Location{{City: "Almaty", Country: "Kazakhstan"}}

	require.NoError(t, db.Seed(gdb, brands, locations))

	// second run updates in place
	brands[0].Headquarters = "Toyota City"
	require.NoError(t, db.Seed(gdb, brands, locations))

	var count int64
	require.NoError(t, gdb.Model(&model.Brand{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	require.NoError(t, gdb.Model(&model.Location{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var toyota model.Brand
	require.NoError(t, gdb.Where("name = ?", "Toyota").First(&toyota).Error)
	assert.Equal(t, "Toyota City", toyota.Headquarters)

	assert.Error(t, db.Seed(gdb, []model.Brand{{OriginCountry: "Nowhere"}}, nil))
}
