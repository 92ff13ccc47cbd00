// Package db opens the relational store and keeps its schema up to date
package db

import (
	"automarket/internal/model"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Models lists every table in migration order
var Models = []any{
	&model.User{},
	&model.EmailVerification{},
	&model.ResendRequest{},
	&model.Brand{},
	&model.Location{},
	&model.CarListing{},
	&model.InsuranceInfo{},
	&model.CarImage{},
	&model.Favorite{},
}

// New opens the database with driver ("sqlite" or "postgres") and migrates it.
// SQLite only enforces the declared cascades when the DSN carries _foreign_keys=on
func New(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", driver, err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
