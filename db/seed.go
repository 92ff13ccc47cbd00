package db

import (
	"automarket/internal/model"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed inserts or refreshes reference data. Brands are matched by name and
// locations by city, so running it twice is harmless
func Seed(db *gorm.DB, brands []model.Brand, locations []model.Location) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, b := range brands {
			if b.Name == "" {
				return errors.New("seed brand without a name")
			}

			b.ID = 0
			var out model.Brand
			if err := tx.Where(model.Brand{Name: b.Name}).Assign(b).FirstOrCreate(&out).Error; err != nil {
				return fmt.Errorf("failed to seed brand %s, %w", b.Name, err)
			}
		}

		for _, l := range locations {
			if l.City == "" {
				return errors.New("seed location without a city")
			}

			l.ID = 0
			var out model.Location
			if err := tx.Where(model.Location{City: l.City}).Assign(l).FirstOrCreate(&out).Error; err != nil {
				return fmt.Errorf("failed to seed location %s, %w", l.City, err)
			}
		}

		zap.L().Info("Reference data seeded", zap.Int("brands", len(brands)), zap.Int("locations", len(locations)))
		return nil
	})
}
