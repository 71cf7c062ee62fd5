package database

import (
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
	"gorm.io/gorm"
)

type defaultSection struct {
	name  string
	order int
	first int
	last  int
}

// Denah bawaan: 50 meja dibagi ke tiga area
var defaultSections = []defaultSection{
	{name: "Main hall", order: 1, first: 1, last: 20},
	{name: "Covered garden", order: 2, first: 21, last: 35},
	{name: "Garden", order: 3, first: 36, last: 50},
}

// Migrate membuat/menyesuaikan schema. Aman dipanggil berulang kali,
// termasuk setelah restore backup dari versi schema yang lebih lama.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Waiter{},
		&models.Reservation{},
		&models.Section{},
		&models.SectionTable{},
		&models.Shift{},
	)
	if err != nil {
		utils.Error().Printf("Failed to AutoMigrate: %v", err)
		return err
	}
	utils.Info().Debug("AutoMigrate completed.")

	return seedDefaultSections(db)
}

func seedDefaultSections(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Section{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, ds := range defaultSections {
			section := models.Section{Name: ds.name, DisplayOrder: ds.order}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			tables := make([]models.SectionTable, 0, ds.last-ds.first+1)
			for n := ds.first; n <= ds.last; n++ {
				tables = append(tables, models.SectionTable{SectionID: section.ID, TableNumber: n})
			}
			if err := tx.Create(&tables).Error; err != nil {
				return err
			}
		}
		utils.Info().Printf("Seeded %d default sections", len(defaultSections))
		return nil
	})
}
