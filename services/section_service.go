package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yeremiapane/table-reservations/database"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
	"gorm.io/gorm"
)

// SectionWithTables -> section beserta nomor meja yang ada di dalamnya
type SectionWithTables struct {
	models.Section
	TableNumbers []int `json:"tables"`
}

type SectionService struct {
	db *database.Handle
}

func NewSectionService(db *database.Handle) *SectionService {
	return &SectionService{db: db}
}

func (s *SectionService) List(ctx context.Context) ([]SectionWithTables, error) {
	var sections []models.Section
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).
			Preload("Tables").
			Order("display_order ASC, id ASC").
			Find(&sections).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]SectionWithTables, 0, len(sections))
	for _, sec := range sections {
		numbers := make([]int, 0, len(sec.Tables))
		for _, t := range sec.Tables {
			numbers = append(numbers, t.TableNumber)
		}
		sort.Ints(numbers)
		out = append(out, SectionWithTables{Section: sec, TableNumbers: numbers})
	}
	return out, nil
}

func (s *SectionService) Create(ctx context.Context, name string, displayOrder int) (models.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Section{}, ErrNameRequired
	}

	section := models.Section{Name: name, DisplayOrder: displayOrder}
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := ensureSectionNameFree(tx, name, 0); err != nil {
				return err
			}
			return tx.Create(&section).Error
		})
	})
	if err != nil {
		return models.Section{}, err
	}
	utils.Info().WithField("section", name).Info("Section created")
	return section, nil
}

func (s *SectionService) Rename(ctx context.Context, id uint, name string) (models.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Section{}, ErrNameRequired
	}

	var section models.Section
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&section, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSectionNotFound
				}
				return err
			}
			if err := ensureSectionNameFree(tx, name, id); err != nil {
				return err
			}
			section.Name = name
			return tx.Save(&section).Error
		})
	})
	if err != nil {
		return models.Section{}, err
	}
	return section, nil
}

// Delete menghapus section dan pembagian mejanya; reservasi tidak tersentuh
func (s *SectionService) Delete(ctx context.Context, id uint) error {
	return s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("section_id = ?", id).Delete(&models.SectionTable{}).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Section{}, id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrSectionNotFound
			}
			return nil
		})
	})
}

// AssignTables mengganti daftar meja sebuah section. Meja yang sebelumnya ada
// di section lain dipindahkan ke section ini.
func (s *SectionService) AssignTables(ctx context.Context, id uint, tables []int) error {
	seen := map[int]bool{}
	unique := make([]int, 0, len(tables))
	for _, n := range tables {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidTable, n)
		}
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}

	return s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var section models.Section
			if err := tx.First(&section, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSectionNotFound
				}
				return err
			}

			if err := tx.Where("section_id = ?", id).Delete(&models.SectionTable{}).Error; err != nil {
				return err
			}
			if len(unique) == 0 {
				return nil
			}
			if err := tx.Where("table_number IN ?", unique).Delete(&models.SectionTable{}).Error; err != nil {
				return err
			}

			rows := make([]models.SectionTable, 0, len(unique))
			for _, n := range unique {
				rows = append(rows, models.SectionTable{SectionID: id, TableNumber: n})
			}
			return tx.Create(&rows).Error
		})
	})
}

func ensureSectionNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := tx.Model(&models.Section{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSectionExists
	}
	return nil
}
