package db

import (
	"context"

	"github.com/terraincognita07/cyclecast/internal/models"
	"gorm.io/gorm"
)

type CycleRecordRepository struct {
	database *gorm.DB
}

func NewCycleRecordRepository(database *gorm.DB) *CycleRecordRepository {
	return &CycleRecordRepository{database: database}
}

func (repo *CycleRecordRepository) ListByUser(ctx context.Context, userID uint) ([]models.CycleRecord, error) {
	records := make([]models.CycleRecord, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("predicted ASC, cycle_start_date ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceForUser swaps the stored history for records in one transaction.
func (repo *CycleRecordRepository) ReplaceForUser(ctx context.Context, userID uint, records []models.CycleRecord) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CycleRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		rows := make([]models.CycleRecord, len(records))
		for index, record := range records {
			record.ID = 0
			record.UserID = userID
			rows[index] = record
		}
		return tx.Create(&rows).Error
	})
}
