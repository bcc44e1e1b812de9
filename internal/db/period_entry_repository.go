package db

import (
	"context"

	"github.com/terraincognita07/cyclecast/internal/models"
	"gorm.io/gorm"
)

type PeriodEntryRepository struct {
	database *gorm.DB
}

func NewPeriodEntryRepository(database *gorm.DB) *PeriodEntryRepository {
	return &PeriodEntryRepository{database: database}
}

func (repo *PeriodEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.PeriodEntry, error) {
	entries := make([]models.PeriodEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *PeriodEntryRepository) FindByID(ctx context.Context, userID uint, entryID uint) (models.PeriodEntry, bool, error) {
	var entry models.PeriodEntry
	err := repo.database.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		First(&entry).Error
	return entry, found(err), ignoreNotFound(err)
}

func (repo *PeriodEntryRepository) Create(ctx context.Context, entry *models.PeriodEntry) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}

func (repo *PeriodEntryRepository) Save(ctx context.Context, entry *models.PeriodEntry) error {
	return repo.database.WithContext(ctx).Save(entry).Error
}

func (repo *PeriodEntryRepository) Delete(ctx context.Context, userID uint, entryID uint) (bool, error) {
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		Delete(&models.PeriodEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
