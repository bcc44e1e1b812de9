package db

import (
	"context"

	"github.com/terraincognita07/cyclecast/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	Users   *UserRepository
	Entries *PeriodEntryRepository
	Cycles  *CycleRecordRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		Entries: NewPeriodEntryRepository(database),
		Cycles:  NewCycleRecordRepository(database),
	}
}

// Source feeds stored entries and cycle history to the prediction engine.
type Source struct {
	repos *Repositories
}

func NewSource(repos *Repositories) *Source {
	return &Source{repos: repos}
}

// FetchEntries returns the user's entries with symptom severities pulled back
// into range.
func (source *Source) FetchEntries(ctx context.Context, userID uint) ([]models.PeriodEntry, error) {
	entries, err := source.repos.Entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for index := range entries {
		entries[index].Symptoms = entries[index].Symptoms.Clamped()
	}
	return entries, nil
}

func (source *Source) FetchCycleHistory(ctx context.Context, userID uint) ([]models.CycleRecord, error) {
	return source.repos.Cycles.ListByUser(ctx, userID)
}

func (source *Source) ReplaceCycleHistory(ctx context.Context, userID uint, records []models.CycleRecord) error {
	return source.repos.Cycles.ReplaceForUser(ctx, userID, records)
}
