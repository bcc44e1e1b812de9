package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/terraincognita07/cyclecast/internal/models"
)

var (
	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryLoadFailed   = errors.New("load entries failed")
	ErrEntryCreateFailed = errors.New("create entry failed")
	ErrEntryUpdateFailed = errors.New("update entry failed")
	ErrEntryDeleteFailed = errors.New("delete entry failed")
)

type EntryRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.PeriodEntry, error)
	FindByID(ctx context.Context, userID uint, entryID uint) (models.PeriodEntry, bool, error)
	Create(ctx context.Context, entry *models.PeriodEntry) error
	Save(ctx context.Context, entry *models.PeriodEntry) error
	Delete(ctx context.Context, userID uint, entryID uint) (bool, error)
}

type PredictionRefresher interface {
	Refresh(ctx context.Context, userID uint, trigger RefreshTrigger) (PredictionSnapshot, error)
}

type EntryService struct {
	entries   EntryRepository
	refresher PredictionRefresher
}

func NewEntryService(entries EntryRepository, refresher PredictionRefresher) *EntryService {
	return &EntryService{
		entries:   entries,
		refresher: refresher,
	}
}

func (service *EntryService) List(ctx context.Context, userID uint) ([]models.PeriodEntry, error) {
	entries, err := service.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntryLoadFailed, err)
	}
	return entries, nil
}

func (service *EntryService) Log(ctx context.Context, userID uint, input EntryInput) (models.PeriodEntry, error) {
	normalized, err := NormalizeEntryInput(input)
	if err != nil {
		return models.PeriodEntry{}, err
	}

	entry := models.PeriodEntry{UserID: userID}
	normalized.apply(&entry)
	if err := service.entries.Create(ctx, &entry); err != nil {
		return models.PeriodEntry{}, fmt.Errorf("%w: %w", ErrEntryCreateFailed, err)
	}

	service.refreshAfterWrite(ctx, userID)
	return entry, nil
}

func (service *EntryService) Update(ctx context.Context, userID uint, entryID uint, input EntryInput) (models.PeriodEntry, error) {
	normalized, err := NormalizeEntryInput(input)
	if err != nil {
		return models.PeriodEntry{}, err
	}

	entry, found, err := service.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		return models.PeriodEntry{}, fmt.Errorf("%w: %w", ErrEntryLoadFailed, err)
	}
	if !found {
		return models.PeriodEntry{}, ErrEntryNotFound
	}

	normalized.apply(&entry)
	if err := service.entries.Save(ctx, &entry); err != nil {
		return models.PeriodEntry{}, fmt.Errorf("%w: %w", ErrEntryUpdateFailed, err)
	}

	service.refreshAfterWrite(ctx, userID)
	return entry, nil
}

func (service *EntryService) Delete(ctx context.Context, userID uint, entryID uint) error {
	deleted, err := service.entries.Delete(ctx, userID, entryID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEntryDeleteFailed, err)
	}
	if !deleted {
		return ErrEntryNotFound
	}

	service.refreshAfterWrite(ctx, userID)
	return nil
}

// The write already succeeded; a failed refresh only leaves the cached prediction stale
// until the next trigger.
func (service *EntryService) refreshAfterWrite(ctx context.Context, userID uint) {
	if service.refresher == nil {
		return
	}
	if _, err := service.refresher.Refresh(ctx, userID, RefreshPostWrite); err != nil {
		log.Printf("refresh: post-write refresh for user %d failed: %v", userID, err)
	}
}
