package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/terraincognita07/cyclecast/internal/models"
)

var ErrInvalidRefreshTrigger = errors.New("invalid refresh trigger")

type RefreshTrigger string

const (
	RefreshInitialLoad    RefreshTrigger = "initial_load"
	RefreshIdentityChange RefreshTrigger = "identity_change"
	RefreshPostWrite      RefreshTrigger = "post_write"
)

func IsValidRefreshTrigger(trigger RefreshTrigger) bool {
	switch trigger {
	case RefreshInitialLoad, RefreshIdentityChange, RefreshPostWrite:
		return true
	default:
		return false
	}
}

type EntrySource interface {
	FetchEntries(ctx context.Context, userID uint) ([]models.PeriodEntry, error)
	FetchCycleHistory(ctx context.Context, userID uint) ([]models.CycleRecord, error)
}

type CycleHistoryWriter interface {
	ReplaceCycleHistory(ctx context.Context, userID uint, records []models.CycleRecord) error
}

type PredictionSnapshot struct {
	UserID     uint
	Result     PredictionResult
	Trigger    RefreshTrigger
	ComputedAt time.Time
	generation uint64
}

// PredictionService recomputes predictions on demand and keeps the latest result per user.
// A refresh that started before the currently published one never replaces it.
type PredictionService struct {
	source  EntrySource
	history CycleHistoryWriter
	now     func() time.Time

	mu             sync.Mutex
	nextGeneration uint64
	latest         map[uint]PredictionSnapshot
	forgottenAt    map[uint]uint64
	historyLocks   map[uint]*sync.Mutex
}

func NewPredictionService(source EntrySource, history CycleHistoryWriter) *PredictionService {
	return &PredictionService{
		source:       source,
		history:      history,
		now:          time.Now,
		latest:       make(map[uint]PredictionSnapshot),
		forgottenAt:  make(map[uint]uint64),
		historyLocks: make(map[uint]*sync.Mutex),
	}
}

func (service *PredictionService) Refresh(ctx context.Context, userID uint, trigger RefreshTrigger) (PredictionSnapshot, error) {
	if !IsValidRefreshTrigger(trigger) {
		return PredictionSnapshot{}, ErrInvalidRefreshTrigger
	}

	generation := service.beginRefresh()
	entries, err := service.source.FetchEntries(ctx, userID)
	if err != nil {
		return PredictionSnapshot{}, fmt.Errorf("fetch entries for user %d: %w", userID, err)
	}

	snapshot := PredictionSnapshot{
		UserID:     userID,
		Result:     ComputePrediction(entries),
		Trigger:    trigger,
		ComputedAt: service.now(),
		generation: generation,
	}

	published, current := service.publish(snapshot)
	if !published {
		return current, nil
	}

	if service.history != nil {
		service.storeHistory(ctx, snapshot, CycleHistory(entries, snapshot.Result))
	}
	return snapshot, nil
}

func (service *PredictionService) Current(userID uint) (PredictionSnapshot, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	snapshot, ok := service.latest[userID]
	return snapshot, ok
}

// Forget drops the cached prediction, e.g. when the user signs out. Refreshes
// already in flight for the user are not published afterwards.
func (service *PredictionService) Forget(userID uint) {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.nextGeneration++
	service.forgottenAt[userID] = service.nextGeneration
	delete(service.latest, userID)
}

func (service *PredictionService) History(ctx context.Context, userID uint) ([]models.CycleRecord, error) {
	records, err := service.source.FetchCycleHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch cycle history for user %d: %w", userID, err)
	}
	return records, nil
}

func (service *PredictionService) beginRefresh() uint64 {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.nextGeneration++
	return service.nextGeneration
}

func (service *PredictionService) publish(snapshot PredictionSnapshot) (bool, PredictionSnapshot) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if current, ok := service.latest[snapshot.UserID]; ok && current.generation > snapshot.generation {
		return false, current
	}
	if snapshot.generation <= service.forgottenAt[snapshot.UserID] {
		return false, snapshot
	}
	service.latest[snapshot.UserID] = snapshot
	return true, snapshot
}

// storeHistory writes the cycle history of snapshot unless a newer refresh has
// been published in the meantime. Writes for one user never overlap.
func (service *PredictionService) storeHistory(ctx context.Context, snapshot PredictionSnapshot, records []models.CycleRecord) {
	lock := service.historyLock(snapshot.UserID)
	lock.Lock()
	defer lock.Unlock()

	if !service.isPublished(snapshot) {
		return
	}
	if err := service.history.ReplaceCycleHistory(ctx, snapshot.UserID, records); err != nil {
		log.Printf("refresh: store cycle history for user %d failed: %v", snapshot.UserID, err)
	}
}

func (service *PredictionService) historyLock(userID uint) *sync.Mutex {
	service.mu.Lock()
	defer service.mu.Unlock()

	lock, ok := service.historyLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		service.historyLocks[userID] = lock
	}
	return lock
}

func (service *PredictionService) isPublished(snapshot PredictionSnapshot) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	current, ok := service.latest[snapshot.UserID]
	return ok && current.generation == snapshot.generation
}
