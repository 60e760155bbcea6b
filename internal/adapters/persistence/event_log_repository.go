package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// GormEventLogRepository is a GORM-based implementation of common.EventLogRepository
type GormEventLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// Deduplication cache
	dedupCache   map[string]time.Time // key: runID+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormEventLogRepository creates a new event log repository.
// If clock is nil, uses RealClock. Passing the simulation clock makes the
// dedup window count game time instead of wall time.
func NewGormEventLogRepository(db *gorm.DB, clock shared.Clock) *GormEventLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormEventLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// SetDedupWindow changes the deduplication window; 0 disables deduplication
func (r *GormEventLogRepository) SetDedupWindow(window time.Duration) {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()
	r.dedupWindow = window
}

// Log writes an entry with time-windowed deduplication
func (r *GormEventLogRepository) Log(ctx context.Context, entry common.EventLogEntry) error {
	now := r.clock.Now()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}

	if r.isDuplicate(entry.RunID+"|"+entry.Message, now) {
		return nil
	}

	var metadataJSON string
	if len(entry.Metadata) > 0 {
		jsonBytes, err := json.Marshal(entry.Metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	model := &EventLogModel{
		RunID:     entry.RunID,
		PlayerID:  entry.PlayerID,
		Tick:      entry.Tick,
		Timestamp: entry.Timestamp,
		Level:     entry.Level,
		Message:   entry.Message,
		Metadata:  metadataJSON,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *GormEventLogRepository) isDuplicate(key string, now time.Time) bool {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()

	if r.dedupWindow <= 0 {
		return false
	}
	if lastLogged, exists := r.dedupCache[key]; exists && now.Sub(lastLogged) < r.dedupWindow {
		return true
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[key] = now
	return false
}

// cleanupDedupCache removes entries older than the window.
// Must be called while holding dedupMu.
func (r *GormEventLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// List returns entries newest first
func (r *GormEventLogRepository) List(ctx context.Context, filter common.EventLogFilter) ([]common.EventLogEntry, error) {
	var models []EventLogModel

	query := r.db.WithContext(ctx).Model(&EventLogModel{})
	if filter.RunID != "" {
		query = query.Where("run_id = ?", filter.RunID)
	}
	if filter.PlayerID != nil {
		query = query.Where("player_id = ?", *filter.PlayerID)
	}
	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}
	if filter.Since != nil {
		query = query.Where("timestamp > ?", *filter.Since)
	}

	query = query.Order("timestamp DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]common.EventLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = common.EventLogEntry{
			ID:        model.ID,
			RunID:     model.RunID,
			PlayerID:  model.PlayerID,
			Tick:      model.Tick,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}
