package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// GormPlayerSnapshotRepository implements player.SnapshotRepository using GORM
type GormPlayerSnapshotRepository struct {
	db *gorm.DB
}

// NewGormPlayerSnapshotRepository creates a new GORM player snapshot repository
func NewGormPlayerSnapshotRepository(db *gorm.DB) *GormPlayerSnapshotRepository {
	return &GormPlayerSnapshotRepository{db: db}
}

// Save appends a snapshot
func (r *GormPlayerSnapshotRepository) Save(ctx context.Context, snapshot player.Snapshot) error {
	model, err := r.snapshotToModel(snapshot)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save snapshot for player %d: %w", snapshot.PlayerID, err)
	}
	return nil
}

// FindLatest returns the snapshot with the highest tick
func (r *GormPlayerSnapshotRepository) FindLatest(ctx context.Context, playerID int) (*player.Snapshot, error) {
	var model PlayerSnapshotModel
	result := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("tick DESC").Order("id DESC").
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("snapshot not found for player %d", playerID)
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", result.Error)
	}
	return r.modelToSnapshot(&model)
}

// ListByPlayer returns every snapshot of a player, oldest first
func (r *GormPlayerSnapshotRepository) ListByPlayer(ctx context.Context, playerID int) ([]player.Snapshot, error) {
	var models []PlayerSnapshotModel
	result := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("tick ASC").Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", result.Error)
	}

	snapshots := make([]player.Snapshot, 0, len(models))
	for i := range models {
		s, err := r.modelToSnapshot(&models[i])
		if err != nil {
			continue // Skip corrupt rows
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, nil
}

func (r *GormPlayerSnapshotRepository) snapshotToModel(s player.Snapshot) (*PlayerSnapshotModel, error) {
	resources := make(map[string]int, len(s.Resources))
	for _, q := range s.Resources {
		resources[string(q.Type)] = q.Quantity
	}
	resourcesJSON, err := json.Marshal(resources)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resources: %w", err)
	}
	researched := s.Researched
	if researched == nil {
		researched = []string{}
	}
	researchedJSON, err := json.Marshal(researched)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal research: %w", err)
	}
	countsJSON, err := json.Marshal(s.UnitCounts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal unit counts: %w", err)
	}

	return &PlayerSnapshotModel{
		PlayerID:      s.PlayerID,
		Name:          s.Name,
		Tick:          s.Tick,
		Population:    s.Population,
		MaxPopulation: s.MaxPopulation,
		Resources:     string(resourcesJSON),
		Researched:    string(researchedJSON),
		UnitCounts:    string(countsJSON),
	}, nil
}

func (r *GormPlayerSnapshotRepository) modelToSnapshot(m *PlayerSnapshotModel) (*player.Snapshot, error) {
	var resources map[string]int
	if m.Resources != "" {
		if err := json.Unmarshal([]byte(m.Resources), &resources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resources: %w", err)
		}
	}
	quantities := make([]shared.ResourceQuantity, 0, len(resources))
	for resource, quantity := range resources {
		quantities = append(quantities, shared.NewResourceQuantity(shared.ResourceType(resource), quantity))
	}

	var researched []string
	if m.Researched != "" {
		if err := json.Unmarshal([]byte(m.Researched), &researched); err != nil {
			return nil, fmt.Errorf("failed to unmarshal research: %w", err)
		}
	}
	var counts map[string]int
	if m.UnitCounts != "" && m.UnitCounts != "null" {
		if err := json.Unmarshal([]byte(m.UnitCounts), &counts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal unit counts: %w", err)
		}
	}

	return &player.Snapshot{
		PlayerID:      m.PlayerID,
		Name:          m.Name,
		Tick:          m.Tick,
		Resources:     shared.SumResources(quantities),
		Population:    m.Population,
		MaxPopulation: m.MaxPopulation,
		Researched:    researched,
		UnitCounts:    counts,
	}, nil
}
