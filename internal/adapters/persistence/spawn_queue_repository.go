package persistence

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

const (
	spawnStatusPending   = "pending"
	spawnStatusFulfilled = "fulfilled"
)

// GormSpawnQueue implements SpawnQueue using GORM. A colony has at most one
// pending request per role; a newer wishlist entry replaces the older one.
type GormSpawnQueue struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSpawnQueue creates a new GORM spawn queue
func NewGormSpawnQueue(db *gorm.DB, clock shared.Clock) *GormSpawnQueue {
	clock = shared.ClockOrReal(clock)
	return &GormSpawnQueue{db: db, clock: clock}
}

// Wishlist records a spawn request, superseding the role's pending one
func (q *GormSpawnQueue) Wishlist(ctx context.Context, request fleet.SpawnRequest) error {
	if request.ID == "" {
		return fmt.Errorf("spawn request has no id")
	}
	model := spawnRequestToModel(request)
	model.CreatedAt = q.clock.Now()

	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("colony = ? AND role = ? AND status = ?", request.Colony, request.Role, spawnStatusPending).
			Delete(&SpawnRequestModel{}).Error; err != nil {
			return fmt.Errorf("failed to supersede spawn request: %w", err)
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to queue spawn request: %w", err)
		}
		return nil
	})
}

// Pending lists unfulfilled requests of a colony, highest priority first
func (q *GormSpawnQueue) Pending(ctx context.Context, colony string) ([]fleet.SpawnRequest, error) {
	var models []SpawnRequestModel
	result := q.db.WithContext(ctx).
		Where("colony = ? AND status = ?", colony, spawnStatusPending).
		Order("priority ASC").Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list spawn requests: %w", result.Error)
	}

	requests := make([]fleet.SpawnRequest, 0, len(models))
	for i := range models {
		requests = append(requests, modelToSpawnRequest(&models[i]))
	}
	return requests, nil
}

// MarkFulfilled closes a request once its agents exist
func (q *GormSpawnQueue) MarkFulfilled(ctx context.Context, id string) error {
	now := q.clock.Now()
	result := q.db.WithContext(ctx).Model(&SpawnRequestModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": spawnStatusFulfilled, "fulfilled_at": now})
	if result.Error != nil {
		return fmt.Errorf("failed to fulfil spawn request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("spawn request not found: %s", id)
	}
	return nil
}

func spawnRequestToModel(r fleet.SpawnRequest) *SpawnRequestModel {
	return &SpawnRequestModel{
		ID:          r.ID,
		Colony:      r.Colony,
		Role:        r.Role,
		Setup:       r.Setup,
		Body:        strings.Join(r.Body, ","),
		Priority:    r.Priority,
		Count:       r.Count,
		Current:     r.Current,
		NeededPower: r.NeededPower,
		Status:      spawnStatusPending,
	}
}

func modelToSpawnRequest(m *SpawnRequestModel) fleet.SpawnRequest {
	var body []string
	if m.Body != "" {
		body = strings.Split(m.Body, ",")
	}
	return fleet.SpawnRequest{
		ID:          m.ID,
		Colony:      m.Colony,
		Role:        m.Role,
		Setup:       m.Setup,
		Body:        body,
		Priority:    m.Priority,
		Count:       m.Count,
		Current:     m.Current,
		NeededPower: m.NeededPower,
	}
}
