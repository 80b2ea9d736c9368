package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// GormColonyMemory implements ColonyMemory using GORM
type GormColonyMemory struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormColonyMemory creates a new GORM colony memory store
func NewGormColonyMemory(db *gorm.DB, clock shared.Clock) *GormColonyMemory {
	clock = shared.ClockOrReal(clock)
	return &GormColonyMemory{db: db, clock: clock}
}

// Get reads a key; found is false when it was never written
func (r *GormColonyMemory) Get(ctx context.Context, colony, key string) (string, bool, error) {
	var model ColonyMemoryModel
	result := r.db.WithContext(ctx).Where("colony = ? AND key = ?", colony, key).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read colony memory: %w", result.Error)
	}
	return model.Value, true, nil
}

// Set upserts a key
func (r *GormColonyMemory) Set(ctx context.Context, colony, key, value string) error {
	model := ColonyMemoryModel{Colony: colony, Key: key, Value: value, UpdatedAt: r.clock.Now()}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "colony"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to write colony memory: %w", result.Error)
	}
	return nil
}

// Keys lists a colony's keys with their last update
func (r *GormColonyMemory) Keys(ctx context.Context, colony string) (map[string]time.Time, error) {
	var models []ColonyMemoryModel
	if err := r.db.WithContext(ctx).Where("colony = ?", colony).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list colony memory: %w", err)
	}
	keys := make(map[string]time.Time, len(models))
	for _, m := range models {
		keys[m.Key] = m.UpdatedAt
	}
	return keys, nil
}
