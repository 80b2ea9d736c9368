package persistence

import (
	"time"
)

// ColonyMemoryModel represents the colony_memory table
type ColonyMemoryModel struct {
	Colony    string    `gorm:"column:colony;primaryKey"`
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (ColonyMemoryModel) TableName() string {
	return "colony_memory"
}

// SpawnRequestModel represents the spawn_requests table
type SpawnRequestModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Colony      string     `gorm:"column:colony;not null;index:idx_spawn_colony_status"`
	Role        string     `gorm:"column:role;not null"`
	Setup       string     `gorm:"column:setup"`
	Body        string     `gorm:"column:body;type:text"` // comma separated parts
	Priority    int        `gorm:"column:priority;not null"`
	Count       int        `gorm:"column:count;not null"`
	Current     int        `gorm:"column:current;not null;default:0"`
	NeededPower float64    `gorm:"column:needed_power"`
	Status      string     `gorm:"column:status;not null;default:'pending';index:idx_spawn_colony_status"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
	FulfilledAt *time.Time `gorm:"column:fulfilled_at"`
}

func (SpawnRequestModel) TableName() string {
	return "spawn_requests"
}

// TickReportModel represents the tick_reports table
type TickReportModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	Colony     string    `gorm:"column:colony;not null;index:idx_tick_colony_recorded"`
	Tick       int       `gorm:"column:tick;not null"`
	Agents     int       `gorm:"column:agents;not null"`
	Matched    int       `gorm:"column:matched;not null"`
	Fallbacks  int       `gorm:"column:fallbacks;not null"`
	Parked     int       `gorm:"column:parked;not null"`
	Evading    int       `gorm:"column:evading;not null"`
	Errors     int       `gorm:"column:errors;not null"`
	Requests   int       `gorm:"column:requests;not null"`
	Downtime   float64   `gorm:"column:downtime;not null"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index:idx_tick_colony_recorded"`
}

func (TickReportModel) TableName() string {
	return "tick_reports"
}

// AllModels lists every table for migrations
func AllModels() []interface{} {
	return []interface{}{
		&ColonyMemoryModel{},
		&SpawnRequestModel{},
		&TickReportModel{},
	}
}
