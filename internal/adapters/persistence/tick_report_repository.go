package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
)

// GormTickReportRepository implements TickReportRepository using GORM
type GormTickReportRepository struct {
	db *gorm.DB
}

// NewGormTickReportRepository creates a new GORM tick report repository
func NewGormTickReportRepository(db *gorm.DB) *GormTickReportRepository {
	return &GormTickReportRepository{db: db}
}

// Save appends a report
func (r *GormTickReportRepository) Save(ctx context.Context, report *common.TickReport) error {
	model := &TickReportModel{
		Colony:     report.Colony,
		Tick:       report.Tick,
		Agents:     report.Agents,
		Matched:    report.Matched,
		Fallbacks:  report.Fallbacks,
		Parked:     report.Parked,
		Evading:    report.Evading,
		Errors:     report.Errors,
		Requests:   report.Requests,
		Downtime:   report.Downtime,
		RecordedAt: report.RecordedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save tick report: %w", err)
	}
	return nil
}

// ListRecent returns up to limit reports of a colony, newest first
func (r *GormTickReportRepository) ListRecent(ctx context.Context, colony string, limit int) ([]*common.TickReport, error) {
	var models []TickReportModel
	result := r.db.WithContext(ctx).
		Where("colony = ?", colony).
		Order("recorded_at DESC").Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list tick reports: %w", result.Error)
	}

	reports := make([]*common.TickReport, 0, len(models))
	for _, m := range models {
		reports = append(reports, &common.TickReport{
			Colony:     m.Colony,
			Tick:       m.Tick,
			Agents:     m.Agents,
			Matched:    m.Matched,
			Fallbacks:  m.Fallbacks,
			Parked:     m.Parked,
			Evading:    m.Evading,
			Errors:     m.Errors,
			Requests:   m.Requests,
			Downtime:   m.Downtime,
			RecordedAt: m.RecordedAt,
		})
	}
	return reports, nil
}
