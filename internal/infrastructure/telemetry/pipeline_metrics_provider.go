// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// openDealStatuses are the statuses counted as open pipeline
var openDealStatuses = []string{"draft", "sent", "declined"}

// GormPipelineMetricsProvider implements PipelineMetricsProvider using GORM.
// It queries the deals and enrollments tables directly for aggregated metrics.
type GormPipelineMetricsProvider struct {
	db *gorm.DB
}

// NewGormPipelineMetricsProvider creates a new GormPipelineMetricsProvider.
func NewGormPipelineMetricsProvider(db *gorm.DB) *GormPipelineMetricsProvider {
	return &GormPipelineMetricsProvider{db: db}
}

// GetActiveDealCounts returns the number of open deals per status.
func (p *GormPipelineMetricsProvider) GetActiveDealCounts(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("deals").
		Select("status, COUNT(*) as count").
		Where("status IN ?", openDealStatuses).
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GetOpenMonthlyValue returns the summed monthly total of open deals.
func (p *GormPipelineMetricsProvider) GetOpenMonthlyValue(ctx context.Context) (float64, error) {
	var total float64
	err := p.db.WithContext(ctx).
		Table("deals").
		Select("COALESCE(SUM(monthly_total), 0)").
		Where("status IN ?", openDealStatuses).
		Scan(&total).Error

	return total, err
}

// GetActiveEnrollmentCount returns the number of active automation enrollments.
func (p *GormPipelineMetricsProvider) GetActiveEnrollmentCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("automation_enrollments").
		Where("status = ?", "active").
		Count(&count).Error

	return count, err
}
