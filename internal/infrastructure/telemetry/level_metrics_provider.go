// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLevelMetricsProvider implements LevelMetricsProvider using GORM.
// It queries the inventory_levels table directly for aggregated metrics.
type GormLevelMetricsProvider struct {
	db *gorm.DB
}

// NewGormLevelMetricsProvider creates a new GormLevelMetricsProvider.
func NewGormLevelMetricsProvider(db *gorm.DB) *GormLevelMetricsProvider {
	return &GormLevelMetricsProvider{db: db}
}

// GetReservedQuantityByWarehouse returns total reserved quantity per warehouse for a tenant.
func (p *GormLevelMetricsProvider) GetReservedQuantityByWarehouse(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		WarehouseID uuid.UUID `gorm:"column:warehouse_id"`
		Reserved    int64     `gorm:"column:reserved"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("inventory_levels").
		Select("warehouse_id, COALESCE(SUM(reserved), 0) as reserved").
		Where("tenant_id = ?", tenantID).
		Group("warehouse_id").
		Having("SUM(reserved) > 0").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.WarehouseID] = r.Reserved
	}

	return m, nil
}

// GetBelowMinimumCount returns count of buckets below their minimum threshold for a tenant.
func (p *GormLevelMetricsProvider) GetBelowMinimumCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventory_levels").
		Where("tenant_id = ?", tenantID).
		Where("min_quantity > 0 AND on_hand < min_quantity").
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
// Tenants are not modelled as a first-class table; the set of active tenants
// is derived from the levels that currently hold stock state.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all tenant IDs that have inventory state.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("inventory_levels").
		Distinct("tenant_id").
		Find(&ids).Error

	return ids, err
}
