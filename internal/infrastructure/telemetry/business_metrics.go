// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the stock engine.
// It tracks document throughput, ledger activity, and inventory health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	documentCompletedTotal *Counter
	stockMoveTotal         *Counter
	cogsTotal              *Counter

	// Gauge metrics (point-in-time values)
	inventoryReservedQuantity *Gauge
	inventoryBelowMinCount    *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	levelProvider LevelMetricsProvider
}

// LevelMetricsProvider provides inventory level data for periodic metrics
// collection. The interface lets the telemetry layer query inventory state
// without depending on the inventory domain directly.
type LevelMetricsProvider interface {
	// GetReservedQuantityByWarehouse returns total reserved quantity per warehouse for a tenant
	GetReservedQuantityByWarehouse(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)

	// GetBelowMinimumCount returns count of buckets below their minimum threshold for a tenant
	GetBelowMinimumCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	LevelProvider   LevelMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		levelProvider: cfg.LevelProvider,
	}

	// Initialize counter metrics
	var err error

	bm.documentCompletedTotal, err = NewCounter(
		cfg.Meter,
		"wms_document_completed_total",
		"Total number of stock documents completed",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockMoveTotal, err = NewCounter(
		cfg.Meter,
		"wms_stock_move_total",
		"Total number of stock moves recorded in the ledger",
		"{moves}",
	)
	if err != nil {
		return nil, err
	}

	bm.cogsTotal, err = NewCounter(
		cfg.Meter,
		"wms_cogs_total",
		"Total cost of goods sold in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Inventory gauge metrics
	bm.inventoryReservedQuantity, err = NewGauge(
		cfg.Meter,
		"wms_inventory_reserved_quantity",
		"Current reserved inventory quantity",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.inventoryBelowMinCount, err = NewGauge(
		cfg.Meter,
		"wms_inventory_below_minimum_count",
		"Number of stock buckets below minimum threshold",
		"{buckets}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// RecordDocumentCompleted records a document reaching its terminal applied state.
// This should be called from the application layer when a document completes.
func (bm *BusinessMetrics) RecordDocumentCompleted(ctx context.Context, tenantID uuid.UUID, documentType string) {
	bm.documentCompletedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// RecordStockMoves records the number of ledger entries written by a document.
func (bm *BusinessMetrics) RecordStockMoves(ctx context.Context, tenantID uuid.UUID, documentType string, count int64) {
	bm.stockMoveTotal.Add(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrDocumentType.String(documentType),
	)
}

// RecordCOGS records the cost of goods sold for a completed delivery.
// Amount is converted to the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordCOGS(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.cogsTotal.Add(ctx, cents,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Inventory Metrics
// =============================================================================

// RecordReservedQuantity records the current reserved quantity for a warehouse.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordReservedQuantity(ctx context.Context, tenantID, warehouseID uuid.UUID, quantity int64) {
	bm.inventoryReservedQuantity.Record(ctx, quantity,
		AttrTenantID.String(tenantID.String()),
		AttrWarehouseID.String(warehouseID.String()),
	)
}

// RecordBelowMinimumCount records the number of buckets below their minimum threshold.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordBelowMinimumCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.inventoryBelowMinCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects inventory metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectInventoryMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectInventoryMetrics(ctx, tenantProvider)
		}
	}
}

// collectInventoryMetrics collects inventory gauge metrics for all tenants.
func (bm *BusinessMetrics) collectInventoryMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.levelProvider == nil {
		bm.logger.Debug("No level provider configured, skipping inventory metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantInventoryMetrics(ctx, tenantID)
	}
}

// collectTenantInventoryMetrics collects inventory metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantInventoryMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect reserved quantity by warehouse
	reservedByWarehouse, err := bm.levelProvider.GetReservedQuantityByWarehouse(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get reserved quantity for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for warehouseID, quantity := range reservedByWarehouse {
			bm.RecordReservedQuantity(ctx, tenantID, warehouseID, quantity)
		}
	}

	// Collect below-minimum bucket count
	belowMinCount, err := bm.levelProvider.GetBelowMinimumCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get below-minimum count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordBelowMinimumCount(ctx, tenantID, belowMinCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	AttrDocumentNumber = attribute.Key("document_number")
)
