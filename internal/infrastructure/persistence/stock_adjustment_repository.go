package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormStockAdjustmentRepository implements StockAdjustmentRepository using
// GORM. The adjustment log is append-only.
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// Record appends an adjustment
func (r *GormStockAdjustmentRepository) Record(ctx context.Context, adj *document.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

// FindBySource lists adjustments produced by one stock take or reconciliation
func (r *GormStockAdjustmentRepository) FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]document.StockAdjustment, error) {
	var adjustments []document.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_id = ?", tenantID, sourceID).
		Order("created_at ASC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByProduct lists adjustments affecting a product for a tenant
func (r *GormStockAdjustmentRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]document.StockAdjustment, error) {
	var adjustments []document.StockAdjustment
	query := r.db.WithContext(ctx).
		Model(&document.StockAdjustment{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockAdjustmentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Ensure GormStockAdjustmentRepository implements StockAdjustmentRepository
var _ document.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
