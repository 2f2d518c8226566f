package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/valuation"
)

// GormValuationLayerRepository implements ValuationLayerRepository using GORM
type GormValuationLayerRepository struct {
	db *gorm.DB
}

// NewGormValuationLayerRepository creates a new GormValuationLayerRepository
func NewGormValuationLayerRepository(db *gorm.DB) *GormValuationLayerRepository {
	return &GormValuationLayerRepository{db: db}
}

// FindOpenByBucket returns the bucket's non-exhausted layers ordered by
// received time ascending. Rows are locked FOR UPDATE so concurrent consumers
// of the same bucket serialize instead of double-spending a layer.
func (r *GormValuationLayerRepository) FindOpenByBucket(ctx context.Context, tenantID uuid.UUID, bucket valuation.Bucket) ([]*valuation.ValuationLayer, error) {
	var layers []*valuation.ValuationLayer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ? AND lot_ref = ? AND remaining_quantity > 0",
			tenantID, bucket.ProductID, bucket.WarehouseID, bucket.LotRef).
		Order("received_at ASC, created_at ASC").
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// Save persists new or mutated layers
func (r *GormValuationLayerRepository) Save(ctx context.Context, layers ...*valuation.ValuationLayer) error {
	if len(layers) == 0 {
		return nil
	}

	for _, layer := range layers {
		if err := r.db.WithContext(ctx).Save(layer).Error; err != nil {
			return err
		}
	}
	return nil
}

// SumRemainingByBucket returns total remaining quantity for a bucket
func (r *GormValuationLayerRepository) SumRemainingByBucket(ctx context.Context, tenantID uuid.UUID, bucket valuation.Bucket) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&valuation.ValuationLayer{}).
		Select("COALESCE(SUM(remaining_quantity), 0) as total").
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ? AND lot_ref = ?",
			tenantID, bucket.ProductID, bucket.WarehouseID, bucket.LotRef).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormValuationLayerRepository implements ValuationLayerRepository
var _ valuation.ValuationLayerRepository = (*GormValuationLayerRepository)(nil)
