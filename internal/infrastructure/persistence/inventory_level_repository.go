package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormInventoryLevelRepository implements InventoryLevelRepository using GORM
type GormInventoryLevelRepository struct {
	db *gorm.DB
}

// NewGormInventoryLevelRepository creates a new GormInventoryLevelRepository
func NewGormInventoryLevelRepository(db *gorm.DB) *GormInventoryLevelRepository {
	return &GormInventoryLevelRepository{db: db}
}

// FindByBucket finds the level for a bucket
func (r *GormInventoryLevelRepository) FindByBucket(ctx context.Context, tenantID uuid.UUID, bucket inventory.Bucket) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	if err := r.bucketQuery(ctx, tenantID, bucket).First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetOrCreate gets the existing level for a bucket or creates an empty one.
// The insert uses ON CONFLICT DO NOTHING so concurrent first movements into
// the same bucket do not fail; the loser re-reads the winner's row.
func (r *GormInventoryLevelRepository) GetOrCreate(ctx context.Context, tenantID uuid.UUID, bucket inventory.Bucket) (*inventory.InventoryLevel, error) {
	level, err := r.FindByBucket(ctx, tenantID, bucket)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level, err = inventory.NewInventoryLevel(tenantID, bucket)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "product_id"}, {Name: "warehouse_id"},
				{Name: "location_id"}, {Name: "lot_ref"},
			},
			DoNothing: true,
		}).
		Create(level)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return r.FindByBucket(ctx, tenantID, bucket)
	}
	return level, nil
}

// Save persists the level using optimistic locking on the version column
func (r *GormInventoryLevelRepository) Save(ctx context.Context, level *inventory.InventoryLevel) error {
	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"on_hand":      level.OnHand,
			"reserved":     level.Reserved,
			"min_quantity": level.MinQuantity,
			"version":      level.Version,
			"updated_at":   level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindAllForTenant lists levels for a tenant with filtering and pagination
func (r *GormInventoryLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	var levels []inventory.InventoryLevel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// CountForTenant counts levels matching the filter
func (r *GormInventoryLevelRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOnHandByProduct returns total on-hand for a product across buckets
func (r *GormInventoryLevelRepository) SumOnHandByProduct(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Select("COALESCE(SUM(on_hand), 0) as total").
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormInventoryLevelRepository) bucketQuery(ctx context.Context, tenantID uuid.UUID, bucket inventory.Bucket) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ? AND location_id = ? AND lot_ref = ?",
			tenantID, bucket.ProductID, bucket.WarehouseID, bucket.LocationID, bucket.LotRef)
}

// applyFilter applies filter options to the query
func (r *GormInventoryLevelRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryLevelSortFields, "updated_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryLevelRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "lot_ref":
			query = query.Where("lot_ref = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_quantity > 0 AND on_hand < min_quantity")
			}
		case "has_stock":
			if value == true {
				query = query.Where("on_hand > 0")
			}
		case "has_reservation":
			if value == true {
				query = query.Where("reserved > 0")
			}
		}
	}

	return query
}

// Ensure GormInventoryLevelRepository implements InventoryLevelRepository
var _ inventory.InventoryLevelRepository = (*GormInventoryLevelRepository)(nil)
