package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// InventoryLevelRepository persists the per-bucket quantity aggregates.
// Mutation goes exclusively through the workflow services; no caller writes
// level rows directly.
type InventoryLevelRepository interface {
	// FindByBucket returns the level for a bucket, or shared.ErrNotFound.
	FindByBucket(ctx context.Context, tenantID uuid.UUID, bucket Bucket) (*InventoryLevel, error)
	// GetOrCreate returns the level for a bucket, creating an empty row on
	// first movement into the bucket.
	GetOrCreate(ctx context.Context, tenantID uuid.UUID, bucket Bucket) (*InventoryLevel, error)
	// Save persists the level using optimistic locking on the version column;
	// returns shared.ErrConcurrencyConflict when the row was modified since load.
	Save(ctx context.Context, level *InventoryLevel) error
	// FindAllForTenant lists levels with filtering and pagination.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryLevel, error)
	// CountForTenant counts levels matching the filter.
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// SumOnHandByProduct returns total on-hand for a product across buckets.
	SumOnHandByProduct(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error)
}
