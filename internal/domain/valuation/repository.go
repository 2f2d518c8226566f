package valuation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuationLayerRepository persists cost layers. Layers are loaded per bucket
// inside the workflow transaction, mutated through the Engine, and saved back.
type ValuationLayerRepository interface {
	// FindOpenByBucket returns the bucket's non-exhausted layers ordered by
	// received time ascending. The rows are locked for update so concurrent
	// consumers of the same bucket serialize.
	FindOpenByBucket(ctx context.Context, tenantID uuid.UUID, bucket Bucket) ([]*ValuationLayer, error)
	// Save persists new or mutated layers.
	Save(ctx context.Context, layers ...*ValuationLayer) error
	// SumRemainingByBucket returns total remaining quantity for a bucket.
	SumRemainingByBucket(ctx context.Context, tenantID uuid.UUID, bucket Bucket) (decimal.Decimal, error)
}
