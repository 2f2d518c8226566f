package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// StockMoveRepository is the append-only persistence contract for the ledger.
// There is deliberately no update or delete operation.
type StockMoveRepository interface {
	// Record appends one or more moves. The write is atomic: either all moves
	// are durable or none are.
	Record(ctx context.Context, moves ...*StockMove) error
	// FindByID returns a move by id, scoped to a tenant.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockMove, error)
	// FindByDocument returns all moves produced by a document.
	FindByDocument(ctx context.Context, tenantID uuid.UUID, documentType string, documentID uuid.UUID) ([]*StockMove, error)
	// FindByBucket returns the movement history touching a bucket, newest first.
	FindByBucket(ctx context.Context, tenantID uuid.UUID, filter BucketFilter, page shared.Filter) ([]*StockMove, int64, error)
}

// BucketFilter narrows a ledger history query to one inventory bucket.
type BucketFilter struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	LocationID  uuid.UUID
	LotRef      string
	Since       *time.Time
	Until       *time.Time
}
