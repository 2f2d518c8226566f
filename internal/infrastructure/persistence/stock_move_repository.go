package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
)

// GormStockMoveRepository implements StockMoveRepository using GORM.
// The ledger is append-only: the repository exposes no update or delete.
type GormStockMoveRepository struct {
	db *gorm.DB
}

// NewGormStockMoveRepository creates a new GormStockMoveRepository
func NewGormStockMoveRepository(db *gorm.DB) *GormStockMoveRepository {
	return &GormStockMoveRepository{db: db}
}

// Record appends one or more moves atomically
func (r *GormStockMoveRepository) Record(ctx context.Context, moves ...*ledger.StockMove) error {
	if len(moves) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(moves).Error
}

// FindByID finds a move by its ID within a tenant
func (r *GormStockMoveRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.StockMove, error) {
	var move ledger.StockMove
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&move).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &move, nil
}

// FindByDocument returns all moves produced by a document, oldest first
func (r *GormStockMoveRepository) FindByDocument(ctx context.Context, tenantID uuid.UUID, documentType string, documentID uuid.UUID) ([]*ledger.StockMove, error) {
	var moves []*ledger.StockMove
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND doc_document_type = ? AND doc_document_id = ?", tenantID, documentType, documentID).
		Order("created_at ASC").
		Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

// FindByBucket returns the movement history touching a bucket, newest first.
// A move touches the bucket when the bucket's location is either endpoint.
func (r *GormStockMoveRepository) FindByBucket(ctx context.Context, tenantID uuid.UUID, filter ledger.BucketFilter, page shared.Filter) ([]*ledger.StockMove, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ledger.StockMove{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, filter.ProductID)

	if filter.WarehouseID != uuid.Nil {
		query = query.Where("(source_warehouse_id = ? OR dest_warehouse_id = ?)", filter.WarehouseID, filter.WarehouseID)
	}
	if filter.LocationID != uuid.Nil {
		query = query.Where("(source_location_id = ? OR dest_location_id = ?)", filter.LocationID, filter.LocationID)
	}
	if filter.LotRef != "" {
		query = query.Where("lot_ref = ?", filter.LotRef)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at < ?", *filter.Until)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(page.OrderBy, StockMoveSortFields, "created_at")
	orderDir := ValidateSortOrder(page.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if page.Page > 0 && page.PageSize > 0 {
		offset := (page.Page - 1) * page.PageSize
		query = query.Offset(offset).Limit(page.PageSize)
	}

	var moves []*ledger.StockMove
	if err := query.Find(&moves).Error; err != nil {
		return nil, 0, err
	}
	return moves, total, nil
}

// Ensure GormStockMoveRepository implements StockMoveRepository
var _ ledger.StockMoveRepository = (*GormStockMoveRepository)(nil)
