package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db *gorm.DB
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// FindByIDForTenant finds a stock transfer, with lines, by ID within a tenant
func (r *GormStockTransferRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.StockTransfer, error) {
	var st document.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindByNumber finds a stock transfer by its document number for a tenant
func (r *GormStockTransferRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*document.StockTransfer, error) {
	var st document.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND transfer_number = ?", tenantID, number).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindAllForTenant lists stock transfers for a tenant with filtering
func (r *GormStockTransferRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.StockTransfer, error) {
	var transfers []document.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.StockTransfer{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Lines").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindInTransit lists transfers currently in transit for a tenant
func (r *GormStockTransferRepository) FindInTransit(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.StockTransfer, error) {
	var transfers []document.StockTransfer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.StockTransfer{}).
			Where("tenant_id = ? AND status = ?", tenantID, document.StockTransferStatusInTransit),
		filter,
	)

	if err := query.Preload("Lines").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a stock transfer and its lines
func (r *GormStockTransferRepository) Save(ctx context.Context, st *document.StockTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(st).Error; err != nil {
			return err
		}
		return r.syncLines(tx, st)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormStockTransferRepository) SaveWithLock(ctx context.Context, st *document.StockTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.StockTransfer{}).
			Where("id = ? AND version = ?", st.ID, st.Version-1).
			Updates(map[string]interface{}{
				"status":        st.Status,
				"remark":        st.Remark,
				"dispatched_at": st.DispatchedAt,
				"received_at":   st.ReceivedAt,
				"cancelled_at":  st.CancelledAt,
				"cancel_reason": st.CancelReason,
				"version":       st.Version,
				"updated_at":    st.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, st)
	})
}

// syncLines deletes removed lines and saves the current ones
func (r *GormStockTransferRepository) syncLines(tx *gorm.DB, st *document.StockTransfer) error {
	currentLineIDs := make([]uuid.UUID, len(st.Lines))
	for i, line := range st.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("transfer_id = ? AND id NOT IN ?", st.ID, currentLineIDs).
			Delete(&document.StockTransferLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("transfer_id = ?", st.ID).
			Delete(&document.StockTransferLine{}).Error; err != nil {
			return err
		}
	}

	for i := range st.Lines {
		st.Lines[i].TransferID = st.ID
		if err := tx.Save(&st.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormStockTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source_warehouse_id":
			query = query.Where("source_wh_id = ?", value)
		case "dest_warehouse_id":
			query = query.Where("dest_wh_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockTransferSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormStockTransferRepository implements StockTransferRepository
var _ document.StockTransferRepository = (*GormStockTransferRepository)(nil)
