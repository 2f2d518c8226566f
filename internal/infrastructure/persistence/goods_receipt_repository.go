package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByIDForTenant finds a goods receipt, with lines, by ID within a tenant
func (r *GormGoodsReceiptRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.GoodsReceipt, error) {
	var grn document.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&grn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &grn, nil
}

// FindByNumber finds a goods receipt by its document number for a tenant
func (r *GormGoodsReceiptRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*document.GoodsReceipt, error) {
	var grn document.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND receipt_number = ?", tenantID, number).
		First(&grn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &grn, nil
}

// FindAllForTenant lists goods receipts for a tenant with filtering
func (r *GormGoodsReceiptRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.GoodsReceipt, error) {
	var receipts []document.GoodsReceipt
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.GoodsReceipt{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByStatus lists goods receipts in a given status for a tenant
func (r *GormGoodsReceiptRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status document.GoodsReceiptStatus, filter shared.Filter) ([]document.GoodsReceipt, error) {
	var receipts []document.GoodsReceipt
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.GoodsReceipt{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Preload("Lines").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a goods receipt and its lines
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, grn *document.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(grn).Error; err != nil {
			return err
		}
		return r.syncLines(tx, grn)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormGoodsReceiptRepository) SaveWithLock(ctx context.Context, grn *document.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.GoodsReceipt{}).
			Where("id = ? AND version = ?", grn.ID, grn.Version-1).
			Updates(map[string]interface{}{
				"supplier_ref":  grn.SupplierRef,
				"status":        grn.Status,
				"remark":        grn.Remark,
				"confirmed_at":  grn.ConfirmedAt,
				"completed_at":  grn.CompletedAt,
				"cancelled_at":  grn.CancelledAt,
				"cancel_reason": grn.CancelReason,
				"version":       grn.Version,
				"updated_at":    grn.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, grn)
	})
}

// syncLines deletes removed lines and saves the current ones
func (r *GormGoodsReceiptRepository) syncLines(tx *gorm.DB, grn *document.GoodsReceipt) error {
	currentLineIDs := make([]uuid.UUID, len(grn.Lines))
	for i, line := range grn.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("receipt_id = ? AND id NOT IN ?", grn.ID, currentLineIDs).
			Delete(&document.GoodsReceiptLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("receipt_id = ?", grn.ID).
			Delete(&document.GoodsReceiptLine{}).Error; err != nil {
			return err
		}
	}

	for i := range grn.Lines {
		grn.Lines[i].ReceiptID = grn.ID
		if err := tx.Save(&grn.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountForTenant counts goods receipts for a tenant
func (r *GormGoodsReceiptRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&document.GoodsReceipt{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormGoodsReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "supplier_ref":
			query = query.Where("supplier_ref = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, GoodsReceiptSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormGoodsReceiptRepository implements GoodsReceiptRepository
var _ document.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
