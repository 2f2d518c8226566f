package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormDeliveryOrderRepository implements DeliveryOrderRepository using GORM
type GormDeliveryOrderRepository struct {
	db *gorm.DB
}

// NewGormDeliveryOrderRepository creates a new GormDeliveryOrderRepository
func NewGormDeliveryOrderRepository(db *gorm.DB) *GormDeliveryOrderRepository {
	return &GormDeliveryOrderRepository{db: db}
}

// FindByIDForTenant finds a delivery order, with lines, by ID within a tenant
func (r *GormDeliveryOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.DeliveryOrder, error) {
	var do document.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &do, nil
}

// FindByNumber finds a delivery order by its document number for a tenant
func (r *GormDeliveryOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*document.DeliveryOrder, error) {
	var do document.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND delivery_number = ?", tenantID, number).
		First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &do, nil
}

// FindByOrderRef finds the delivery order created for an upstream order
func (r *GormDeliveryOrderRepository) FindByOrderRef(ctx context.Context, tenantID uuid.UUID, orderRef string) (*document.DeliveryOrder, error) {
	var do document.DeliveryOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND order_ref = ?", tenantID, orderRef).
		First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &do, nil
}

// FindAllForTenant lists delivery orders for a tenant with filtering
func (r *GormDeliveryOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.DeliveryOrder, error) {
	var orders []document.DeliveryOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.DeliveryOrder{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Lines").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus lists delivery orders in a given status for a tenant
func (r *GormDeliveryOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status document.DeliveryOrderStatus, filter shared.Filter) ([]document.DeliveryOrder, error) {
	var orders []document.DeliveryOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.DeliveryOrder{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Preload("Lines").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a delivery order and its lines
func (r *GormDeliveryOrderRepository) Save(ctx context.Context, do *document.DeliveryOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(do).Error; err != nil {
			return err
		}
		return r.syncLines(tx, do)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormDeliveryOrderRepository) SaveWithLock(ctx context.Context, do *document.DeliveryOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.DeliveryOrder{}).
			Where("id = ? AND version = ?", do.ID, do.Version-1).
			Updates(map[string]interface{}{
				"customer_ref":  do.CustomerRef,
				"status":        do.Status,
				"remark":        do.Remark,
				"reserved_at":   do.ReservedAt,
				"picked_at":     do.PickedAt,
				"packed_at":     do.PackedAt,
				"shipped_at":    do.ShippedAt,
				"cancelled_at":  do.CancelledAt,
				"cancel_reason": do.CancelReason,
				"version":       do.Version,
				"updated_at":    do.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, do)
	})
}

// CountForTenant counts delivery orders for a tenant
func (r *GormDeliveryOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&document.DeliveryOrder{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// syncLines deletes removed lines and saves the current ones
func (r *GormDeliveryOrderRepository) syncLines(tx *gorm.DB, do *document.DeliveryOrder) error {
	currentLineIDs := make([]uuid.UUID, len(do.Lines))
	for i, line := range do.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("delivery_order_id = ? AND id NOT IN ?", do.ID, currentLineIDs).
			Delete(&document.DeliveryOrderLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("delivery_order_id = ?", do.ID).
			Delete(&document.DeliveryOrderLine{}).Error; err != nil {
			return err
		}
	}

	for i := range do.Lines {
		do.Lines[i].DeliveryOrderID = do.ID
		if err := tx.Save(&do.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormDeliveryOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "customer_ref":
			query = query.Where("customer_ref = ?", value)
		case "order_ref":
			query = query.Where("order_ref = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DeliveryOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormDeliveryOrderRepository implements DeliveryOrderRepository
var _ document.DeliveryOrderRepository = (*GormDeliveryOrderRepository)(nil)
