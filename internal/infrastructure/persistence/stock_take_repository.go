package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormStockTakeRepository implements StockTakeRepository using GORM
type GormStockTakeRepository struct {
	db *gorm.DB
}

// NewGormStockTakeRepository creates a new GormStockTakeRepository
func NewGormStockTakeRepository(db *gorm.DB) *GormStockTakeRepository {
	return &GormStockTakeRepository{db: db}
}

// FindByIDForTenant finds a stock take, with lines, by ID within a tenant
func (r *GormStockTakeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.StockTake, error) {
	var st document.StockTake
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

// FindByNumber finds a stock take by its document number for a tenant
func (r *GormStockTakeRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*document.StockTake, error) {
	var st document.StockTake
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND take_number = ?", tenantID, number).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// FindAllForTenant lists stock takes for a tenant with filtering
func (r *GormStockTakeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.StockTake, error) {
	var takes []document.StockTake
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.StockTake{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Lines").Find(&takes).Error; err != nil {
		return nil, err
	}
	return takes, nil
}

// Save creates or updates a stock take and its lines
func (r *GormStockTakeRepository) Save(ctx context.Context, st *document.StockTake) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(st).Error; err != nil {
			return err
		}
		return r.syncLines(tx, st)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormStockTakeRepository) SaveWithLock(ctx context.Context, st *document.StockTake) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.StockTake{}).
			Where("id = ? AND version = ?", st.ID, st.Version-1).
			Updates(map[string]interface{}{
				"status":        st.Status,
				"remark":        st.Remark,
				"started_at":    st.StartedAt,
				"completed_at":  st.CompletedAt,
				"cancelled_at":  st.CancelledAt,
				"cancel_reason": st.CancelReason,
				"approved_by":   st.ApprovedBy,
				"approved_at":   st.ApprovedAt,
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
func (r *GormStockTakeRepository) syncLines(tx *gorm.DB, st *document.StockTake) error {
	currentLineIDs := make([]uuid.UUID, len(st.Lines))
	for i, line := range st.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("stock_take_id = ? AND id NOT IN ?", st.ID, currentLineIDs).
			Delete(&document.StockTakeLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("stock_take_id = ?", st.ID).
			Delete(&document.StockTakeLine{}).Error; err != nil {
			return err
		}
	}

	for i := range st.Lines {
		st.Lines[i].StockTakeID = st.ID
		if err := tx.Save(&st.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormStockTakeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockTakeSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormStockTakeRepository implements StockTakeRepository
var _ document.StockTakeRepository = (*GormStockTakeRepository)(nil)
