package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormReturnAuthorizationRepository implements ReturnAuthorizationRepository using GORM
type GormReturnAuthorizationRepository struct {
	db *gorm.DB
}

// NewGormReturnAuthorizationRepository creates a new GormReturnAuthorizationRepository
func NewGormReturnAuthorizationRepository(db *gorm.DB) *GormReturnAuthorizationRepository {
	return &GormReturnAuthorizationRepository{db: db}
}

// FindByIDForTenant finds a return authorization, with lines, by ID within a tenant
func (r *GormReturnAuthorizationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.ReturnAuthorization, error) {
	var rma document.ReturnAuthorization
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rma).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rma, nil
}

// FindByNumber finds a return authorization by its document number for a tenant
func (r *GormReturnAuthorizationRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*document.ReturnAuthorization, error) {
	var rma document.ReturnAuthorization
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND return_number = ?", tenantID, number).
		First(&rma).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rma, nil
}

// FindAllForTenant lists return authorizations for a tenant with filtering
func (r *GormReturnAuthorizationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.ReturnAuthorization, error) {
	var returns []document.ReturnAuthorization
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.ReturnAuthorization{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Lines").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// FindByStatus lists return authorizations in a given status for a tenant
func (r *GormReturnAuthorizationRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status document.ReturnAuthorizationStatus, filter shared.Filter) ([]document.ReturnAuthorization, error) {
	var returns []document.ReturnAuthorization
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.ReturnAuthorization{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Preload("Lines").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Save creates or updates a return authorization and its lines
func (r *GormReturnAuthorizationRepository) Save(ctx context.Context, rma *document.ReturnAuthorization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(rma).Error; err != nil {
			return err
		}
		return r.syncLines(tx, rma)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormReturnAuthorizationRepository) SaveWithLock(ctx context.Context, rma *document.ReturnAuthorization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.ReturnAuthorization{}).
			Where("id = ? AND version = ?", rma.ID, rma.Version-1).
			Updates(map[string]interface{}{
				"status":        rma.Status,
				"remark":        rma.Remark,
				"approved_at":   rma.ApprovedAt,
				"approved_by":   rma.ApprovedBy,
				"rejected_at":   rma.RejectedAt,
				"reject_reason": rma.RejectReason,
				"received_at":   rma.ReceivedAt,
				"cancelled_at":  rma.CancelledAt,
				"cancel_reason": rma.CancelReason,
				"version":       rma.Version,
				"updated_at":    rma.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, rma)
	})
}

// syncLines deletes removed lines and saves the current ones
func (r *GormReturnAuthorizationRepository) syncLines(tx *gorm.DB, rma *document.ReturnAuthorization) error {
	currentLineIDs := make([]uuid.UUID, len(rma.Lines))
	for i, line := range rma.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("return_id = ? AND id NOT IN ?", rma.ID, currentLineIDs).
			Delete(&document.ReturnAuthorizationLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("return_id = ?", rma.ID).
			Delete(&document.ReturnAuthorizationLine{}).Error; err != nil {
			return err
		}
	}

	for i := range rma.Lines {
		rma.Lines[i].ReturnID = rma.ID
		if err := tx.Save(&rma.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormReturnAuthorizationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "customer_ref":
			query = query.Where("customer_ref = ?", value)
		case "delivery_ref":
			query = query.Where("delivery_ref = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReturnAuthorizationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormReturnAuthorizationRepository implements ReturnAuthorizationRepository
var _ document.ReturnAuthorizationRepository = (*GormReturnAuthorizationRepository)(nil)
