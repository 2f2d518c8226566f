package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

// GormReconciliationRepository implements ReconciliationRepository using GORM
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// FindByIDForTenant finds a reconciliation, with lines, by ID within a tenant
func (r *GormReconciliationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Reconciliation, error) {
	var rec document.Reconciliation
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByNumber finds a reconciliation by its document number for a tenant
func (r *GormReconciliationRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*document.Reconciliation, error) {
	var rec document.Reconciliation
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND recon_number = ?", tenantID, number).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindAllForTenant lists reconciliations for a tenant with filtering
func (r *GormReconciliationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.Reconciliation, error) {
	var recs []document.Reconciliation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&document.Reconciliation{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Preload("Lines").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Save creates or updates a reconciliation and its lines
func (r *GormReconciliationRepository) Save(ctx context.Context, rec *document.Reconciliation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(rec).Error; err != nil {
			return err
		}
		return r.syncLines(tx, rec)
	})
}

// SaveWithLock saves with optimistic locking on the version column
func (r *GormReconciliationRepository) SaveWithLock(ctx context.Context, rec *document.Reconciliation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&document.Reconciliation{}).
			Where("id = ? AND version = ?", rec.ID, rec.Version-1).
			Updates(map[string]interface{}{
				"status":        rec.Status,
				"remark":        rec.Remark,
				"started_at":    rec.StartedAt,
				"reviewed_at":   rec.ReviewedAt,
				"reviewed_by":   rec.ReviewedBy,
				"closed_at":     rec.ClosedAt,
				"cancelled_at":  rec.CancelledAt,
				"cancel_reason": rec.CancelReason,
				"version":       rec.Version,
				"updated_at":    rec.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.syncLines(tx, rec)
	})
}

// syncLines deletes removed lines and saves the current ones
func (r *GormReconciliationRepository) syncLines(tx *gorm.DB, rec *document.Reconciliation) error {
	currentLineIDs := make([]uuid.UUID, len(rec.Lines))
	for i, line := range rec.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("reconciliation_id = ? AND id NOT IN ?", rec.ID, currentLineIDs).
			Delete(&document.ReconciliationLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("reconciliation_id = ?", rec.ID).
			Delete(&document.ReconciliationLine{}).Error; err != nil {
			return err
		}
	}

	for i := range rec.Lines {
		rec.Lines[i].ReconciliationID = rec.ID
		if err := tx.Save(&rec.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormReconciliationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

	orderBy := ValidateSortField(filter.OrderBy, ReconciliationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormReconciliationRepository implements ReconciliationRepository
var _ document.ReconciliationRepository = (*GormReconciliationRepository)(nil)
