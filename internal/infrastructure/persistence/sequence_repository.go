package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
)

// GormSequenceRepository implements SequenceRepository using GORM.
// The counter advance is one atomic upsert: INSERT .. ON CONFLICT DO UPDATE
// SET counter = counter + 1 .. RETURNING counter. Concurrent callers within
// the same scope serialize on the row and each receives a distinct value.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next atomically increments (creating on first use) the counter for the
// (tenant, document type, period) scope and returns the new value
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, documentType, period string) (int64, error) {
	seq := numbering.DocumentSequence{
		ID:           uuid.New(),
		TenantID:     tenantID,
		DocumentType: documentType,
		Period:       period,
		Counter:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	result := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "tenant_id"}, {Name: "document_type"}, {Name: "period"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"counter":    gorm.Expr("document_sequences.counter + 1"),
					"updated_at": time.Now(),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "counter"}}},
		).
		Create(&seq)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrSequenceConflict
	}

	return seq.Counter, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ numbering.SequenceRepository = (*GormSequenceRepository)(nil)
