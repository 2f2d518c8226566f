package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/shared"
)

// GormIdempotencyClaimRepository implements IdempotencyClaimRepository using
// GORM. Claim is a single conditional insert, never a read-then-write check,
// so exactly one of any number of concurrent claimants wins.
type GormIdempotencyClaimRepository struct {
	db *gorm.DB
}

// NewGormIdempotencyClaimRepository creates a new GormIdempotencyClaimRepository
func NewGormIdempotencyClaimRepository(db *gorm.DB) *GormIdempotencyClaimRepository {
	return &GormIdempotencyClaimRepository{db: db}
}

// Claim attempts to insert the claim with ON CONFLICT DO NOTHING on the
// (tenant, scope key) unique index. When no row is written the operation
// already ran and the existing claim is returned with Claimed=false.
func (r *GormIdempotencyClaimRepository) Claim(ctx context.Context, claim *shared.IdempotencyClaim) (*shared.ClaimResult, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "scope_key"}},
			DoNothing: true,
		}).
		Create(claim)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		return &shared.ClaimResult{Claimed: true}, nil
	}

	existing, err := r.Find(ctx, claim.TenantID, claim.ScopeKey)
	if err != nil {
		return nil, err
	}
	return &shared.ClaimResult{Claimed: false, Existing: existing}, nil
}

// Find returns the claim for a scope key
func (r *GormIdempotencyClaimRepository) Find(ctx context.Context, tenantID uuid.UUID, scopeKey string) (*shared.IdempotencyClaim, error) {
	var claim shared.IdempotencyClaim
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND scope_key = ?", tenantID, scopeKey).
		First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// Ensure GormIdempotencyClaimRepository implements IdempotencyClaimRepository
var _ shared.IdempotencyClaimRepository = (*GormIdempotencyClaimRepository)(nil)
