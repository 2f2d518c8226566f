package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdempotencyClaim is the atomic gate that makes a workflow transition safe to
// retry. A claim row is inserted with insert-if-absent semantics inside the
// same transaction as the mutation it protects; the unique (tenant, scope key)
// pair guarantees at most one transition ever commits for a given key.
type IdempotencyClaim struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idem_tenant_scope,priority:1"`
	ScopeKey  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_idem_tenant_scope,priority:2"`
	// DocumentRef records the document the claimed operation acted on so that
	// replays can return the original outcome.
	DocumentRef string    `gorm:"type:varchar(100)"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (IdempotencyClaim) TableName() string {
	return "idempotency_claims"
}

// NewIdempotencyClaim creates a claim for the given tenant and scope key.
// The scope key combines the operation name with the caller-supplied
// idempotency key (or a natural key such as an external order reference).
func NewIdempotencyClaim(tenantID uuid.UUID, scopeKey, documentRef string) *IdempotencyClaim {
	return &IdempotencyClaim{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ScopeKey:    scopeKey,
		DocumentRef: documentRef,
		CreatedAt:   time.Now(),
	}
}

// ClaimResult is the outcome of an idempotency claim attempt.
type ClaimResult struct {
	// Claimed is true when this call won the claim and must perform the
	// mutation. When false the operation already ran; Existing carries the
	// previously recorded claim.
	Claimed  bool
	Existing *IdempotencyClaim
}

// IdempotencyClaimRepository persists idempotency claims. Claim must be a
// single atomic conditional insert, never a read-then-write check.
type IdempotencyClaimRepository interface {
	// Claim attempts to insert the claim. If a claim with the same
	// (tenant, scope key) already exists, no row is written and the existing
	// claim is returned with Claimed=false.
	Claim(ctx context.Context, claim *IdempotencyClaim) (*ClaimResult, error)
	// Find returns the claim for a scope key, or ErrNotFound.
	Find(ctx context.Context, tenantID uuid.UUID, scopeKey string) (*IdempotencyClaim, error)
}

// IdempotencyStore stores processed event IDs to prevent duplicate processing
// on the consumer side of the message transport. Unlike IdempotencyClaim it is
// a best-effort TTL dedup layer in front of the transactional claim.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL
	// Returns true if the event was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for consumer-side idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed event IDs
	// After this duration, the same event ID can be processed again
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
