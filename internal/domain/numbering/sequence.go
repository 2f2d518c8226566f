package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// DocumentSequence is the per-(tenant, document type, period) monotonic
// counter behind human-readable document numbers. The counter is advanced
// only through the repository's atomic increment-or-create primitive, never
// read-modify-write at the caller level, so concurrent document creation
// within a tenant cannot collide.
type DocumentSequence struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_doc_seq_scope,priority:1"`
	DocumentType string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_doc_seq_scope,priority:2"`
	Period       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_doc_seq_scope,priority:3"`
	Counter      int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// SequenceRepository allocates sequence values atomically.
type SequenceRepository interface {
	// Next atomically increments (creating on first use) the counter for the
	// scope and returns the new value. Safe under concurrent callers.
	Next(ctx context.Context, tenantID uuid.UUID, documentType, period string) (int64, error)
}

// Generator renders document numbers from allocated sequence values.
type Generator struct {
	sequences SequenceRepository
}

// NewGenerator creates a document number generator
func NewGenerator(sequences SequenceRepository) *Generator {
	return &Generator{sequences: sequences}
}

// PeriodFor returns the sequence period for a point in time (calendar year)
func PeriodFor(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}

// NextNumber allocates the next number for a document type and renders it as
// {PREFIX}-{period}-{zero-padded counter}, e.g. GRN-2025-00001.
func (g *Generator) NextNumber(ctx context.Context, tenantID uuid.UUID, documentType, prefix string) (string, error) {
	if tenantID == uuid.Nil {
		return "", shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if prefix == "" {
		return "", shared.NewDomainError("INVALID_PREFIX", "Document number prefix cannot be empty")
	}

	period := PeriodFor(time.Now())
	seq, err := g.sequences.Next(ctx, tenantID, documentType, period)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", prefix, period, seq), nil
}
