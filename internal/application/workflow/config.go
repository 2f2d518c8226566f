package workflow

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/valuation"
)

// Config carries tenant-facing engine policy. Defaults apply to every tenant;
// per-tenant overrides are keyed by tenant id string.
type Config struct {
	// DefaultCostMethod is the valuation method used when a tenant has no override
	DefaultCostMethod valuation.CostMethod
	// CostMethodOverrides maps tenant id to a valuation method
	CostMethodOverrides map[string]valuation.CostMethod
	// VarianceApprovalThreshold is the absolute per-line count variance above
	// which a stock take needs sign-off before completion
	VarianceApprovalThreshold decimal.Decimal
	// VarianceThresholdOverrides maps tenant id to a threshold
	VarianceThresholdOverrides map[string]decimal.Decimal
}

// DefaultConfig returns the engine policy applied when nothing is configured
func DefaultConfig() Config {
	return Config{
		DefaultCostMethod:         valuation.CostMethodFIFO,
		VarianceApprovalThreshold: decimal.Zero,
	}
}

// CostMethodFor resolves the valuation method for a tenant
func (c Config) CostMethodFor(tenantID uuid.UUID) valuation.CostMethod {
	if m, ok := c.CostMethodOverrides[tenantID.String()]; ok && m.IsValid() {
		return m
	}
	if c.DefaultCostMethod.IsValid() {
		return c.DefaultCostMethod
	}
	return valuation.CostMethodFIFO
}

// ThresholdFor resolves the variance approval threshold for a tenant
func (c Config) ThresholdFor(tenantID uuid.UUID) decimal.Decimal {
	if t, ok := c.VarianceThresholdOverrides[tenantID.String()]; ok {
		return t
	}
	return c.VarianceApprovalThreshold
}

// EngineFor builds a valuation engine for a tenant
func (c Config) EngineFor(tenantID uuid.UUID) (*valuation.Engine, error) {
	return valuation.NewEngine(c.CostMethodFor(tenantID))
}
