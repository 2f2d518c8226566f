package valuation

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// LayerConsumption records how much was drained from one layer and at what cost
type LayerConsumption struct {
	LayerID        uuid.UUID
	UnitCost       decimal.Decimal
	Quantity       decimal.Decimal
	Cost           decimal.Decimal // Quantity * UnitCost
	FullyConsumed  bool
	RemainingAfter decimal.Decimal
}

// ConsumptionResult is the outcome of consuming valuation for an outbound move
type ConsumptionResult struct {
	Consumptions        []LayerConsumption
	TotalQuantity       decimal.Decimal
	TotalCost           decimal.Decimal
	WeightedAverageCost decimal.Decimal
}

// Engine computes cost-layer bookkeeping for one bucket. It is a pure domain
// service: callers load the bucket's layers inside their transaction, invoke
// the engine, and persist the mutated layers back.
type Engine struct {
	method CostMethod
}

// NewEngine creates a valuation engine for the given cost method
func NewEngine(method CostMethod) (*Engine, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_COST_METHOD", "Cost method must be FIFO or AVCO")
	}
	return &Engine{method: method}, nil
}

// Method returns the configured cost method
func (e *Engine) Method() CostMethod {
	return e.method
}

// AddLayer records a receipt. Under FIFO a new layer is appended; under AVCO
// the bucket's single layer is blended (or created on first receipt). The
// returned slice is the full updated layer set to persist.
func (e *Engine) AddLayer(tenantID uuid.UUID, bucket Bucket, layers []*ValuationLayer, quantity, unitCost decimal.Decimal, receivedAt time.Time, sourceDocumentID uuid.UUID) ([]*ValuationLayer, *ValuationLayer, error) {
	if e.method == CostMethodAVCO && len(layers) > 0 {
		blended := layers[0]
		blended.Blend(quantity, unitCost)
		return layers, blended, nil
	}

	layer, err := NewValuationLayer(tenantID, bucket, quantity, unitCost, receivedAt, sourceDocumentID)
	if err != nil {
		return nil, nil, err
	}
	return append(layers, layer), layer, nil
}

// Consume drains the requested quantity from the bucket's layers and returns
// the cost of goods sold. Under FIFO layers are drained oldest-first; under
// AVCO the single blended layer is decremented at its current cost. Returns
// shared.ErrInsufficientLayers when the layers cannot cover the quantity,
// which means the ledger and valuation have desynced and must be escalated.
func (e *Engine) Consume(layers []*ValuationLayer, quantity decimal.Decimal) (*ConsumptionResult, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	open := make([]*ValuationLayer, 0, len(layers))
	totalRemaining := decimal.Zero
	for _, l := range layers {
		if !l.IsExhausted() {
			open = append(open, l)
			totalRemaining = totalRemaining.Add(l.RemainingQuantity)
		}
	}
	if totalRemaining.LessThan(quantity) {
		return nil, shared.ErrInsufficientLayers
	}

	// Oldest first; creation time breaks ties between same-instant receipts
	sort.SliceStable(open, func(i, j int) bool {
		if open[i].ReceivedAt.Equal(open[j].ReceivedAt) {
			return open[i].CreatedAt.Before(open[j].CreatedAt)
		}
		return open[i].ReceivedAt.Before(open[j].ReceivedAt)
	})

	result := &ConsumptionResult{
		Consumptions:  make([]LayerConsumption, 0, len(open)),
		TotalQuantity: decimal.Zero,
		TotalCost:     decimal.Zero,
	}

	remaining := quantity
	for _, layer := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		taken := layer.Consume(remaining)
		cost := taken.Mul(layer.UnitCost)

		result.Consumptions = append(result.Consumptions, LayerConsumption{
			LayerID:        layer.ID,
			UnitCost:       layer.UnitCost,
			Quantity:       taken,
			Cost:           cost,
			FullyConsumed:  layer.IsExhausted(),
			RemainingAfter: layer.RemainingQuantity,
		})
		result.TotalQuantity = result.TotalQuantity.Add(taken)
		result.TotalCost = result.TotalCost.Add(cost)
		remaining = remaining.Sub(taken)
	}

	if result.TotalQuantity.GreaterThan(decimal.Zero) {
		result.WeightedAverageCost = result.TotalCost.Div(result.TotalQuantity).Round(4)
	}

	return result, nil
}

// TotalRemaining sums the remaining quantity across layers
func TotalRemaining(layers []*ValuationLayer) decimal.Decimal {
	total := decimal.Zero
	for _, l := range layers {
		total = total.Add(l.RemainingQuantity)
	}
	return total
}
