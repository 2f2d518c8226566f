package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/valuation"
)

// poster applies the ledger, level and valuation effects of one document
// transition. It is constructed per transaction on top of the transactional
// repositories so every posting shares the surrounding commit.
type poster struct {
	repos    TransactionalRepositories
	engine   *valuation.Engine
	tenantID uuid.UUID
}

func newPoster(repos TransactionalRepositories, engine *valuation.Engine, tenantID uuid.UUID) *poster {
	return &poster{repos: repos, engine: engine, tenantID: tenantID}
}

// postInbound moves quantity from a virtual source into a tracked internal
// location: appends the move, raises the level and adds a valuation layer.
func (p *poster) postInbound(ctx context.Context, source ledger.Location, warehouseID, locationID, productID uuid.UUID, lotRef string, quantity, unitCost decimal.Decimal, doc ledger.DocumentRef, reason string) (*ledger.StockMove, error) {
	dest := ledger.NewInternalLocation(warehouseID, locationID)

	move, err := ledger.NewStockMove(ledger.StockMoveInput{
		TenantID:    p.tenantID,
		ProductID:   productID,
		Source:      source,
		Destination: dest,
		Quantity:    quantity,
		UnitCost:    unitCost,
		LotRef:      lotRef,
		Document:    doc,
		Reason:      reason,
	})
	if err != nil {
		return nil, err
	}
	if err := p.repos.MoveRepo().Record(ctx, move); err != nil {
		return nil, err
	}

	bucket := inventory.Bucket{ProductID: productID, WarehouseID: warehouseID, LocationID: locationID, LotRef: lotRef}
	level, err := p.repos.LevelRepo().GetOrCreate(ctx, p.tenantID, bucket)
	if err != nil {
		return nil, err
	}
	if err := level.ApplyInbound(quantity); err != nil {
		return nil, err
	}
	if err := p.repos.LevelRepo().Save(ctx, level); err != nil {
		return nil, err
	}

	vBucket := valuation.Bucket{ProductID: productID, WarehouseID: warehouseID, LotRef: lotRef}
	layers, err := p.repos.LayerRepo().FindOpenByBucket(ctx, p.tenantID, vBucket)
	if err != nil {
		return nil, err
	}
	updated, _, err := p.engine.AddLayer(p.tenantID, vBucket, layers, quantity, unitCost, time.Now(), doc.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := p.repos.LayerRepo().Save(ctx, updated...); err != nil {
		return nil, err
	}

	// Flush any level events (e.g. low stock cleared) raised during apply
	if events := level.GetDomainEvents(); len(events) > 0 {
		if err := p.repos.PublishEvents(ctx, events...); err != nil {
			return nil, err
		}
		level.ClearDomainEvents()
	}

	return move, nil
}

// postOutbound moves quantity from a tracked internal location to a virtual
// destination, draining valuation layers. The move is recorded at the
// weighted average cost of the drained layers and the consumption result is
// returned for COGS reporting.
func (p *poster) postOutbound(ctx context.Context, warehouseID, locationID, productID uuid.UUID, lotRef string, quantity decimal.Decimal, dest ledger.Location, consumeReservation bool, doc ledger.DocumentRef, reason string) (*ledger.StockMove, *valuation.ConsumptionResult, error) {
	bucket := inventory.Bucket{ProductID: productID, WarehouseID: warehouseID, LocationID: locationID, LotRef: lotRef}
	level, err := p.repos.LevelRepo().FindByBucket(ctx, p.tenantID, bucket)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrInsufficientStock
		}
		return nil, nil, err
	}
	if err := level.ApplyOutbound(quantity, consumeReservation); err != nil {
		return nil, nil, err
	}
	if err := p.repos.LevelRepo().Save(ctx, level); err != nil {
		return nil, nil, err
	}

	vBucket := valuation.Bucket{ProductID: productID, WarehouseID: warehouseID, LotRef: lotRef}
	layers, err := p.repos.LayerRepo().FindOpenByBucket(ctx, p.tenantID, vBucket)
	if err != nil {
		return nil, nil, err
	}
	consumption, err := p.engine.Consume(layers, quantity)
	if err != nil {
		return nil, nil, err
	}
	if err := p.repos.LayerRepo().Save(ctx, layers...); err != nil {
		return nil, nil, err
	}

	source := ledger.NewInternalLocation(warehouseID, locationID)
	move, err := ledger.NewStockMove(ledger.StockMoveInput{
		TenantID:    p.tenantID,
		ProductID:   productID,
		Source:      source,
		Destination: dest,
		Quantity:    quantity,
		UnitCost:    consumption.WeightedAverageCost,
		LotRef:      lotRef,
		Document:    doc,
		Reason:      reason,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := p.repos.MoveRepo().Record(ctx, move); err != nil {
		return nil, nil, err
	}

	if events := level.GetDomainEvents(); len(events) > 0 {
		if err := p.repos.PublishEvents(ctx, events...); err != nil {
			return nil, nil, err
		}
		level.ClearDomainEvents()
	}

	return move, consumption, nil
}

// currentUnitCost returns the weighted average cost of a bucket's open
// layers, or zero when the bucket has no valuation.
func (p *poster) currentUnitCost(ctx context.Context, warehouseID, productID uuid.UUID, lotRef string) (decimal.Decimal, error) {
	vBucket := valuation.Bucket{ProductID: productID, WarehouseID: warehouseID, LotRef: lotRef}
	layers, err := p.repos.LayerRepo().FindOpenByBucket(ctx, p.tenantID, vBucket)
	if err != nil {
		return decimal.Zero, err
	}

	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, l := range layers {
		totalQty = totalQty.Add(l.RemainingQuantity)
		totalValue = totalValue.Add(l.RemainingValue())
	}
	if totalQty.IsZero() {
		return decimal.Zero, nil
	}
	return totalValue.Div(totalQty).Round(4), nil
}

func claimScopeKey(operation string, parts ...string) string {
	key := operation
	for _, p := range parts {
		key = fmt.Sprintf("%s:%s", key, p)
	}
	return key
}
