package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
)

// DeliveryOrderService drives the outbound fulfilment workflow
type DeliveryOrderService struct {
	scope  TransactionScope
	cfg    Config
	logger *zap.Logger
}

// NewDeliveryOrderService creates a new delivery order service
func NewDeliveryOrderService(scope TransactionScope, cfg Config, logger *zap.Logger) *DeliveryOrderService {
	return &DeliveryOrderService{scope: scope, cfg: cfg, logger: logger}
}

// Create creates a delivery order. When the request carries an order
// reference the creation claims it, so replays of the same upstream order
// (from the consumer or the API) return the already created document.
func (s *DeliveryOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDeliveryOrderRequest) (*DeliveryOrderDTO, error) {
	var dto *DeliveryOrderDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		gen := numbering.NewGenerator(repos.SequenceRepo())
		number, err := gen.NextNumber(ctx, tenantID, document.DocumentTypeDeliveryOrder.String(), document.DocumentTypeDeliveryOrder.NumberPrefix())
		if err != nil {
			return err
		}

		claimKey := ""
		switch {
		case req.OrderRef != "":
			claimKey = claimScopeKey("delivery.create", req.OrderRef)
		case req.IdempotencyKey != "":
			claimKey = claimScopeKey("delivery.create", req.IdempotencyKey)
		}
		if claimKey != "" {
			res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimKey, number))
			if err != nil {
				return err
			}
			if !res.Claimed {
				existing, err := repos.DeliveryOrderRepo().FindByNumber(ctx, tenantID, res.Existing.DocumentRef)
				if err != nil {
					return err
				}
				dto = toDeliveryOrderDTO(existing, true)
				return nil
			}
		}

		do, err := document.NewDeliveryOrder(tenantID, number, req.OrderRef, req.CustomerRef, req.WarehouseID, req.LocationID)
		if err != nil {
			return err
		}
		do.Remark = req.Remark
		for _, line := range req.Lines {
			if _, err := do.AddLine(line.ProductID, line.Quantity, line.LotRef); err != nil {
				return err
			}
		}

		if err := repos.DeliveryOrderRepo().Save(ctx, do); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, do.GetDomainEvents()...); err != nil {
			return err
		}
		do.ClearDomainEvents()

		dto = toDeliveryOrderDTO(do, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("delivery_number", dto.DeliveryNumber),
		zap.String("order_ref", dto.OrderRef))

	return dto, nil
}

// Reserve moves each line quantity from available to reserved and advances
// the order. A replayed reservation returns the order unchanged.
func (s *DeliveryOrderService) Reserve(ctx context.Context, tenantID, id uuid.UUID) (*DeliveryOrderDTO, error) {
	var dto *DeliveryOrderDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		do, err := repos.DeliveryOrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("delivery.reserve", id.String()), do.DeliveryNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toDeliveryOrderDTO(do, true)
			return nil
		}

		for _, line := range do.Lines {
			bucket := inventory.Bucket{ProductID: line.ProductID, WarehouseID: do.WarehouseID, LocationID: do.LocationID, LotRef: line.LotRef}
			level, err := repos.LevelRepo().FindByBucket(ctx, tenantID, bucket)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.ErrInsufficientAvail
				}
				return err
			}
			if err := level.Reserve(line.Quantity); err != nil {
				return err
			}
			if err := repos.LevelRepo().Save(ctx, level); err != nil {
				return err
			}
		}

		if err := do.Reserve(); err != nil {
			return err
		}
		if err := repos.DeliveryOrderRepo().SaveWithLock(ctx, do); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, do.GetDomainEvents()...); err != nil {
			return err
		}
		do.ClearDomainEvents()

		dto = toDeliveryOrderDTO(do, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Pick records picked quantities and advances the order
func (s *DeliveryOrderService) Pick(ctx context.Context, tenantID, id uuid.UUID, req PickRequest) (*DeliveryOrderDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(do *document.DeliveryOrder) error {
		return do.Pick(req.Picks)
	})
}

// Pack advances the order from picked to packed
func (s *DeliveryOrderService) Pack(ctx context.Context, tenantID, id uuid.UUID) (*DeliveryOrderDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(do *document.DeliveryOrder) error {
		return do.Pack()
	})
}

// Ship posts the outbound moves: each line consumes its reservation, drains
// valuation layers for cost of goods sold, and appends one move to the
// Customer endpoint. The ship claim guarantees at-most-once posting.
func (s *DeliveryOrderService) Ship(ctx context.Context, tenantID, id uuid.UUID) (*DeliveryOrderDTO, error) {
	var dto *DeliveryOrderDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		do, err := repos.DeliveryOrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("delivery.ship", id.String()), do.DeliveryNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toDeliveryOrderDTO(do, true)
			return nil
		}

		if err := do.Ship(); err != nil {
			return err
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)

		totalCOGS := decimal.Zero
		effects := make([]document.LineEffect, 0, len(do.Lines))
		for _, line := range do.Lines {
			doc := document.DocumentTypeDeliveryOrder.Ref(do.ID, do.DeliveryNumber, line.ID)
			move, consumption, err := post.postOutbound(ctx,
				do.WarehouseID, do.LocationID, line.ProductID, line.LotRef,
				line.Quantity, ledger.NewVirtualLocation(ledger.LocationKindCustomer),
				true, doc, "delivery shipment")
			if err != nil {
				return err
			}
			totalCOGS = totalCOGS.Add(consumption.TotalCost)
			effects = append(effects, document.LineEffect{
				LineID:      line.ID,
				ProductID:   line.ProductID,
				WarehouseID: do.WarehouseID,
				LocationID:  do.LocationID,
				LotRef:      line.LotRef,
				Quantity:    line.Quantity,
				UnitCost:    consumption.WeightedAverageCost,
				MoveID:      move.ID,
			})
		}

		do.AddDomainEvent(document.NewDeliveryOrderCompletedEvent(do, totalCOGS, effects))

		if err := repos.DeliveryOrderRepo().SaveWithLock(ctx, do); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, do.GetDomainEvents()...); err != nil {
			return err
		}
		do.ClearDomainEvents()

		dto = toDeliveryOrderDTO(do, false)
		dto.TotalCOGS = &totalCOGS
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("delivery order shipped",
			zap.String("tenant_id", tenantID.String()),
			zap.String("delivery_number", dto.DeliveryNumber))
	}

	return dto, nil
}

// Cancel cancels the order, releasing any reservations it still holds
func (s *DeliveryOrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*DeliveryOrderDTO, error) {
	var dto *DeliveryOrderDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		do, err := repos.DeliveryOrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		holdsReservation := do.HoldsReservation()

		if err := do.Cancel(reason); err != nil {
			return err
		}

		if holdsReservation {
			for _, line := range do.Lines {
				bucket := inventory.Bucket{ProductID: line.ProductID, WarehouseID: do.WarehouseID, LocationID: do.LocationID, LotRef: line.LotRef}
				level, err := repos.LevelRepo().FindByBucket(ctx, tenantID, bucket)
				if err != nil {
					return err
				}
				if err := level.Release(line.Quantity); err != nil {
					return err
				}
				if err := repos.LevelRepo().Save(ctx, level); err != nil {
					return err
				}
			}
		}

		if err := repos.DeliveryOrderRepo().SaveWithLock(ctx, do); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, do.GetDomainEvents()...); err != nil {
			return err
		}
		do.ClearDomainEvents()

		dto = toDeliveryOrderDTO(do, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get returns a delivery order by id
func (s *DeliveryOrderService) Get(ctx context.Context, tenantID, id uuid.UUID) (*DeliveryOrderDTO, error) {
	var dto *DeliveryOrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		do, err := repos.DeliveryOrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dto = toDeliveryOrderDTO(do, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List lists delivery orders for a tenant
func (s *DeliveryOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]DeliveryOrderDTO, error) {
	var out []DeliveryOrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		dos, err := repos.DeliveryOrderRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = make([]DeliveryOrderDTO, 0, len(dos))
		for idx := range dos {
			out = append(out, *toDeliveryOrderDTO(&dos[idx], false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DeliveryOrderService) statusTransition(ctx context.Context, tenantID, id uuid.UUID, transition func(*document.DeliveryOrder) error) (*DeliveryOrderDTO, error) {
	var dto *DeliveryOrderDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		do, err := repos.DeliveryOrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := transition(do); err != nil {
			return err
		}
		if err := repos.DeliveryOrderRepo().SaveWithLock(ctx, do); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, do.GetDomainEvents()...); err != nil {
			return err
		}
		do.ClearDomainEvents()

		dto = toDeliveryOrderDTO(do, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
