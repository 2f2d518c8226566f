package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
)

// GoodsReceiptService drives the goods receipt workflow. Each operation runs
// validate, claim, mutate, advance and outbox in a single transaction.
type GoodsReceiptService struct {
	scope  TransactionScope
	cfg    Config
	logger *zap.Logger
}

// NewGoodsReceiptService creates a new goods receipt service
func NewGoodsReceiptService(scope TransactionScope, cfg Config, logger *zap.Logger) *GoodsReceiptService {
	return &GoodsReceiptService{scope: scope, cfg: cfg, logger: logger}
}

// Create creates a draft goods receipt with its lines. When an idempotency
// key is supplied, replays return the originally created document.
func (s *GoodsReceiptService) Create(ctx context.Context, tenantID uuid.UUID, req CreateGoodsReceiptRequest) (*GoodsReceiptDTO, error) {
	var dto *GoodsReceiptDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		gen := numbering.NewGenerator(repos.SequenceRepo())
		number, err := gen.NextNumber(ctx, tenantID, document.DocumentTypeGoodsReceipt.String(), document.DocumentTypeGoodsReceipt.NumberPrefix())
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			claim := shared.NewIdempotencyClaim(tenantID, claimScopeKey("receipt.create", req.IdempotencyKey), number)
			res, err := repos.ClaimRepo().Claim(ctx, claim)
			if err != nil {
				return err
			}
			if !res.Claimed {
				existing, err := repos.GoodsReceiptRepo().FindByNumber(ctx, tenantID, res.Existing.DocumentRef)
				if err != nil {
					return err
				}
				dto = toGoodsReceiptDTO(existing, true)
				return nil
			}
		}

		grn, err := document.NewGoodsReceipt(tenantID, number, req.SupplierRef, req.WarehouseID, req.LocationID)
		if err != nil {
			return err
		}
		grn.Remark = req.Remark
		for _, line := range req.Lines {
			if _, err := grn.AddLine(line.ProductID, line.Quantity, line.UnitCost, line.LotRef); err != nil {
				return err
			}
		}

		if err := repos.GoodsReceiptRepo().Save(ctx, grn); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, grn.GetDomainEvents()...); err != nil {
			return err
		}
		grn.ClearDomainEvents()

		dto = toGoodsReceiptDTO(grn, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("goods receipt created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("receipt_number", dto.ReceiptNumber))

	return dto, nil
}

// Confirm transitions a draft receipt to confirmed
func (s *GoodsReceiptService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceiptDTO, error) {
	var dto *GoodsReceiptDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		grn, err := repos.GoodsReceiptRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := grn.Confirm(); err != nil {
			return err
		}
		if err := repos.GoodsReceiptRepo().SaveWithLock(ctx, grn); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, grn.GetDomainEvents()...); err != nil {
			return err
		}
		grn.ClearDomainEvents()

		dto = toGoodsReceiptDTO(grn, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Complete posts a confirmed receipt to the ledger: one supplier inbound move
// and one valuation layer per line, then marks the receipt completed. The
// operation claims the receipt id so a concurrent or retried completion
// posts the stock exactly once.
func (s *GoodsReceiptService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceiptDTO, error) {
	var dto *GoodsReceiptDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		grn, err := repos.GoodsReceiptRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		claim := shared.NewIdempotencyClaim(tenantID, claimScopeKey("receipt.complete", id.String()), grn.ReceiptNumber)
		res, err := repos.ClaimRepo().Claim(ctx, claim)
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toGoodsReceiptDTO(grn, true)
			return nil
		}

		if err := grn.Complete(); err != nil {
			return err
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)

		effects := make([]document.LineEffect, 0, len(grn.Lines))
		for _, line := range grn.Lines {
			doc := document.DocumentTypeGoodsReceipt.Ref(grn.ID, grn.ReceiptNumber, line.ID)
			move, err := post.postInbound(ctx, ledger.NewVirtualLocation(ledger.LocationKindSupplier),
				grn.WarehouseID, grn.LocationID, line.ProductID, line.LotRef,
				line.Quantity, line.UnitCost, doc, "goods receipt")
			if err != nil {
				return err
			}
			effects = append(effects, document.LineEffect{
				LineID:      line.ID,
				ProductID:   line.ProductID,
				WarehouseID: grn.WarehouseID,
				LocationID:  grn.LocationID,
				LotRef:      line.LotRef,
				Quantity:    line.Quantity,
				UnitCost:    line.UnitCost,
				MoveID:      move.ID,
			})
		}

		grn.AddDomainEvent(document.NewGoodsReceiptCompletedEvent(grn, effects))

		if err := repos.GoodsReceiptRepo().SaveWithLock(ctx, grn); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, grn.GetDomainEvents()...); err != nil {
			return err
		}
		grn.ClearDomainEvents()

		dto = toGoodsReceiptDTO(grn, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("goods receipt completed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("receipt_number", dto.ReceiptNumber))
	}

	return dto, nil
}

// Cancel cancels a draft or confirmed receipt
func (s *GoodsReceiptService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*GoodsReceiptDTO, error) {
	var dto *GoodsReceiptDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		grn, err := repos.GoodsReceiptRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := grn.Cancel(reason); err != nil {
			return err
		}
		if err := repos.GoodsReceiptRepo().SaveWithLock(ctx, grn); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, grn.GetDomainEvents()...); err != nil {
			return err
		}
		grn.ClearDomainEvents()

		dto = toGoodsReceiptDTO(grn, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get returns a receipt by id
func (s *GoodsReceiptService) Get(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceiptDTO, error) {
	var dto *GoodsReceiptDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		grn, err := repos.GoodsReceiptRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dto = toGoodsReceiptDTO(grn, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List lists receipts for a tenant
func (s *GoodsReceiptService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GoodsReceiptDTO, error) {
	var out []GoodsReceiptDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		grns, err := repos.GoodsReceiptRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = make([]GoodsReceiptDTO, 0, len(grns))
		for idx := range grns {
			out = append(out, *toGoodsReceiptDTO(&grns[idx], false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
