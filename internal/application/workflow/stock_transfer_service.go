package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/valuation"
)

// StockTransferService drives the two-leg transfer workflow. Dispatch posts
// source→in-transit moves and consumes source valuation; receive posts
// in-transit→destination moves and recreates the layers at the dispatched
// cost, so value travels with the stock.
type StockTransferService struct {
	scope  TransactionScope
	cfg    Config
	logger *zap.Logger
}

// NewStockTransferService creates a new stock transfer service
func NewStockTransferService(scope TransactionScope, cfg Config, logger *zap.Logger) *StockTransferService {
	return &StockTransferService{scope: scope, cfg: cfg, logger: logger}
}

// Create creates a draft transfer with its lines
func (s *StockTransferService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStockTransferRequest) (*StockTransferDTO, error) {
	var dto *StockTransferDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		gen := numbering.NewGenerator(repos.SequenceRepo())
		number, err := gen.NextNumber(ctx, tenantID, document.DocumentTypeStockTransfer.String(), document.DocumentTypeStockTransfer.NumberPrefix())
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("transfer.create", req.IdempotencyKey), number))
			if err != nil {
				return err
			}
			if !res.Claimed {
				existing, err := repos.TransferRepo().FindByNumber(ctx, tenantID, res.Existing.DocumentRef)
				if err != nil {
					return err
				}
				dto = toStockTransferDTO(existing, true)
				return nil
			}
		}

		st, err := document.NewStockTransfer(tenantID, number, req.SourceWhID, req.SourceLocID, req.DestWhID, req.DestLocID)
		if err != nil {
			return err
		}
		st.Remark = req.Remark
		for _, line := range req.Lines {
			if _, err := st.AddLine(line.ProductID, line.Quantity, line.LotRef); err != nil {
				return err
			}
		}

		if err := repos.TransferRepo().Save(ctx, st); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, st.GetDomainEvents()...); err != nil {
			return err
		}
		st.ClearDomainEvents()

		dto = toStockTransferDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transfer created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transfer_number", dto.TransferNumber))

	return dto, nil
}

// Dispatch posts the source leg: each line leaves the source bucket for the
// in-transit endpoint at the cost the valuation engine drains.
func (s *StockTransferService) Dispatch(ctx context.Context, tenantID, id uuid.UUID) (*StockTransferDTO, error) {
	var dto *StockTransferDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.TransferRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("transfer.dispatch", id.String()), st.TransferNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toStockTransferDTO(st, true)
			return nil
		}

		if err := st.Dispatch(); err != nil {
			return err
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)

		for _, line := range st.Lines {
			doc := document.DocumentTypeStockTransfer.Ref(st.ID, st.TransferNumber, line.ID)
			if _, _, err := post.postOutbound(ctx,
				st.SourceWhID, st.SourceLocID, line.ProductID, line.LotRef,
				line.Quantity, ledger.NewVirtualLocation(ledger.LocationKindInTransit),
				false, doc, "transfer dispatch"); err != nil {
				return err
			}
		}

		if err := repos.TransferRepo().SaveWithLock(ctx, st); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, st.GetDomainEvents()...); err != nil {
			return err
		}
		st.ClearDomainEvents()

		dto = toStockTransferDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("stock transfer dispatched",
			zap.String("tenant_id", tenantID.String()),
			zap.String("transfer_number", dto.TransferNumber))
	}

	return dto, nil
}

// Receive posts the destination leg. The unit cost of each line is read back
// from the dispatch move so the destination layers carry the value that left
// the source.
func (s *StockTransferService) Receive(ctx context.Context, tenantID, id uuid.UUID) (*StockTransferDTO, error) {
	var dto *StockTransferDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.TransferRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("transfer.receive", id.String()), st.TransferNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toStockTransferDTO(st, true)
			return nil
		}

		if err := st.Receive(); err != nil {
			return err
		}

		dispatchMoves, err := repos.MoveRepo().FindByDocument(ctx, tenantID, document.DocumentTypeStockTransfer.String(), st.ID)
		if err != nil {
			return err
		}
		inTransit := ledger.NewVirtualLocation(ledger.LocationKindInTransit)
		costByLine := make(map[uuid.UUID]*ledger.StockMove, len(dispatchMoves))
		for _, m := range dispatchMoves {
			if m.Destination.Equal(inTransit) {
				costByLine[m.Document.LineID] = m
			}
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}

		effects := make([]document.LineEffect, 0, len(st.Lines))
		for _, line := range st.Lines {
			dispatched, ok := costByLine[line.ID]
			if !ok {
				return shared.NewDomainError("LEDGER_DESYNC", fmt.Sprintf("No dispatch move found for transfer line %s", line.ID))
			}

			doc := document.DocumentTypeStockTransfer.Ref(st.ID, st.TransferNumber, line.ID)
			move, err := ledger.NewStockMove(ledger.StockMoveInput{
				TenantID:    tenantID,
				ProductID:   line.ProductID,
				Source:      inTransit,
				Destination: ledger.NewInternalLocation(st.DestWhID, st.DestLocID),
				Quantity:    line.Quantity,
				UnitCost:    dispatched.UnitCost,
				LotRef:      line.LotRef,
				Document:    doc,
				Reason:      "transfer receipt",
			})
			if err != nil {
				return err
			}
			if err := repos.MoveRepo().Record(ctx, move); err != nil {
				return err
			}

			bucket := inventory.Bucket{ProductID: line.ProductID, WarehouseID: st.DestWhID, LocationID: st.DestLocID, LotRef: line.LotRef}
			level, err := repos.LevelRepo().GetOrCreate(ctx, tenantID, bucket)
			if err != nil {
				return err
			}
			if err := level.ApplyInbound(line.Quantity); err != nil {
				return err
			}
			if err := repos.LevelRepo().Save(ctx, level); err != nil {
				return err
			}

			vBucket := valuation.Bucket{ProductID: line.ProductID, WarehouseID: st.DestWhID, LotRef: line.LotRef}
			layers, err := repos.LayerRepo().FindOpenByBucket(ctx, tenantID, vBucket)
			if err != nil {
				return err
			}
			updated, _, err := engine.AddLayer(tenantID, vBucket, layers, line.Quantity, dispatched.UnitCost, time.Now(), st.ID)
			if err != nil {
				return err
			}
			if err := repos.LayerRepo().Save(ctx, updated...); err != nil {
				return err
			}

			effects = append(effects, document.LineEffect{
				LineID:      line.ID,
				ProductID:   line.ProductID,
				WarehouseID: st.DestWhID,
				LocationID:  st.DestLocID,
				LotRef:      line.LotRef,
				Quantity:    line.Quantity,
				UnitCost:    dispatched.UnitCost,
				MoveID:      move.ID,
			})
		}

		st.AddDomainEvent(document.NewStockTransferCompletedEvent(st, effects))

		if err := repos.TransferRepo().SaveWithLock(ctx, st); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, st.GetDomainEvents()...); err != nil {
			return err
		}
		st.ClearDomainEvents()

		dto = toStockTransferDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("stock transfer received",
			zap.String("tenant_id", tenantID.String()),
			zap.String("transfer_number", dto.TransferNumber))
	}

	return dto, nil
}

// Cancel cancels a draft transfer
func (s *StockTransferService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*StockTransferDTO, error) {
	var dto *StockTransferDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.TransferRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := st.Cancel(reason); err != nil {
			return err
		}
		if err := repos.TransferRepo().SaveWithLock(ctx, st); err != nil {
			return err
		}
		dto = toStockTransferDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get returns a transfer by id
func (s *StockTransferService) Get(ctx context.Context, tenantID, id uuid.UUID) (*StockTransferDTO, error) {
	var dto *StockTransferDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.TransferRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dto = toStockTransferDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List lists transfers for a tenant
func (s *StockTransferService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockTransferDTO, error) {
	var out []StockTransferDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sts, err := repos.TransferRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = make([]StockTransferDTO, 0, len(sts))
		for idx := range sts {
			out = append(out, *toStockTransferDTO(&sts[idx], false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
