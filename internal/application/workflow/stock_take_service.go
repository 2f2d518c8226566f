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

// StockTakeService drives the physical count workflow. Completion posts one
// corrective move per variance line against the adjustment endpoint and logs
// a stock adjustment record for each.
type StockTakeService struct {
	scope  TransactionScope
	cfg    Config
	logger *zap.Logger
}

// NewStockTakeService creates a new stock take service
func NewStockTakeService(scope TransactionScope, cfg Config, logger *zap.Logger) *StockTakeService {
	return &StockTakeService{scope: scope, cfg: cfg, logger: logger}
}

// Create creates a draft stock take, snapshotting the system quantity of
// every requested bucket
func (s *StockTakeService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStockTakeRequest) (*StockTakeDTO, error) {
	var dto *StockTakeDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		gen := numbering.NewGenerator(repos.SequenceRepo())
		number, err := gen.NextNumber(ctx, tenantID, document.DocumentTypeStockTake.String(), document.DocumentTypeStockTake.NumberPrefix())
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("stock_take.create", req.IdempotencyKey), number))
			if err != nil {
				return err
			}
			if !res.Claimed {
				existing, err := repos.StockTakeRepo().FindByNumber(ctx, tenantID, res.Existing.DocumentRef)
				if err != nil {
					return err
				}
				dto = toStockTakeDTO(existing, true)
				return nil
			}
		}

		st, err := document.NewStockTake(tenantID, number, req.WarehouseID)
		if err != nil {
			return err
		}
		st.Remark = req.Remark

		for _, line := range req.Lines {
			bucket := inventory.Bucket{ProductID: line.ProductID, WarehouseID: req.WarehouseID, LocationID: line.LocationID, LotRef: line.LotRef}
			systemQty := decimal.Zero
			level, err := repos.LevelRepo().FindByBucket(ctx, tenantID, bucket)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			if level != nil {
				systemQty = level.OnHand
			}
			if _, err := st.AddLine(line.ProductID, line.LocationID, line.LotRef, systemQty); err != nil {
				return err
			}
		}

		if err := repos.StockTakeRepo().Save(ctx, st); err != nil {
			return err
		}

		dto = toStockTakeDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock take created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("take_number", dto.TakeNumber))

	return dto, nil
}

// Start begins counting
func (s *StockTakeService) Start(ctx context.Context, tenantID, id uuid.UUID) (*StockTakeDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(st *document.StockTake) error {
		return st.Start()
	})
}

// RecordCount records one counted line
func (s *StockTakeService) RecordCount(ctx context.Context, tenantID, id uuid.UUID, req CountRequest) (*StockTakeDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(st *document.StockTake) error {
		return st.RecordCount(req.LineID, req.Counted, req.CountedBy)
	})
}

// Approve signs off the count so variances above the threshold can be finalized
func (s *StockTakeService) Approve(ctx context.Context, tenantID, id uuid.UUID, req ApproveRequest) (*StockTakeDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(st *document.StockTake) error {
		return st.Approve(req.ApprovedBy)
	})
}

// Complete finalizes the stock take: every variance line posts one corrective
// move so on-hand converges to the counted quantity, plus an adjustment log
// entry. The completion claim guarantees at-most-once posting.
func (s *StockTakeService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*StockTakeDTO, error) {
	var dto *StockTakeDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.StockTakeRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("stock_take.complete", id.String()), st.TakeNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toStockTakeDTO(st, true)
			return nil
		}

		if err := st.Complete(s.cfg.ThresholdFor(tenantID)); err != nil {
			return err
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)

		variances := make([]document.StockTakeVariance, 0)
		for _, line := range st.VarianceLines() {
			moveID, unitCost, err := s.postCorrection(ctx, post, repos, tenantID, st, line)
			if err != nil {
				return err
			}

			adj, err := document.NewStockAdjustment(tenantID, document.DocumentTypeStockTake,
				st.ID, line.ID, line.ProductID, st.WarehouseID, line.LocationID, line.LotRef,
				line.Variance(), unitCost, "stock take variance", moveID)
			if err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Record(ctx, adj); err != nil {
				return err
			}
			if err := repos.PublishEvents(ctx, document.NewAdjustmentRecordedEvent(adj)); err != nil {
				return err
			}

			variances = append(variances, document.StockTakeVariance{
				LineID:          line.ID,
				ProductID:       line.ProductID,
				LocationID:      line.LocationID,
				LotRef:          line.LotRef,
				SystemQuantity:  line.SystemQuantity,
				CountedQuantity: *line.CountedQuantity,
				Variance:        line.Variance(),
				MoveID:          moveID,
			})
		}

		st.AddDomainEvent(document.NewStockTakeCompletedEvent(st, variances))

		if err := repos.StockTakeRepo().SaveWithLock(ctx, st); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, st.GetDomainEvents()...); err != nil {
			return err
		}
		st.ClearDomainEvents()

		dto = toStockTakeDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("stock take completed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("take_number", dto.TakeNumber))
	}

	return dto, nil
}

// postCorrection posts the corrective move for one variance line. A surplus
// enters from the adjustment endpoint at the bucket's current average cost;
// shrinkage leaves to it through the valuation engine.
func (s *StockTakeService) postCorrection(ctx context.Context, post *poster, repos TransactionalRepositories, tenantID uuid.UUID, st *document.StockTake, line document.StockTakeLine) (uuid.UUID, decimal.Decimal, error) {
	variance := line.Variance()
	doc := document.DocumentTypeStockTake.Ref(st.ID, st.TakeNumber, line.ID)
	adjustment := ledger.NewVirtualLocation(ledger.LocationKindAdjustment)

	if variance.IsPositive() {
		unitCost, err := post.currentUnitCost(ctx, st.WarehouseID, line.ProductID, line.LotRef)
		if err != nil {
			return uuid.Nil, decimal.Zero, err
		}
		move, err := post.postInbound(ctx, adjustment, st.WarehouseID, line.LocationID,
			line.ProductID, line.LotRef, variance, unitCost, doc, "count surplus")
		if err != nil {
			return uuid.Nil, decimal.Zero, err
		}
		return move.ID, unitCost, nil
	}

	shrinkage := variance.Neg()
	move, consumption, err := post.postOutbound(ctx, st.WarehouseID, line.LocationID,
		line.ProductID, line.LotRef, shrinkage, adjustment, false, doc, "count shrinkage")
	if err != nil {
		return uuid.Nil, decimal.Zero, err
	}
	return move.ID, consumption.WeightedAverageCost, nil
}

// Cancel cancels the stock take
func (s *StockTakeService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*StockTakeDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(st *document.StockTake) error {
		return st.Cancel(reason)
	})
}

// Get returns a stock take by id
func (s *StockTakeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*StockTakeDTO, error) {
	var dto *StockTakeDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.StockTakeRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dto = toStockTakeDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List lists stock takes for a tenant
func (s *StockTakeService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockTakeDTO, error) {
	var out []StockTakeDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sts, err := repos.StockTakeRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = make([]StockTakeDTO, 0, len(sts))
		for idx := range sts {
			out = append(out, *toStockTakeDTO(&sts[idx], false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StockTakeService) statusTransition(ctx context.Context, tenantID, id uuid.UUID, transition func(*document.StockTake) error) (*StockTakeDTO, error) {
	var dto *StockTakeDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		st, err := repos.StockTakeRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := transition(st); err != nil {
			return err
		}
		if err := repos.StockTakeRepo().SaveWithLock(ctx, st); err != nil {
			return err
		}
		dto = toStockTakeDTO(st, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
