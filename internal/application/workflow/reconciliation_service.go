package workflow

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
)

// ReconciliationService drives the cycle-count reconciliation workflow.
// Unlike a stock take, a reconciliation carries a valued review step before
// any corrective move reaches the ledger.
type ReconciliationService struct {
	scope  TransactionScope
	cfg    Config
	logger *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(scope TransactionScope, cfg Config, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{scope: scope, cfg: cfg, logger: logger}
}

// Create opens a reconciliation, snapshotting system quantity and current
// average cost for every requested bucket
func (s *ReconciliationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReconciliationRequest) (*ReconciliationDTO, error) {
	var dto *ReconciliationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		gen := numbering.NewGenerator(repos.SequenceRepo())
		number, err := gen.NextNumber(ctx, tenantID, document.DocumentTypeReconciliation.String(), document.DocumentTypeReconciliation.NumberPrefix())
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("reconciliation.create", req.IdempotencyKey), number))
			if err != nil {
				return err
			}
			if !res.Claimed {
				existing, err := repos.ReconciliationRepo().FindByNumber(ctx, tenantID, res.Existing.DocumentRef)
				if err != nil {
					return err
				}
				dto = toReconciliationDTO(existing, true)
				return nil
			}
		}

		rec, err := document.NewReconciliation(tenantID, number, req.WarehouseID)
		if err != nil {
			return err
		}
		rec.Remark = req.Remark

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)

		drafts := make([]reconLineDraft, 0, len(req.Lines))
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

			unitCost, err := post.currentUnitCost(ctx, req.WarehouseID, line.ProductID, line.LotRef)
			if err != nil {
				return err
			}

			drafts = append(drafts, reconLineDraft{
				req:       line,
				systemQty: systemQty,
				unitCost:  unitCost,
				class:     document.ABCClass(line.Class),
			})
		}
		classifyByValueShare(drafts)

		for _, d := range drafts {
			if _, err := rec.AddLine(d.req.ProductID, d.req.LocationID, d.req.LotRef,
				d.class, d.systemQty, d.unitCost); err != nil {
				return err
			}
		}

		if err := repos.ReconciliationRepo().Save(ctx, rec); err != nil {
			return err
		}

		dto = toReconciliationDTO(rec, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("recon_number", dto.ReconNumber))

	return dto, nil
}

type reconLineDraft struct {
	req       ReconciliationLineRequest
	systemQty decimal.Decimal
	unitCost  decimal.Decimal
	class     document.ABCClass
}

func (d reconLineDraft) value() decimal.Decimal {
	return d.systemQty.Mul(d.unitCost)
}

// classifyByValueShare assigns an ABC class to every draft without one.
// Buckets are ranked by system value descending; the buckets covering the
// top 80% of total value are class A, the next 15% class B, the tail class
// C. Caller-supplied classes are kept as-is.
func classifyByValueShare(drafts []reconLineDraft) {
	total := decimal.Zero
	for i := range drafts {
		total = total.Add(drafts[i].value())
	}

	order := make([]int, len(drafts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return drafts[order[i]].value().GreaterThan(drafts[order[j]].value())
	})

	aCut := total.Mul(decimal.NewFromFloat(0.8))
	bCut := total.Mul(decimal.NewFromFloat(0.95))

	cumulative := decimal.Zero
	for _, idx := range order {
		before := cumulative
		cumulative = cumulative.Add(drafts[idx].value())
		if drafts[idx].class != "" {
			continue
		}
		switch {
		case total.IsZero():
			drafts[idx].class = document.ABCClassC
		case before.LessThan(aCut):
			drafts[idx].class = document.ABCClassA
		case before.LessThan(bCut):
			drafts[idx].class = document.ABCClassB
		default:
			drafts[idx].class = document.ABCClassC
		}
	}
}

// StartCounting begins counting
func (s *ReconciliationService) StartCounting(ctx context.Context, tenantID, id uuid.UUID) (*ReconciliationDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(rec *document.Reconciliation) error {
		return rec.StartCounting()
	})
}

// RecordCount records one counted line
func (s *ReconciliationService) RecordCount(ctx context.Context, tenantID, id uuid.UUID, req CountRequest) (*ReconciliationDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(rec *document.Reconciliation) error {
		return rec.RecordCount(req.LineID, req.Counted)
	})
}

// Review signs off the count and emits the reviewed event with the valued variance
func (s *ReconciliationService) Review(ctx context.Context, tenantID, id uuid.UUID, req ReviewRequest) (*ReconciliationDTO, error) {
	var dto *ReconciliationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err := repos.ReconciliationRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := rec.Review(req.ReviewedBy); err != nil {
			return err
		}

		rec.AddDomainEvent(document.NewReconciliationReviewedEvent(rec))

		if err := repos.ReconciliationRepo().SaveWithLock(ctx, rec); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, rec.GetDomainEvents()...); err != nil {
			return err
		}
		rec.ClearDomainEvents()

		dto = toReconciliationDTO(rec, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Close posts the reviewed variances to the ledger and closes the
// reconciliation. The close claim guarantees at-most-once posting.
func (s *ReconciliationService) Close(ctx context.Context, tenantID, id uuid.UUID) (*ReconciliationDTO, error) {
	var dto *ReconciliationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err := repos.ReconciliationRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("reconciliation.close", id.String()), rec.ReconNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toReconciliationDTO(rec, true)
			return nil
		}

		if err := rec.Close(); err != nil {
			return err
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)
		adjustment := ledger.NewVirtualLocation(ledger.LocationKindAdjustment)

		variances := make([]document.ReconciliationVariance, 0)
		for _, line := range rec.VarianceLines() {
			variance := line.Variance()
			doc := document.DocumentTypeReconciliation.Ref(rec.ID, rec.ReconNumber, line.ID)

			var moveID uuid.UUID
			var unitCost decimal.Decimal
			if variance.IsPositive() {
				move, err := post.postInbound(ctx, adjustment, rec.WarehouseID, line.LocationID,
					line.ProductID, line.LotRef, variance, line.UnitCost, doc, "reconciliation surplus")
				if err != nil {
					return err
				}
				moveID = move.ID
				unitCost = line.UnitCost
			} else {
				move, consumption, err := post.postOutbound(ctx, rec.WarehouseID, line.LocationID,
					line.ProductID, line.LotRef, variance.Neg(), adjustment, false, doc, "reconciliation shrinkage")
				if err != nil {
					return err
				}
				moveID = move.ID
				unitCost = consumption.WeightedAverageCost
			}

			adj, err := document.NewStockAdjustment(tenantID, document.DocumentTypeReconciliation,
				rec.ID, line.ID, line.ProductID, rec.WarehouseID, line.LocationID, line.LotRef,
				variance, unitCost, "reconciliation variance", moveID)
			if err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Record(ctx, adj); err != nil {
				return err
			}
			if err := repos.PublishEvents(ctx, document.NewAdjustmentRecordedEvent(adj)); err != nil {
				return err
			}

			variances = append(variances, document.ReconciliationVariance{
				LineID:          line.ID,
				ProductID:       line.ProductID,
				LocationID:      line.LocationID,
				LotRef:          line.LotRef,
				Class:           line.Class,
				SystemQuantity:  line.SystemQuantity,
				CountedQuantity: *line.CountedQuantity,
				Variance:        variance,
				VarianceValue:   line.VarianceValue(),
				MoveID:          moveID,
			})
		}

		rec.AddDomainEvent(document.NewReconciliationClosedEvent(rec, variances))

		if err := repos.ReconciliationRepo().SaveWithLock(ctx, rec); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, rec.GetDomainEvents()...); err != nil {
			return err
		}
		rec.ClearDomainEvents()

		dto = toReconciliationDTO(rec, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("reconciliation closed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("recon_number", dto.ReconNumber))
	}

	return dto, nil
}

// Cancel cancels the reconciliation
func (s *ReconciliationService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*ReconciliationDTO, error) {
	return s.statusTransition(ctx, tenantID, id, func(rec *document.Reconciliation) error {
		return rec.Cancel(reason)
	})
}

// Get returns a reconciliation by id
func (s *ReconciliationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ReconciliationDTO, error) {
	var dto *ReconciliationDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err := repos.ReconciliationRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dto = toReconciliationDTO(rec, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List lists reconciliations for a tenant
func (s *ReconciliationService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReconciliationDTO, error) {
	var out []ReconciliationDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		recs, err := repos.ReconciliationRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = make([]ReconciliationDTO, 0, len(recs))
		for idx := range recs {
			out = append(out, *toReconciliationDTO(&recs[idx], false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReconciliationService) statusTransition(ctx context.Context, tenantID, id uuid.UUID, transition func(*document.Reconciliation) error) (*ReconciliationDTO, error) {
	var dto *ReconciliationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err := repos.ReconciliationRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := transition(rec); err != nil {
			return err
		}
		if err := repos.ReconciliationRepo().SaveWithLock(ctx, rec); err != nil {
			return err
		}
		dto = toReconciliationDTO(rec, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
