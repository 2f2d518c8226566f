package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/valuation"
)

// LevelService answers read queries over inventory levels, the move ledger
// and valuation layers. All stock mutation goes through the document
// workflows; the only write here is the low-stock threshold, which is
// configuration, not stock.
type LevelService struct {
	scope  workflow.TransactionScope
	logger *zap.Logger
}

// NewLevelService creates a new level query service
func NewLevelService(scope workflow.TransactionScope, logger *zap.Logger) *LevelService {
	return &LevelService{scope: scope, logger: logger}
}

// GetLevel returns the level for one bucket
func (s *LevelService) GetLevel(ctx context.Context, tenantID uuid.UUID, req BucketRequest) (*LevelDTO, error) {
	var dto *LevelDTO
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		bucket := inventory.Bucket{ProductID: req.ProductID, WarehouseID: req.WarehouseID, LocationID: req.LocationID, LotRef: req.LotRef}
		level, err := repos.LevelRepo().FindByBucket(ctx, tenantID, bucket)
		if err != nil {
			return err
		}
		dto = toLevelDTO(level)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListLevels lists levels for a tenant with pagination
func (s *LevelService) ListLevels(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*LevelListResult, error) {
	var result *LevelListResult
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		levels, err := repos.LevelRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		total, err := repos.LevelRepo().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		dtos := make([]LevelDTO, 0, len(levels))
		for idx := range levels {
			dtos = append(dtos, *toLevelDTO(&levels[idx]))
		}
		result = &LevelListResult{
			Levels:   dtos,
			Total:    total,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProductSummary returns the total on-hand quantity for a product across all buckets
func (s *LevelService) ProductSummary(ctx context.Context, tenantID, productID uuid.UUID) (*ProductSummaryDTO, error) {
	var dto *ProductSummaryDTO
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		total, err := repos.LevelRepo().SumOnHandByProduct(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		dto = &ProductSummaryDTO{ProductID: productID, TotalOnHand: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// MoveHistory returns the ledger history touching one bucket, newest first
func (s *LevelService) MoveHistory(ctx context.Context, tenantID uuid.UUID, req MoveHistoryRequest, page shared.Filter) (*MoveListResult, error) {
	var result *MoveListResult
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		filter := ledger.BucketFilter{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			LocationID:  req.LocationID,
			LotRef:      req.LotRef,
			Since:       req.Since,
			Until:       req.Until,
		}
		moves, total, err := repos.MoveRepo().FindByBucket(ctx, tenantID, filter, page)
		if err != nil {
			return err
		}

		dtos := make([]MoveDTO, 0, len(moves))
		for _, m := range moves {
			dtos = append(dtos, toMoveDTO(m))
		}
		result = &MoveListResult{
			Moves:    dtos,
			Total:    total,
			Page:     page.Page,
			PageSize: page.PageSize,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DocumentMoves returns the moves a document transition produced
func (s *LevelService) DocumentMoves(ctx context.Context, tenantID uuid.UUID, documentType string, documentID uuid.UUID) ([]MoveDTO, error) {
	var out []MoveDTO
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		moves, err := repos.MoveRepo().FindByDocument(ctx, tenantID, documentType, documentID)
		if err != nil {
			return err
		}
		out = make([]MoveDTO, 0, len(moves))
		for _, m := range moves {
			out = append(out, toMoveDTO(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Valuation returns the open cost layers of one valuation bucket together
// with the totals they imply
func (s *LevelService) Valuation(ctx context.Context, tenantID uuid.UUID, req ValuationRequest) (*ValuationDTO, error) {
	var dto *ValuationDTO
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		bucket := valuation.Bucket{ProductID: req.ProductID, WarehouseID: req.WarehouseID, LotRef: req.LotRef}
		layers, err := repos.LayerRepo().FindOpenByBucket(ctx, tenantID, bucket)
		if err != nil {
			return err
		}

		dto = &ValuationDTO{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			LotRef:      req.LotRef,
			Layers:      make([]LayerDTO, 0, len(layers)),
		}
		totalQty := decimal.Zero
		totalValue := decimal.Zero
		for _, l := range layers {
			totalQty = totalQty.Add(l.RemainingQuantity)
			totalValue = totalValue.Add(l.RemainingValue())
			dto.Layers = append(dto.Layers, LayerDTO{
				ID:                l.ID,
				UnitCost:          l.UnitCost,
				ReceivedQuantity:  l.ReceivedQuantity,
				RemainingQuantity: l.RemainingQuantity,
				ReceivedAt:        l.ReceivedAt,
			})
		}
		dto.TotalQuantity = totalQty
		dto.TotalValue = totalValue
		if !totalQty.IsZero() {
			dto.AverageCost = totalValue.Div(totalQty).Round(4)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// SetMinimum updates the low-stock alert threshold for one bucket. The level
// row is created if the bucket has never moved.
func (s *LevelService) SetMinimum(ctx context.Context, tenantID uuid.UUID, req SetMinimumRequest) (*LevelDTO, error) {
	var dto *LevelDTO
	err := s.scope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		bucket := inventory.Bucket{ProductID: req.ProductID, WarehouseID: req.WarehouseID, LocationID: req.LocationID, LotRef: req.LotRef}
		level, err := repos.LevelRepo().GetOrCreate(ctx, tenantID, bucket)
		if err != nil {
			return err
		}
		if err := level.SetMinQuantity(req.MinQuantity); err != nil {
			return err
		}
		if err := repos.LevelRepo().Save(ctx, level); err != nil {
			return err
		}
		if events := level.GetDomainEvents(); len(events) > 0 {
			if err := repos.PublishEvents(ctx, events...); err != nil {
				return err
			}
			level.ClearDomainEvents()
		}
		dto = toLevelDTO(level)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("minimum quantity updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("min_quantity", req.MinQuantity.String()))

	return dto, nil
}
