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

// ReturnService drives the customer return workflow. Receipt posts one
// Customer inbound move per line: restocked lines re-enter levels and
// valuation, quarantine and scrap lines stay out of tracked inventory.
type ReturnService struct {
	scope  TransactionScope
	cfg    Config
	logger *zap.Logger
}

// NewReturnService creates a new return service
func NewReturnService(scope TransactionScope, cfg Config, logger *zap.Logger) *ReturnService {
	return &ReturnService{scope: scope, cfg: cfg, logger: logger}
}

// Request opens a return authorization
func (s *ReturnService) Request(ctx context.Context, tenantID uuid.UUID, req CreateReturnRequest) (*ReturnAuthorizationDTO, error) {
	var dto *ReturnAuthorizationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		gen := numbering.NewGenerator(repos.SequenceRepo())
		number, err := gen.NextNumber(ctx, tenantID, document.DocumentTypeReturnAuthorization.String(), document.DocumentTypeReturnAuthorization.NumberPrefix())
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("rma.create", req.IdempotencyKey), number))
			if err != nil {
				return err
			}
			if !res.Claimed {
				existing, err := repos.ReturnRepo().FindByNumber(ctx, tenantID, res.Existing.DocumentRef)
				if err != nil {
					return err
				}
				dto = toReturnDTO(existing, true)
				return nil
			}
		}

		rma, err := document.NewReturnAuthorization(tenantID, number, req.CustomerRef, req.DeliveryRef, req.WarehouseID, req.LocationID)
		if err != nil {
			return err
		}
		rma.Remark = req.Remark
		for _, line := range req.Lines {
			if _, err := rma.AddLine(line.ProductID, line.Quantity, line.UnitCost, line.LotRef, line.Reason); err != nil {
				return err
			}
		}

		if err := repos.ReturnRepo().Save(ctx, rma); err != nil {
			return err
		}

		dto = toReturnDTO(rma, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return authorization requested",
		zap.String("tenant_id", tenantID.String()),
		zap.String("return_number", dto.ReturnNumber))

	return dto, nil
}

// Approve approves the return with per-line dispositions
func (s *ReturnService) Approve(ctx context.Context, tenantID, id uuid.UUID, req ApproveReturnRequest) (*ReturnAuthorizationDTO, error) {
	var dto *ReturnAuthorizationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rma, err := repos.ReturnRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		dispositions := make(map[uuid.UUID]document.ReturnDisposition, len(req.Dispositions))
		for lineID, d := range req.Dispositions {
			dispositions[lineID] = document.ReturnDisposition(d)
		}

		if err := rma.Approve(req.ApprovedBy, dispositions); err != nil {
			return err
		}

		rma.AddDomainEvent(document.NewReturnApprovedEvent(rma))

		if err := repos.ReturnRepo().SaveWithLock(ctx, rma); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, rma.GetDomainEvents()...); err != nil {
			return err
		}
		rma.ClearDomainEvents()

		dto = toReturnDTO(rma, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Reject rejects the return request
func (s *ReturnService) Reject(ctx context.Context, tenantID, id uuid.UUID, reason string) (*ReturnAuthorizationDTO, error) {
	var dto *ReturnAuthorizationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rma, err := repos.ReturnRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := rma.Reject(reason); err != nil {
			return err
		}

		rma.AddDomainEvent(document.NewReturnRejectedEvent(rma))

		if err := repos.ReturnRepo().SaveWithLock(ctx, rma); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, rma.GetDomainEvents()...); err != nil {
			return err
		}
		rma.ClearDomainEvents()

		dto = toReturnDTO(rma, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Receive posts the physical receipt of an approved return. Each line enters
// from the Customer endpoint; the disposition decides whether it lands in a
// tracked bucket, the warehouse quarantine area or scrap. The receive claim
// guarantees at-most-once posting.
func (s *ReturnService) Receive(ctx context.Context, tenantID, id uuid.UUID) (*ReturnAuthorizationDTO, error) {
	var dto *ReturnAuthorizationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rma, err := repos.ReturnRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		res, err := repos.ClaimRepo().Claim(ctx, shared.NewIdempotencyClaim(tenantID, claimScopeKey("rma.receive", id.String()), rma.ReturnNumber))
		if err != nil {
			return err
		}
		if !res.Claimed {
			dto = toReturnDTO(rma, true)
			return nil
		}

		if err := rma.Receive(); err != nil {
			return err
		}

		engine, err := s.cfg.EngineFor(tenantID)
		if err != nil {
			return err
		}
		post := newPoster(repos, engine, tenantID)
		customer := ledger.NewVirtualLocation(ledger.LocationKindCustomer)

		effects := make([]document.ReturnLineEffect, 0, len(rma.Lines))
		for _, line := range rma.Lines {
			doc := document.DocumentTypeReturnAuthorization.Ref(rma.ID, rma.ReturnNumber, line.ID)

			var moveID uuid.UUID
			switch line.Disposition {
			case document.ReturnDispositionRestock:
				move, err := post.postInbound(ctx, customer, rma.WarehouseID, rma.LocationID,
					line.ProductID, line.LotRef, line.Quantity, line.UnitCost, doc, "return restock")
				if err != nil {
					return err
				}
				moveID = move.ID

			case document.ReturnDispositionQuarantine, document.ReturnDispositionScrap:
				kind := ledger.LocationKindQuarantine
				reason := "return quarantine"
				if line.Disposition == document.ReturnDispositionScrap {
					kind = ledger.LocationKindScrap
					reason = "return scrap"
				}
				move, err := ledger.NewStockMove(ledger.StockMoveInput{
					TenantID:    tenantID,
					ProductID:   line.ProductID,
					Source:      customer,
					Destination: ledger.NewWarehouseVirtualLocation(kind, rma.WarehouseID),
					Quantity:    line.Quantity,
					UnitCost:    line.UnitCost,
					LotRef:      line.LotRef,
					Document:    doc,
					Reason:      reason,
				})
				if err != nil {
					return err
				}
				if err := repos.MoveRepo().Record(ctx, move); err != nil {
					return err
				}
				moveID = move.ID

			default:
				return shared.NewDomainError("INVALID_DISPOSITION", "Unknown return disposition")
			}

			effects = append(effects, document.ReturnLineEffect{
				LineEffect: document.LineEffect{
					LineID:      line.ID,
					ProductID:   line.ProductID,
					WarehouseID: rma.WarehouseID,
					LocationID:  rma.LocationID,
					LotRef:      line.LotRef,
					Quantity:    line.Quantity,
					UnitCost:    line.UnitCost,
					MoveID:      moveID,
				},
				Disposition: line.Disposition,
			})
		}

		rma.AddDomainEvent(document.NewReturnReceivedEvent(rma, effects))

		if err := repos.ReturnRepo().SaveWithLock(ctx, rma); err != nil {
			return err
		}
		if err := repos.PublishEvents(ctx, rma.GetDomainEvents()...); err != nil {
			return err
		}
		rma.ClearDomainEvents()

		dto = toReturnDTO(rma, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !dto.Replayed {
		s.logger.Info("return received",
			zap.String("tenant_id", tenantID.String()),
			zap.String("return_number", dto.ReturnNumber))
	}

	return dto, nil
}

// Cancel cancels the return
func (s *ReturnService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*ReturnAuthorizationDTO, error) {
	var dto *ReturnAuthorizationDTO

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rma, err := repos.ReturnRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := rma.Cancel(reason); err != nil {
			return err
		}
		if err := repos.ReturnRepo().SaveWithLock(ctx, rma); err != nil {
			return err
		}
		dto = toReturnDTO(rma, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get returns a return authorization by id
func (s *ReturnService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ReturnAuthorizationDTO, error) {
	var dto *ReturnAuthorizationDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rma, err := repos.ReturnRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dto = toReturnDTO(rma, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// List lists return authorizations for a tenant
func (s *ReturnService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReturnAuthorizationDTO, error) {
	var out []ReturnAuthorizationDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rmas, err := repos.ReturnRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = make([]ReturnAuthorizationDTO, 0, len(rmas))
		for idx := range rmas {
			out = append(out, *toReturnDTO(&rmas[idx], false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
