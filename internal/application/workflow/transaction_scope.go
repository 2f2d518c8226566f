package workflow

import (
	"context"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/valuation"
)

// TransactionScope provides transactional access to the engine repositories.
// Every document workflow runs its whole mutation inside one Execute call:
// idempotency claim, ledger appends, level and valuation updates, status
// advance and outbox writes commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all engine repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// MoveRepo returns the append-only stock move ledger repository
	MoveRepo() ledger.StockMoveRepository
	// LevelRepo returns the inventory level repository
	LevelRepo() inventory.InventoryLevelRepository
	// LayerRepo returns the valuation layer repository
	LayerRepo() valuation.ValuationLayerRepository
	// ClaimRepo returns the idempotency claim repository
	ClaimRepo() shared.IdempotencyClaimRepository
	// SequenceRepo returns the document sequence repository
	SequenceRepo() numbering.SequenceRepository

	// GoodsReceiptRepo returns the goods receipt repository
	GoodsReceiptRepo() document.GoodsReceiptRepository
	// DeliveryOrderRepo returns the delivery order repository
	DeliveryOrderRepo() document.DeliveryOrderRepository
	// TransferRepo returns the stock transfer repository
	TransferRepo() document.StockTransferRepository
	// StockTakeRepo returns the stock take repository
	StockTakeRepo() document.StockTakeRepository
	// ReconciliationRepo returns the reconciliation repository
	ReconciliationRepo() document.ReconciliationRepository
	// ReturnRepo returns the return authorization repository
	ReturnRepo() document.ReturnAuthorizationRepository
	// AdjustmentRepo returns the append-only stock adjustment repository
	AdjustmentRepo() document.StockAdjustmentRepository

	// PublishEvents writes domain events to the outbox within the current transaction
	PublishEvents(ctx context.Context, events ...shared.DomainEvent) error
}
