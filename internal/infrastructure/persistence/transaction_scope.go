package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/valuation"
)

// GormTransactionScope implements the workflow TransactionScope using GORM
// transactions. Every repository handed to the workflow closure shares one
// database transaction, and outbox writes ride the same transaction, so a
// document transition commits or rolls back as a unit.
type GormTransactionScope struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, outboxSaver shared.OutboxEventSaver) *GormTransactionScope {
	return &GormTransactionScope{db: db, outboxSaver: outboxSaver}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos workflow.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outboxSaver: s.outboxSaver}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// MoveRepo returns the stock move ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) MoveRepo() ledger.StockMoveRepository {
	return NewGormStockMoveRepository(r.tx)
}

// LevelRepo returns the inventory level repository scoped to the current transaction
func (r *gormTransactionalRepositories) LevelRepo() inventory.InventoryLevelRepository {
	return NewGormInventoryLevelRepository(r.tx)
}

// LayerRepo returns the valuation layer repository scoped to the current transaction
func (r *gormTransactionalRepositories) LayerRepo() valuation.ValuationLayerRepository {
	return NewGormValuationLayerRepository(r.tx)
}

// ClaimRepo returns the idempotency claim repository scoped to the current transaction
func (r *gormTransactionalRepositories) ClaimRepo() shared.IdempotencyClaimRepository {
	return NewGormIdempotencyClaimRepository(r.tx)
}

// SequenceRepo returns the document sequence repository scoped to the current transaction
func (r *gormTransactionalRepositories) SequenceRepo() numbering.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

// GoodsReceiptRepo returns the goods receipt repository scoped to the current transaction
func (r *gormTransactionalRepositories) GoodsReceiptRepo() document.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.tx)
}

// DeliveryOrderRepo returns the delivery order repository scoped to the current transaction
func (r *gormTransactionalRepositories) DeliveryOrderRepo() document.DeliveryOrderRepository {
	return NewGormDeliveryOrderRepository(r.tx)
}

// TransferRepo returns the stock transfer repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransferRepo() document.StockTransferRepository {
	return NewGormStockTransferRepository(r.tx)
}

// StockTakeRepo returns the stock take repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockTakeRepo() document.StockTakeRepository {
	return NewGormStockTakeRepository(r.tx)
}

// ReconciliationRepo returns the reconciliation repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReconciliationRepo() document.ReconciliationRepository {
	return NewGormReconciliationRepository(r.tx)
}

// ReturnRepo returns the return authorization repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReturnRepo() document.ReturnAuthorizationRepository {
	return NewGormReturnAuthorizationRepository(r.tx)
}

// AdjustmentRepo returns the stock adjustment repository scoped to the current transaction
func (r *gormTransactionalRepositories) AdjustmentRepo() document.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.tx)
}

// PublishEvents writes domain events to the outbox within the current transaction
func (r *gormTransactionalRepositories) PublishEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.outboxSaver.SaveEvents(ctx, r.tx, events...)
}

// Ensure GormTransactionScope implements TransactionScope
var _ workflow.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ workflow.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
