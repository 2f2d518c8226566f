package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByIDForTenant finds a goods receipt, with lines, by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceipt, error)

	// FindByNumber finds a goods receipt by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*GoodsReceipt, error)

	// FindAllForTenant lists goods receipts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GoodsReceipt, error)

	// FindByStatus lists goods receipts in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status GoodsReceiptStatus, filter shared.Filter) ([]GoodsReceipt, error)

	// Save creates or updates a goods receipt and its lines
	Save(ctx context.Context, grn *GoodsReceipt) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, grn *GoodsReceipt) error

	// CountForTenant counts goods receipts for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// DeliveryOrderRepository defines the interface for delivery order persistence
type DeliveryOrderRepository interface {
	// FindByIDForTenant finds a delivery order, with lines, by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*DeliveryOrder, error)

	// FindByNumber finds a delivery order by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*DeliveryOrder, error)

	// FindByOrderRef finds the delivery order created for an upstream order
	FindByOrderRef(ctx context.Context, tenantID uuid.UUID, orderRef string) (*DeliveryOrder, error)

	// FindAllForTenant lists delivery orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]DeliveryOrder, error)

	// FindByStatus lists delivery orders in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status DeliveryOrderStatus, filter shared.Filter) ([]DeliveryOrder, error)

	// Save creates or updates a delivery order and its lines
	Save(ctx context.Context, do *DeliveryOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, do *DeliveryOrder) error

	// CountForTenant counts delivery orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// StockTransferRepository defines the interface for stock transfer persistence
type StockTransferRepository interface {
	// FindByIDForTenant finds a stock transfer, with lines, by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockTransfer, error)

	// FindByNumber finds a stock transfer by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*StockTransfer, error)

	// FindAllForTenant lists stock transfers for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// FindInTransit lists transfers currently in transit for a tenant
	FindInTransit(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockTransfer, error)

	// Save creates or updates a stock transfer and its lines
	Save(ctx context.Context, st *StockTransfer) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, st *StockTransfer) error
}

// StockTakeRepository defines the interface for stock take persistence
type StockTakeRepository interface {
	// FindByIDForTenant finds a stock take, with lines, by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockTake, error)

	// FindByNumber finds a stock take by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*StockTake, error)

	// FindAllForTenant lists stock takes for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockTake, error)

	// Save creates or updates a stock take and its lines
	Save(ctx context.Context, st *StockTake) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, st *StockTake) error
}

// ReconciliationRepository defines the interface for reconciliation persistence
type ReconciliationRepository interface {
	// FindByIDForTenant finds a reconciliation, with lines, by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Reconciliation, error)

	// FindByNumber finds a reconciliation by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Reconciliation, error)

	// FindAllForTenant lists reconciliations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Reconciliation, error)

	// Save creates or updates a reconciliation and its lines
	Save(ctx context.Context, r *Reconciliation) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, r *Reconciliation) error
}

// ReturnAuthorizationRepository defines the interface for return authorization persistence
type ReturnAuthorizationRepository interface {
	// FindByIDForTenant finds a return authorization, with lines, by ID for a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReturnAuthorization, error)

	// FindByNumber finds a return authorization by its document number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ReturnAuthorization, error)

	// FindAllForTenant lists return authorizations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReturnAuthorization, error)

	// FindByStatus lists return authorizations in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ReturnAuthorizationStatus, filter shared.Filter) ([]ReturnAuthorization, error)

	// Save creates or updates a return authorization and its lines
	Save(ctx context.Context, rma *ReturnAuthorization) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, rma *ReturnAuthorization) error
}

// StockAdjustmentRepository defines the interface for the append-only
// adjustment log
type StockAdjustmentRepository interface {
	// Record appends an adjustment. Adjustments are never updated or deleted.
	Record(ctx context.Context, adj *StockAdjustment) error

	// FindBySource lists adjustments produced by one stock take or reconciliation
	FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]StockAdjustment, error)

	// FindByProduct lists adjustments affecting a product for a tenant
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)
}
