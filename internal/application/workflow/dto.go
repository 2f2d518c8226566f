package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/document"
)

// CreateGoodsReceiptRequest creates a draft goods receipt
type CreateGoodsReceiptRequest struct {
	IdempotencyKey string                    `json:"-"`
	SupplierRef    string                    `json:"supplier_ref" binding:"max=100"`
	WarehouseID    uuid.UUID                 `json:"warehouse_id" binding:"required"`
	LocationID     uuid.UUID                 `json:"location_id" binding:"required"`
	Remark         string                    `json:"remark" binding:"max=255"`
	Lines          []GoodsReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// GoodsReceiptLineRequest is one requested receipt line
type GoodsReceiptLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
	LotRef    string          `json:"lot_ref" binding:"max=50"`
}

// GoodsReceiptLineDTO represents a receipt line
type GoodsReceiptLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LotRef    string          `json:"lot_ref,omitempty"`
}

// GoodsReceiptDTO represents a goods receipt
type GoodsReceiptDTO struct {
	ID            uuid.UUID             `json:"id"`
	ReceiptNumber string                `json:"receipt_number"`
	SupplierRef   string                `json:"supplier_ref,omitempty"`
	WarehouseID   uuid.UUID             `json:"warehouse_id"`
	LocationID    uuid.UUID             `json:"location_id"`
	Status        string                `json:"status"`
	Remark        string                `json:"remark,omitempty"`
	Lines         []GoodsReceiptLineDTO `json:"lines"`
	ConfirmedAt   *time.Time            `json:"confirmed_at,omitempty"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	// Replayed is true when the response was reconstructed from a previous
	// run of the same idempotent operation
	Replayed bool `json:"replayed,omitempty"`
}

func toGoodsReceiptDTO(grn *document.GoodsReceipt, replayed bool) *GoodsReceiptDTO {
	lines := make([]GoodsReceiptLineDTO, 0, len(grn.Lines))
	for _, l := range grn.Lines {
		lines = append(lines, GoodsReceiptLineDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			LotRef:    l.LotRef,
		})
	}
	return &GoodsReceiptDTO{
		ID:            grn.ID,
		ReceiptNumber: grn.ReceiptNumber,
		SupplierRef:   grn.SupplierRef,
		WarehouseID:   grn.WarehouseID,
		LocationID:    grn.LocationID,
		Status:        grn.Status.String(),
		Remark:        grn.Remark,
		Lines:         lines,
		ConfirmedAt:   grn.ConfirmedAt,
		CompletedAt:   grn.CompletedAt,
		CancelledAt:   grn.CancelledAt,
		CreatedAt:     grn.CreatedAt,
		UpdatedAt:     grn.UpdatedAt,
		Replayed:      replayed,
	}
}

// CreateDeliveryOrderRequest creates a delivery order
type CreateDeliveryOrderRequest struct {
	IdempotencyKey string                     `json:"-"`
	OrderRef       string                     `json:"order_ref" binding:"max=100"`
	CustomerRef    string                     `json:"customer_ref" binding:"max=100"`
	WarehouseID    uuid.UUID                  `json:"warehouse_id" binding:"required"`
	LocationID     uuid.UUID                  `json:"location_id" binding:"required"`
	Remark         string                     `json:"remark" binding:"max=255"`
	Lines          []DeliveryOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// DeliveryOrderLineRequest is one requested delivery line
type DeliveryOrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	LotRef    string          `json:"lot_ref" binding:"max=50"`
}

// PickRequest records picked quantities keyed by line id
type PickRequest struct {
	Picks map[uuid.UUID]decimal.Decimal `json:"picks" binding:"required"`
}

// DeliveryOrderLineDTO represents a delivery order line
type DeliveryOrderLineDTO struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	PickedQuantity decimal.Decimal `json:"picked_quantity"`
	LotRef         string          `json:"lot_ref,omitempty"`
}

// DeliveryOrderDTO represents a delivery order
type DeliveryOrderDTO struct {
	ID             uuid.UUID              `json:"id"`
	DeliveryNumber string                 `json:"delivery_number"`
	OrderRef       string                 `json:"order_ref,omitempty"`
	CustomerRef    string                 `json:"customer_ref,omitempty"`
	WarehouseID    uuid.UUID              `json:"warehouse_id"`
	LocationID     uuid.UUID              `json:"location_id"`
	Status         string                 `json:"status"`
	Remark         string                 `json:"remark,omitempty"`
	Lines          []DeliveryOrderLineDTO `json:"lines"`
	TotalCOGS      *decimal.Decimal       `json:"total_cogs,omitempty"`
	ReservedAt     *time.Time             `json:"reserved_at,omitempty"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Replayed       bool                   `json:"replayed,omitempty"`
}

func toDeliveryOrderDTO(do *document.DeliveryOrder, replayed bool) *DeliveryOrderDTO {
	lines := make([]DeliveryOrderLineDTO, 0, len(do.Lines))
	for _, l := range do.Lines {
		lines = append(lines, DeliveryOrderLineDTO{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			PickedQuantity: l.PickedQuantity,
			LotRef:         l.LotRef,
		})
	}
	return &DeliveryOrderDTO{
		ID:             do.ID,
		DeliveryNumber: do.DeliveryNumber,
		OrderRef:       do.OrderRef,
		CustomerRef:    do.CustomerRef,
		WarehouseID:    do.WarehouseID,
		LocationID:     do.LocationID,
		Status:         do.Status.String(),
		Remark:         do.Remark,
		Lines:          lines,
		ReservedAt:     do.ReservedAt,
		ShippedAt:      do.ShippedAt,
		CancelledAt:    do.CancelledAt,
		CreatedAt:      do.CreatedAt,
		UpdatedAt:      do.UpdatedAt,
		Replayed:       replayed,
	}
}

// CreateStockTransferRequest creates a stock transfer
type CreateStockTransferRequest struct {
	IdempotencyKey string                     `json:"-"`
	SourceWhID     uuid.UUID                  `json:"source_warehouse_id" binding:"required"`
	SourceLocID    uuid.UUID                  `json:"source_location_id" binding:"required"`
	DestWhID       uuid.UUID                  `json:"dest_warehouse_id" binding:"required"`
	DestLocID      uuid.UUID                  `json:"dest_location_id" binding:"required"`
	Remark         string                     `json:"remark" binding:"max=255"`
	Lines          []StockTransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StockTransferLineRequest is one requested transfer line
type StockTransferLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	LotRef    string          `json:"lot_ref" binding:"max=50"`
}

// StockTransferLineDTO represents a transfer line
type StockTransferLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	LotRef    string          `json:"lot_ref,omitempty"`
}

// StockTransferDTO represents a stock transfer
type StockTransferDTO struct {
	ID             uuid.UUID              `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	SourceWhID     uuid.UUID              `json:"source_warehouse_id"`
	SourceLocID    uuid.UUID              `json:"source_location_id"`
	DestWhID       uuid.UUID              `json:"dest_warehouse_id"`
	DestLocID      uuid.UUID              `json:"dest_location_id"`
	Status         string                 `json:"status"`
	Remark         string                 `json:"remark,omitempty"`
	Lines          []StockTransferLineDTO `json:"lines"`
	DispatchedAt   *time.Time             `json:"dispatched_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Replayed       bool                   `json:"replayed,omitempty"`
}

func toStockTransferDTO(st *document.StockTransfer, replayed bool) *StockTransferDTO {
	lines := make([]StockTransferLineDTO, 0, len(st.Lines))
	for _, l := range st.Lines {
		lines = append(lines, StockTransferLineDTO{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			LotRef:    l.LotRef,
		})
	}
	return &StockTransferDTO{
		ID:             st.ID,
		TransferNumber: st.TransferNumber,
		SourceWhID:     st.SourceWhID,
		SourceLocID:    st.SourceLocID,
		DestWhID:       st.DestWhID,
		DestLocID:      st.DestLocID,
		Status:         st.Status.String(),
		Remark:         st.Remark,
		Lines:          lines,
		DispatchedAt:   st.DispatchedAt,
		ReceivedAt:     st.ReceivedAt,
		CancelledAt:    st.CancelledAt,
		CreatedAt:      st.CreatedAt,
		UpdatedAt:      st.UpdatedAt,
		Replayed:       replayed,
	}
}

// CreateStockTakeRequest creates a stock take over a set of buckets
type CreateStockTakeRequest struct {
	IdempotencyKey string                 `json:"-"`
	WarehouseID    uuid.UUID              `json:"warehouse_id" binding:"required"`
	Remark         string                 `json:"remark" binding:"max=255"`
	Lines          []StockTakeLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StockTakeLineRequest names one bucket to count
type StockTakeLineRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	LotRef     string    `json:"lot_ref" binding:"max=50"`
}

// CountRequest records one counted line
type CountRequest struct {
	LineID    uuid.UUID       `json:"line_id" binding:"required"`
	Counted   decimal.Decimal `json:"counted" binding:"required"`
	CountedBy string          `json:"counted_by" binding:"max=100"`
}

// ApproveRequest signs off a count
type ApproveRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,max=100"`
}

// StockTakeLineDTO represents a stock take line
type StockTakeLineDTO struct {
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	LocationID      uuid.UUID        `json:"location_id"`
	LotRef          string           `json:"lot_ref,omitempty"`
	SystemQuantity  decimal.Decimal  `json:"system_quantity"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity,omitempty"`
	Variance        decimal.Decimal  `json:"variance"`
}

// StockTakeDTO represents a stock take
type StockTakeDTO struct {
	ID          uuid.UUID          `json:"id"`
	TakeNumber  string             `json:"take_number"`
	WarehouseID uuid.UUID          `json:"warehouse_id"`
	Status      string             `json:"status"`
	Remark      string             `json:"remark,omitempty"`
	ApprovedBy  string             `json:"approved_by,omitempty"`
	Lines       []StockTakeLineDTO `json:"lines"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Replayed    bool               `json:"replayed,omitempty"`
}

func toStockTakeDTO(st *document.StockTake, replayed bool) *StockTakeDTO {
	lines := make([]StockTakeLineDTO, 0, len(st.Lines))
	for _, l := range st.Lines {
		lines = append(lines, StockTakeLineDTO{
			ID:              l.ID,
			ProductID:       l.ProductID,
			LocationID:      l.LocationID,
			LotRef:          l.LotRef,
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
			Variance:        l.Variance(),
		})
	}
	return &StockTakeDTO{
		ID:          st.ID,
		TakeNumber:  st.TakeNumber,
		WarehouseID: st.WarehouseID,
		Status:      st.Status.String(),
		Remark:      st.Remark,
		ApprovedBy:  st.ApprovedBy,
		Lines:       lines,
		StartedAt:   st.StartedAt,
		CompletedAt: st.CompletedAt,
		CancelledAt: st.CancelledAt,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
		Replayed:    replayed,
	}
}

// CreateReconciliationRequest opens a reconciliation over a set of buckets
type CreateReconciliationRequest struct {
	IdempotencyKey string                      `json:"-"`
	WarehouseID    uuid.UUID                   `json:"warehouse_id" binding:"required"`
	Remark         string                      `json:"remark" binding:"max=255"`
	Lines          []ReconciliationLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReconciliationLineRequest names one bucket to reconcile. Class is
// optional; buckets without one are classified by their share of system
// value when the reconciliation opens.
type ReconciliationLineRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	LotRef     string    `json:"lot_ref" binding:"max=50"`
	Class      string    `json:"class" binding:"omitempty,oneof=A B C"`
}

// ReviewRequest signs off a reconciliation count
type ReviewRequest struct {
	ReviewedBy string `json:"reviewed_by" binding:"required,max=100"`
}

// ReconciliationLineDTO represents a reconciliation line
type ReconciliationLineDTO struct {
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	LocationID      uuid.UUID        `json:"location_id"`
	LotRef          string           `json:"lot_ref,omitempty"`
	Class           string           `json:"class"`
	SystemQuantity  decimal.Decimal  `json:"system_quantity"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity,omitempty"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	Variance        decimal.Decimal  `json:"variance"`
	VarianceValue   decimal.Decimal  `json:"variance_value"`
}

// ReconciliationDTO represents a reconciliation
type ReconciliationDTO struct {
	ID                 uuid.UUID               `json:"id"`
	ReconNumber        string                  `json:"recon_number"`
	WarehouseID        uuid.UUID               `json:"warehouse_id"`
	Status             string                  `json:"status"`
	Remark             string                  `json:"remark,omitempty"`
	ReviewedBy         string                  `json:"reviewed_by,omitempty"`
	TotalVarianceValue decimal.Decimal         `json:"total_variance_value"`
	Lines              []ReconciliationLineDTO `json:"lines"`
	StartedAt          *time.Time              `json:"started_at,omitempty"`
	ReviewedAt         *time.Time              `json:"reviewed_at,omitempty"`
	ClosedAt           *time.Time              `json:"closed_at,omitempty"`
	CancelledAt        *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	Replayed           bool                    `json:"replayed,omitempty"`
}

func toReconciliationDTO(r *document.Reconciliation, replayed bool) *ReconciliationDTO {
	lines := make([]ReconciliationLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, ReconciliationLineDTO{
			ID:              l.ID,
			ProductID:       l.ProductID,
			LocationID:      l.LocationID,
			LotRef:          l.LotRef,
			Class:           string(l.Class),
			SystemQuantity:  l.SystemQuantity,
			CountedQuantity: l.CountedQuantity,
			UnitCost:        l.UnitCost,
			Variance:        l.Variance(),
			VarianceValue:   l.VarianceValue(),
		})
	}
	return &ReconciliationDTO{
		ID:                 r.ID,
		ReconNumber:        r.ReconNumber,
		WarehouseID:        r.WarehouseID,
		Status:             r.Status.String(),
		Remark:             r.Remark,
		ReviewedBy:         r.ReviewedBy,
		TotalVarianceValue: r.TotalVarianceValue(),
		Lines:              lines,
		StartedAt:          r.StartedAt,
		ReviewedAt:         r.ReviewedAt,
		ClosedAt:           r.ClosedAt,
		CancelledAt:        r.CancelledAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Replayed:           replayed,
	}
}

// CreateReturnRequest opens a return authorization
type CreateReturnRequest struct {
	IdempotencyKey string              `json:"-"`
	CustomerRef    string              `json:"customer_ref" binding:"max=100"`
	DeliveryRef    string              `json:"delivery_ref" binding:"max=100"`
	WarehouseID    uuid.UUID           `json:"warehouse_id" binding:"required"`
	LocationID     uuid.UUID           `json:"location_id" binding:"required"`
	Remark         string              `json:"remark" binding:"max=255"`
	Lines          []ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReturnLineRequest is one requested return line
type ReturnLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
	LotRef    string          `json:"lot_ref" binding:"max=50"`
	Reason    string          `json:"reason" binding:"max=255"`
}

// ApproveReturnRequest approves a return with per-line dispositions
type ApproveReturnRequest struct {
	ApprovedBy   string               `json:"approved_by" binding:"required,max=100"`
	Dispositions map[uuid.UUID]string `json:"dispositions"`
}

// RejectRequest rejects a return request
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// CancelRequest cancels a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ReturnLineDTO represents a return authorization line
type ReturnLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LotRef      string          `json:"lot_ref,omitempty"`
	Disposition string          `json:"disposition"`
	Reason      string          `json:"reason,omitempty"`
}

// ReturnAuthorizationDTO represents a return authorization
type ReturnAuthorizationDTO struct {
	ID           uuid.UUID       `json:"id"`
	ReturnNumber string          `json:"return_number"`
	CustomerRef  string          `json:"customer_ref,omitempty"`
	DeliveryRef  string          `json:"delivery_ref,omitempty"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Status       string          `json:"status"`
	Remark       string          `json:"remark,omitempty"`
	ApprovedBy   string          `json:"approved_by,omitempty"`
	Lines        []ReturnLineDTO `json:"lines"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	RejectedAt   *time.Time      `json:"rejected_at,omitempty"`
	ReceivedAt   *time.Time      `json:"received_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Replayed     bool            `json:"replayed,omitempty"`
}

func toReturnDTO(rma *document.ReturnAuthorization, replayed bool) *ReturnAuthorizationDTO {
	lines := make([]ReturnLineDTO, 0, len(rma.Lines))
	for _, l := range rma.Lines {
		lines = append(lines, ReturnLineDTO{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			LotRef:      l.LotRef,
			Disposition: string(l.Disposition),
			Reason:      l.Reason,
		})
	}
	return &ReturnAuthorizationDTO{
		ID:           rma.ID,
		ReturnNumber: rma.ReturnNumber,
		CustomerRef:  rma.CustomerRef,
		DeliveryRef:  rma.DeliveryRef,
		WarehouseID:  rma.WarehouseID,
		LocationID:   rma.LocationID,
		Status:       rma.Status.String(),
		Remark:       rma.Remark,
		ApprovedBy:   rma.ApprovedBy,
		Lines:        lines,
		ApprovedAt:   rma.ApprovedAt,
		RejectedAt:   rma.RejectedAt,
		ReceivedAt:   rma.ReceivedAt,
		CancelledAt:  rma.CancelledAt,
		CreatedAt:    rma.CreatedAt,
		UpdatedAt:    rma.UpdatedAt,
		Replayed:     replayed,
	}
}
