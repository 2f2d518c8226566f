package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/ledger"
)

// DocumentType identifies a workflow document family
type DocumentType string

const (
	DocumentTypeGoodsReceipt        DocumentType = "GOODS_RECEIPT"
	DocumentTypeDeliveryOrder       DocumentType = "DELIVERY_ORDER"
	DocumentTypeStockTransfer       DocumentType = "STOCK_TRANSFER"
	DocumentTypeStockTake           DocumentType = "STOCK_TAKE"
	DocumentTypeReconciliation      DocumentType = "RECONCILIATION"
	DocumentTypeReturnAuthorization DocumentType = "RETURN_AUTHORIZATION"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeGoodsReceipt, DocumentTypeDeliveryOrder, DocumentTypeStockTransfer,
		DocumentTypeStockTake, DocumentTypeReconciliation, DocumentTypeReturnAuthorization:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// NumberPrefix returns the document number prefix for this type
func (t DocumentType) NumberPrefix() string {
	switch t {
	case DocumentTypeGoodsReceipt:
		return "GRN"
	case DocumentTypeDeliveryOrder:
		return "DO"
	case DocumentTypeStockTransfer:
		return "TRF"
	case DocumentTypeStockTake:
		return "STK"
	case DocumentTypeReconciliation:
		return "RCN"
	case DocumentTypeReturnAuthorization:
		return "RMA"
	}
	return ""
}

// Ref builds the ledger document reference for a document of this type
func (t DocumentType) Ref(documentID uuid.UUID, documentNumber string, lineID uuid.UUID) ledger.DocumentRef {
	return ledger.DocumentRef{
		DocumentType:   t.String(),
		DocumentID:     documentID,
		DocumentNumber: documentNumber,
		LineID:         lineID,
	}
}

// LineEffect describes the stock effect of one document line at a committed
// transition. It is carried on completion events so downstream consumers see
// line-level movements without replaying the ledger.
type LineEffect struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	LotRef      string          `json:"lot_ref,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	MoveID      uuid.UUID       `json:"move_id"`
}
