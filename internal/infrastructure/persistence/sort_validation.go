package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// InventoryLevelSortFields contains allowed sort fields for inventory levels
var InventoryLevelSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"product_id":   true,
	"warehouse_id": true,
	"location_id":  true,
	"lot_ref":      true,
	"on_hand":      true,
	"reserved":     true,
	"min_quantity": true,
}

// StockMoveSortFields contains allowed sort fields for the move ledger
var StockMoveSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"product_id": true,
	"quantity":   true,
	"unit_cost":  true,
	"lot_ref":    true,
}

// DocumentSortFields contains allowed sort fields shared by the document tables
var DocumentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

// GoodsReceiptSortFields contains allowed sort fields for goods receipts
var GoodsReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"supplier_ref":   true,
	"warehouse_id":   true,
	"status":         true,
	"completed_at":   true,
}

// DeliveryOrderSortFields contains allowed sort fields for delivery orders
var DeliveryOrderSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"delivery_number": true,
	"order_ref":       true,
	"customer_ref":    true,
	"warehouse_id":    true,
	"status":          true,
	"shipped_at":      true,
}

// StockTransferSortFields contains allowed sort fields for stock transfers
var StockTransferSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"transfer_number": true,
	"source_wh_id":    true,
	"dest_wh_id":      true,
	"status":          true,
	"dispatched_at":   true,
	"received_at":     true,
}

// StockTakeSortFields contains allowed sort fields for stock takes
var StockTakeSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"take_number":  true,
	"warehouse_id": true,
	"status":       true,
	"completed_at": true,
}

// ReconciliationSortFields contains allowed sort fields for reconciliations
var ReconciliationSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"recon_number": true,
	"warehouse_id": true,
	"status":       true,
	"closed_at":    true,
}

// ReturnAuthorizationSortFields contains allowed sort fields for return authorizations
var ReturnAuthorizationSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"return_number": true,
	"customer_ref":  true,
	"warehouse_id":  true,
	"status":        true,
	"received_at":   true,
}

// StockAdjustmentSortFields contains allowed sort fields for the adjustment log
var StockAdjustmentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"product_id":   true,
	"warehouse_id": true,
	"quantity":     true,
	"source_type":  true,
}
