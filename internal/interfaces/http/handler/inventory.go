package handler

import (
	"time"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseDateTime parses a datetime string in various formats
func parseDateTime(s string) (time.Time, error) {
	// Try RFC3339 first
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Try ISO date format
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	// Try datetime without timezone
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	// Default to RFC3339 parsing error
	return time.Parse(time.RFC3339, s)
}

// InventoryHandler handles inventory level, ledger and valuation endpoints
type InventoryHandler struct {
	BaseHandler
	levelService *inventoryapp.LevelService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(levelService *inventoryapp.LevelService) *InventoryHandler {
	return &InventoryHandler{levelService: levelService}
}

// GetLevel godoc
// @ID           getInventoryLevel
// @Summary      Get an inventory level
// @Description  Retrieve the level for a specific product, warehouse, location and lot
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        warehouse_id query string true "Warehouse ID" format(uuid)
// @Param        location_id query string true "Location ID" format(uuid)
// @Param        lot_ref query string false "Lot reference"
// @Success      200 {object} APIResponse[inventoryapp.LevelDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/levels/lookup [get]
func (h *InventoryHandler) GetLevel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req inventoryapp.BucketRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	level, err := h.levelService.GetLevel(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, level)
}

// ListLevels godoc
// @ID           listInventoryLevels
// @Summary      List inventory levels
// @Description  Retrieve a paginated list of inventory levels with optional filtering
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        location_id query string false "Filter by location" format(uuid)
// @Param        product_id query string false "Filter by product" format(uuid)
// @Param        lot_ref query string false "Filter by lot reference"
// @Param        below_minimum query boolean false "Only levels below their minimum threshold"
// @Param        has_stock query boolean false "Only levels with stock on hand"
// @Param        has_reservation query boolean false "Only levels with open reservations"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[inventoryapp.LevelListResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/levels [get]
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter, err := bindListFilter(c,
		"warehouse_id", "location_id", "product_id", "lot_ref",
		"below_minimum", "has_stock", "has_reservation")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.levelService.ListLevels(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Levels, result.Total, result.Page, result.PageSize)
}

// ProductSummary godoc
// @ID           getProductStockSummary
// @Summary      Get total on-hand stock for a product
// @Description  Sum on-hand quantity for a product across all buckets
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.ProductSummaryDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/products/{product_id}/summary [get]
func (h *InventoryHandler) ProductSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	summary, err := h.levelService.ProductSummary(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// MoveHistory godoc
// @ID           listStockMoves
// @Summary      List stock ledger history
// @Description  Retrieve the stock moves touching a bucket, newest first
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        warehouse_id query string false "Narrow to one warehouse" format(uuid)
// @Param        location_id query string false "Narrow to one location" format(uuid)
// @Param        lot_ref query string false "Narrow to one lot"
// @Param        since query string false "Moves at or after this time" format(date-time)
// @Param        until query string false "Moves before this time" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[inventoryapp.MoveListResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/moves [get]
func (h *InventoryHandler) MoveHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "product_id is required")
		return
	}

	req := inventoryapp.MoveHistoryRequest{
		ProductID: productID,
		LotRef:    c.Query("lot_ref"),
	}
	if v := c.Query("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid warehouse ID format")
			return
		}
		req.WarehouseID = id
	}
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		req.LocationID = id
	}
	if v := c.Query("since"); v != "" {
		t, err := parseDateTime(v)
		if err != nil {
			h.BadRequest(c, "Invalid since timestamp")
			return
		}
		req.Since = &t
	}
	if v := c.Query("until"); v != "" {
		t, err := parseDateTime(v)
		if err != nil {
			h.BadRequest(c, "Invalid until timestamp")
			return
		}
		req.Until = &t
	}

	page, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.levelService.MoveHistory(c.Request.Context(), tenantID, req, page)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Moves, result.Total, result.Page, result.PageSize)
}

// DocumentMoves godoc
// @ID           listDocumentMoves
// @Summary      List the moves a document produced
// @Description  Retrieve the ledger entries recorded by one document transition
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        document_type path string true "Document type" Enums(GoodsReceipt, DeliveryOrder, StockTransfer, StockTake, Reconciliation, ReturnAuthorization)
// @Param        document_id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.MoveDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/moves/{document_type}/{document_id} [get]
func (h *InventoryHandler) DocumentMoves(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	documentType := c.Param("document_type")
	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	moves, err := h.levelService.DocumentMoves(c.Request.Context(), tenantID, documentType, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, moves)
}

// Valuation godoc
// @ID           getInventoryValuation
// @Summary      Get the valuation of a bucket
// @Description  Retrieve the open cost layers and average cost of a valuation bucket
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        warehouse_id query string true "Warehouse ID" format(uuid)
// @Param        lot_ref query string false "Lot reference"
// @Success      200 {object} APIResponse[inventoryapp.ValuationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req inventoryapp.ValuationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	valuation, err := h.levelService.Valuation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, valuation)
}

// SetMinimum godoc
// @ID           setInventoryMinimum
// @Summary      Set the low stock threshold for a bucket
// @Description  Set the minimum quantity that triggers a below-minimum alert
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        request body inventoryapp.SetMinimumRequest true "Bucket and threshold"
// @Success      200 {object} APIResponse[inventoryapp.LevelDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/levels/minimum [put]
func (h *InventoryHandler) SetMinimum(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req inventoryapp.SetMinimumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	level, err := h.levelService.SetMinimum(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, level)
}
