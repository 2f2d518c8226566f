package handler

import (
	"context"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockTransferHandler handles stock transfer API endpoints
type StockTransferHandler struct {
	BaseHandler
	service *workflow.StockTransferService
}

// NewStockTransferHandler creates a new StockTransferHandler
func NewStockTransferHandler(service *workflow.StockTransferService) *StockTransferHandler {
	return &StockTransferHandler{service: service}
}

// Create godoc
// @ID           createStockTransfer
// @Summary      Create a stock transfer
// @Description  Create a draft transfer between two locations
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body workflow.CreateStockTransferRequest true "Transfer details"
// @Success      201 {object} APIResponse[workflow.StockTransferDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfers [post]
func (h *StockTransferHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req workflow.CreateStockTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = getIdempotencyKey(c)

	transfer, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if transfer.Replayed {
		h.Success(c, transfer)
		return
	}
	h.Created(c, transfer)
}

// List godoc
// @ID           listStockTransfers
// @Summary      List stock transfers
// @Description  Retrieve a paginated list of stock transfers
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        source_warehouse_id query string false "Filter by source warehouse" format(uuid)
// @Param        dest_warehouse_id query string false "Filter by destination warehouse" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]workflow.StockTransferDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfers [get]
func (h *StockTransferHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter, err := bindListFilter(c, "status", "source_warehouse_id", "dest_warehouse_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfers, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfers)
}

// Get godoc
// @ID           getStockTransfer
// @Summary      Get a stock transfer
// @Description  Retrieve a stock transfer by ID
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.StockTransferDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfers/{id} [get]
func (h *StockTransferHandler) Get(c *gin.Context) {
	h.transition(c, h.service.Get)
}

// Dispatch godoc
// @ID           dispatchStockTransfer
// @Summary      Dispatch a stock transfer
// @Description  Move stock from the source location into transit
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.StockTransferDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfers/{id}/dispatch [post]
func (h *StockTransferHandler) Dispatch(c *gin.Context) {
	h.transition(c, h.service.Dispatch)
}

// Receive godoc
// @ID           receiveStockTransfer
// @Summary      Receive a stock transfer
// @Description  Move in-transit stock into the destination location
// @Tags         transfers
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.StockTransferDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfers/{id}/receive [post]
func (h *StockTransferHandler) Receive(c *gin.Context) {
	h.transition(c, h.service.Receive)
}

// Cancel godoc
// @ID           cancelStockTransfer
// @Summary      Cancel a stock transfer
// @Description  Cancel a transfer that has not been dispatched
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Transfer ID" format(uuid)
// @Param        request body workflow.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[workflow.StockTransferDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /transfers/{id}/cancel [post]
func (h *StockTransferHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req workflow.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

func (h *StockTransferHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*workflow.StockTransferDTO, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	transfer, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}
