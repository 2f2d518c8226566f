package handler

import (
	"context"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoodsReceiptHandler handles goods receipt API endpoints
type GoodsReceiptHandler struct {
	BaseHandler
	service *workflow.GoodsReceiptService
}

// NewGoodsReceiptHandler creates a new GoodsReceiptHandler
func NewGoodsReceiptHandler(service *workflow.GoodsReceiptService) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{service: service}
}

// Create godoc
// @ID           createGoodsReceipt
// @Summary      Create a goods receipt
// @Description  Create a draft goods receipt for inbound stock
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body workflow.CreateGoodsReceiptRequest true "Receipt details"
// @Success      201 {object} APIResponse[workflow.GoodsReceiptDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /receipts [post]
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req workflow.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = getIdempotencyKey(c)

	receipt, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if receipt.Replayed {
		h.Success(c, receipt)
		return
	}
	h.Created(c, receipt)
}

// List godoc
// @ID           listGoodsReceipts
// @Summary      List goods receipts
// @Description  Retrieve a paginated list of goods receipts
// @Tags         receipts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        supplier_ref query string false "Filter by supplier reference"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]workflow.GoodsReceiptDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /receipts [get]
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter, err := bindListFilter(c, "status", "warehouse_id", "supplier_ref")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipts, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipts)
}

// Get godoc
// @ID           getGoodsReceipt
// @Summary      Get a goods receipt
// @Description  Retrieve a goods receipt by ID
// @Tags         receipts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.GoodsReceiptDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /receipts/{id} [get]
func (h *GoodsReceiptHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Confirm godoc
// @ID           confirmGoodsReceipt
// @Summary      Confirm a goods receipt
// @Description  Move a draft receipt to confirmed, freezing its lines
// @Tags         receipts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.GoodsReceiptDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /receipts/{id}/confirm [post]
func (h *GoodsReceiptHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

// Complete godoc
// @ID           completeGoodsReceipt
// @Summary      Complete a goods receipt
// @Description  Post the receipt to the stock ledger and open cost layers
// @Tags         receipts
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.GoodsReceiptDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /receipts/{id}/complete [post]
func (h *GoodsReceiptHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Cancel godoc
// @ID           cancelGoodsReceipt
// @Summary      Cancel a goods receipt
// @Description  Cancel a receipt that has not been completed
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Param        request body workflow.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[workflow.GoodsReceiptDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /receipts/{id}/cancel [post]
func (h *GoodsReceiptHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req workflow.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

func (h *GoodsReceiptHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*workflow.GoodsReceiptDTO, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}
