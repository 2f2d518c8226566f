package handler

import (
	"context"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockTakeHandler handles stock take API endpoints
type StockTakeHandler struct {
	BaseHandler
	service *workflow.StockTakeService
}

// NewStockTakeHandler creates a new StockTakeHandler
func NewStockTakeHandler(service *workflow.StockTakeService) *StockTakeHandler {
	return &StockTakeHandler{service: service}
}

// Create godoc
// @ID           createStockTake
// @Summary      Create a stock take
// @Description  Open a stock take over a set of inventory buckets
// @Tags         stock-takes
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body workflow.CreateStockTakeRequest true "Stock take details"
// @Success      201 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes [post]
func (h *StockTakeHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req workflow.CreateStockTakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = getIdempotencyKey(c)

	stockTake, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if stockTake.Replayed {
		h.Success(c, stockTake)
		return
	}
	h.Created(c, stockTake)
}

// List godoc
// @ID           listStockTakes
// @Summary      List stock takes
// @Description  Retrieve a paginated list of stock takes
// @Tags         stock-takes
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes [get]
func (h *StockTakeHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter, err := bindListFilter(c, "status", "warehouse_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stockTakes, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stockTakes)
}

// Get godoc
// @ID           getStockTake
// @Summary      Get a stock take
// @Description  Retrieve a stock take by ID
// @Tags         stock-takes
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Stock Take ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes/{id} [get]
func (h *StockTakeHandler) Get(c *gin.Context) {
	h.transition(c, h.service.Get)
}

// Start godoc
// @ID           startStockTake
// @Summary      Start counting
// @Description  Snapshot system quantities and open the count
// @Tags         stock-takes
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Stock Take ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes/{id}/start [post]
func (h *StockTakeHandler) Start(c *gin.Context) {
	h.transition(c, h.service.Start)
}

// RecordCount godoc
// @ID           recordStockTakeCount
// @Summary      Record a counted line
// @Description  Record the physical count for one line of the stock take
// @Tags         stock-takes
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Stock Take ID" format(uuid)
// @Param        request body workflow.CountRequest true "Counted quantity"
// @Success      200 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes/{id}/count [post]
func (h *StockTakeHandler) RecordCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock take ID")
		return
	}

	var req workflow.CountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stockTake, err := h.service.RecordCount(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stockTake)
}

// Approve godoc
// @ID           approveStockTake
// @Summary      Approve a counted stock take
// @Description  Sign off the recorded counts before posting corrections
// @Tags         stock-takes
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Stock Take ID" format(uuid)
// @Param        request body workflow.ApproveRequest true "Approver"
// @Success      200 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes/{id}/approve [post]
func (h *StockTakeHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock take ID")
		return
	}

	var req workflow.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stockTake, err := h.service.Approve(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stockTake)
}

// Complete godoc
// @ID           completeStockTake
// @Summary      Complete a stock take
// @Description  Post correction moves for every variance and close the take
// @Tags         stock-takes
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Stock Take ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes/{id}/complete [post]
func (h *StockTakeHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Cancel godoc
// @ID           cancelStockTake
// @Summary      Cancel a stock take
// @Description  Cancel a stock take that has not been completed
// @Tags         stock-takes
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Stock Take ID" format(uuid)
// @Param        request body workflow.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[workflow.StockTakeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /stock-takes/{id}/cancel [post]
func (h *StockTakeHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock take ID")
		return
	}

	var req workflow.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stockTake, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stockTake)
}

func (h *StockTakeHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*workflow.StockTakeDTO, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock take ID")
		return
	}

	stockTake, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stockTake)
}
