package handler

import (
	"context"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeliveryOrderHandler handles delivery order API endpoints
type DeliveryOrderHandler struct {
	BaseHandler
	service *workflow.DeliveryOrderService
}

// NewDeliveryOrderHandler creates a new DeliveryOrderHandler
func NewDeliveryOrderHandler(service *workflow.DeliveryOrderService) *DeliveryOrderHandler {
	return &DeliveryOrderHandler{service: service}
}

// Create godoc
// @ID           createDeliveryOrder
// @Summary      Create a delivery order
// @Description  Create a draft delivery order for outbound stock
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body workflow.CreateDeliveryOrderRequest true "Delivery details"
// @Success      201 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries [post]
func (h *DeliveryOrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req workflow.CreateDeliveryOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = getIdempotencyKey(c)

	order, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if order.Replayed {
		h.Success(c, order)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listDeliveryOrders
// @Summary      List delivery orders
// @Description  Retrieve a paginated list of delivery orders
// @Tags         deliveries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        customer_ref query string false "Filter by customer reference"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries [get]
func (h *DeliveryOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter, err := bindListFilter(c, "status", "warehouse_id", "customer_ref")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// Get godoc
// @ID           getDeliveryOrder
// @Summary      Get a delivery order
// @Description  Retrieve a delivery order by ID
// @Tags         deliveries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Delivery Order ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries/{id} [get]
func (h *DeliveryOrderHandler) Get(c *gin.Context) {
	h.transition(c, h.service.Get)
}

// Reserve godoc
// @ID           reserveDeliveryOrder
// @Summary      Reserve stock for a delivery order
// @Description  Reserve available stock for every line of the order
// @Tags         deliveries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Delivery Order ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries/{id}/reserve [post]
func (h *DeliveryOrderHandler) Reserve(c *gin.Context) {
	h.transition(c, h.service.Reserve)
}

// Pick godoc
// @ID           pickDeliveryOrder
// @Summary      Record picked quantities
// @Description  Record picked quantities for the reserved lines
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Delivery Order ID" format(uuid)
// @Param        request body workflow.PickRequest true "Picked quantities keyed by line ID"
// @Success      200 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries/{id}/pick [post]
func (h *DeliveryOrderHandler) Pick(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery order ID")
		return
	}

	var req workflow.PickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.Pick(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Pack godoc
// @ID           packDeliveryOrder
// @Summary      Pack a delivery order
// @Description  Move a picked order to packed
// @Tags         deliveries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Delivery Order ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries/{id}/pack [post]
func (h *DeliveryOrderHandler) Pack(c *gin.Context) {
	h.transition(c, h.service.Pack)
}

// Ship godoc
// @ID           shipDeliveryOrder
// @Summary      Ship a delivery order
// @Description  Post the outbound moves, consume cost layers and record COGS
// @Tags         deliveries
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Delivery Order ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries/{id}/ship [post]
func (h *DeliveryOrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.service.Ship)
}

// Cancel godoc
// @ID           cancelDeliveryOrder
// @Summary      Cancel a delivery order
// @Description  Cancel an order that has not shipped, releasing reservations
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Delivery Order ID" format(uuid)
// @Param        request body workflow.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[workflow.DeliveryOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /deliveries/{id}/cancel [post]
func (h *DeliveryOrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery order ID")
		return
	}

	var req workflow.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

func (h *DeliveryOrderHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*workflow.DeliveryOrderDTO, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid delivery order ID")
		return
	}

	order, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
