package handler

import (
	"context"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReturnHandler handles return authorization API endpoints
type ReturnHandler struct {
	BaseHandler
	service *workflow.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(service *workflow.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: service}
}

// Request godoc
// @ID           requestReturn
// @Summary      Request a return authorization
// @Description  Open a return authorization for goods coming back from a customer
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body workflow.CreateReturnRequest true "Return details"
// @Success      201 {object} APIResponse[workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns [post]
func (h *ReturnHandler) Request(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req workflow.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = getIdempotencyKey(c)

	rma, err := h.service.Request(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if rma.Replayed {
		h.Success(c, rma)
		return
	}
	h.Created(c, rma)
}

// List godoc
// @ID           listReturns
// @Summary      List return authorizations
// @Description  Retrieve a paginated list of return authorizations
// @Tags         returns
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        customer_ref query string false "Filter by customer reference"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
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

	rmas, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rmas)
}

// Get godoc
// @ID           getReturn
// @Summary      Get a return authorization
// @Description  Retrieve a return authorization by ID
// @Tags         returns
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Return Authorization ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns/{id} [get]
func (h *ReturnHandler) Get(c *gin.Context) {
	h.transition(c, h.service.Get)
}

// Approve godoc
// @ID           approveReturn
// @Summary      Approve a return authorization
// @Description  Approve the return with a disposition per line
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Return Authorization ID" format(uuid)
// @Param        request body workflow.ApproveReturnRequest true "Approver and dispositions"
// @Success      200 {object} APIResponse[workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return authorization ID")
		return
	}

	var req workflow.ApproveReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rma, err := h.service.Approve(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rma)
}

// Reject godoc
// @ID           rejectReturn
// @Summary      Reject a return authorization
// @Description  Reject a requested return with a reason
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Return Authorization ID" format(uuid)
// @Param        request body workflow.RejectRequest true "Rejection reason"
// @Success      200 {object} APIResponse[workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return authorization ID")
		return
	}

	var req workflow.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rma, err := h.service.Reject(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rma)
}

// Receive godoc
// @ID           receiveReturn
// @Summary      Receive returned goods
// @Description  Post inbound moves routing each line by its disposition
// @Tags         returns
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Return Authorization ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns/{id}/receive [post]
func (h *ReturnHandler) Receive(c *gin.Context) {
	h.transition(c, h.service.Receive)
}

// Cancel godoc
// @ID           cancelReturn
// @Summary      Cancel a return authorization
// @Description  Cancel a return that has not been received
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Return Authorization ID" format(uuid)
// @Param        request body workflow.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[workflow.ReturnAuthorizationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /returns/{id}/cancel [post]
func (h *ReturnHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return authorization ID")
		return
	}

	var req workflow.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rma, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rma)
}

func (h *ReturnHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*workflow.ReturnAuthorizationDTO, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return authorization ID")
		return
	}

	rma, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rma)
}
