package handler

import (
	"context"

	"github.com/wms/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconciliationHandler handles reconciliation API endpoints
type ReconciliationHandler struct {
	BaseHandler
	service *workflow.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *workflow.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// Create godoc
// @ID           createReconciliation
// @Summary      Create a reconciliation
// @Description  Open a classed reconciliation over a set of inventory buckets
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body workflow.CreateReconciliationRequest true "Reconciliation details"
// @Success      201 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations [post]
func (h *ReconciliationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req workflow.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.IdempotencyKey = getIdempotencyKey(c)

	recon, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if recon.Replayed {
		h.Success(c, recon)
		return
	}
	h.Created(c, recon)
}

// List godoc
// @ID           listReconciliations
// @Summary      List reconciliations
// @Description  Retrieve a paginated list of reconciliations
// @Tags         reconciliations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations [get]
func (h *ReconciliationHandler) List(c *gin.Context) {
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

	recons, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recons)
}

// Get godoc
// @ID           getReconciliation
// @Summary      Get a reconciliation
// @Description  Retrieve a reconciliation by ID
// @Tags         reconciliations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations/{id} [get]
func (h *ReconciliationHandler) Get(c *gin.Context) {
	h.transition(c, h.service.Get)
}

// StartCounting godoc
// @ID           startReconciliationCounting
// @Summary      Start counting
// @Description  Snapshot system quantities and open the count
// @Tags         reconciliations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations/{id}/start [post]
func (h *ReconciliationHandler) StartCounting(c *gin.Context) {
	h.transition(c, h.service.StartCounting)
}

// RecordCount godoc
// @ID           recordReconciliationCount
// @Summary      Record a counted line
// @Description  Record the physical count for one line of the reconciliation
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        request body workflow.CountRequest true "Counted quantity"
// @Success      200 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations/{id}/count [post]
func (h *ReconciliationHandler) RecordCount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	var req workflow.CountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	recon, err := h.service.RecordCount(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

// Review godoc
// @ID           reviewReconciliation
// @Summary      Review a counted reconciliation
// @Description  Sign off the counts; variances above the approval threshold require review
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        request body workflow.ReviewRequest true "Reviewer"
// @Success      200 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations/{id}/review [post]
func (h *ReconciliationHandler) Review(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	var req workflow.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	recon, err := h.service.Review(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

// Close godoc
// @ID           closeReconciliation
// @Summary      Close a reconciliation
// @Description  Post adjustment moves for every variance and close the document
// @Tags         reconciliations
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Success      200 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations/{id}/close [post]
func (h *ReconciliationHandler) Close(c *gin.Context) {
	h.transition(c, h.service.Close)
}

// Cancel godoc
// @ID           cancelReconciliation
// @Summary      Cancel a reconciliation
// @Description  Cancel a reconciliation that has not been closed
// @Tags         reconciliations
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Reconciliation ID" format(uuid)
// @Param        request body workflow.CancelRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[workflow.ReconciliationDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /reconciliations/{id}/cancel [post]
func (h *ReconciliationHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	var req workflow.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	recon, err := h.service.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}

func (h *ReconciliationHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, tenantID, id uuid.UUID) (*workflow.ReconciliationDTO, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reconciliation ID")
		return
	}

	recon, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, recon)
}
