package handler

import (
	automationapp "github.com/agencyos/backend/internal/application/automation"
	"github.com/gin-gonic/gin"
)

// FlowHandler handles automation flow API endpoints
type FlowHandler struct {
	BaseHandler
	flowService *automationapp.FlowService
}

// NewFlowHandler creates a new FlowHandler
func NewFlowHandler(flowService *automationapp.FlowService) *FlowHandler {
	return &FlowHandler{
		flowService: flowService,
	}
}

// Create creates a new automation flow in draft.
// POST /api/v1/automation/flows
func (h *FlowHandler) Create(c *gin.Context) {
	var req automationapp.CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	flow, err := h.flowService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, flow)
}

// GetByID retrieves a flow with its steps.
// GET /api/v1/automation/flows/:id
func (h *FlowHandler) GetByID(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	flow, err := h.flowService.GetByID(c.Request.Context(), flowID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// List lists flows with filtering and pagination.
// GET /api/v1/automation/flows
func (h *FlowHandler) List(c *gin.Context) {
	var filter automationapp.FlowListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	flows, total, err := h.flowService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, flows, total, filter.Page, filter.PageSize)
}

// Update updates a flow's name and description.
// PUT /api/v1/automation/flows/:id
func (h *FlowHandler) Update(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	var req automationapp.UpdateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	flow, err := h.flowService.Update(c.Request.Context(), flowID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// AddStep appends a step referencing an approved email template.
// POST /api/v1/automation/flows/:id/steps
func (h *FlowHandler) AddStep(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	var req automationapp.AddFlowStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	flow, err := h.flowService.AddStep(c.Request.Context(), flowID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// UpdateStep changes a step's delay.
// PUT /api/v1/automation/flows/:id/steps/:stepId
func (h *FlowHandler) UpdateStep(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}
	stepID, err := parseIDParam(c, "stepId")
	if err != nil {
		h.BadRequest(c, "Invalid step ID format")
		return
	}

	var req automationapp.UpdateFlowStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	flow, err := h.flowService.UpdateStep(c.Request.Context(), flowID, stepID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// RemoveStep removes a step from a draft or paused flow.
// DELETE /api/v1/automation/flows/:id/steps/:stepId
func (h *FlowHandler) RemoveStep(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}
	stepID, err := parseIDParam(c, "stepId")
	if err != nil {
		h.BadRequest(c, "Invalid step ID format")
		return
	}

	flow, err := h.flowService.RemoveStep(c.Request.Context(), flowID, stepID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// Activate starts a flow so clients can be enrolled.
// POST /api/v1/automation/flows/:id/activate
func (h *FlowHandler) Activate(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	flow, err := h.flowService.Activate(c.Request.Context(), flowID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// Pause pauses an active flow; pending enrollments stop advancing.
// POST /api/v1/automation/flows/:id/pause
func (h *FlowHandler) Pause(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	flow, err := h.flowService.Pause(c.Request.Context(), flowID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flow)
}

// Enroll enrolls a client into an active flow.
// POST /api/v1/automation/flows/:id/enrollments
func (h *FlowHandler) Enroll(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	var req automationapp.EnrollClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	enrollment, err := h.flowService.Enroll(c.Request.Context(), flowID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, enrollment)
}

// ListEnrollments lists a flow's enrollments.
// GET /api/v1/automation/flows/:id/enrollments
func (h *FlowHandler) ListEnrollments(c *gin.Context) {
	flowID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid flow ID format")
		return
	}

	enrollments, err := h.flowService.ListEnrollments(c.Request.Context(), flowID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, enrollments)
}

// CancelEnrollment cancels an active enrollment.
// POST /api/v1/automation/enrollments/:id/cancel
func (h *FlowHandler) CancelEnrollment(c *gin.Context) {
	enrollmentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid enrollment ID format")
		return
	}

	enrollment, err := h.flowService.CancelEnrollment(c.Request.Context(), enrollmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, enrollment)
}
