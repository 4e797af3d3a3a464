package handler

import (
	contentapp "github.com/agencyos/backend/internal/application/content"
	"github.com/gin-gonic/gin"
)

// TemplateHandler handles content template API endpoints
type TemplateHandler struct {
	BaseHandler
	templateService *contentapp.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService *contentapp.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// Create creates a new template in draft.
// POST /api/v1/content/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req contentapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, template)
}

// GetByID retrieves a template by its ID.
// GET /api/v1/content/templates/:id
func (h *TemplateHandler) GetByID(c *gin.Context) {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// List lists templates with filtering and pagination.
// GET /api/v1/content/templates
func (h *TemplateHandler) List(c *gin.Context) {
	var filter contentapp.TemplateListFilter
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

	templates, total, err := h.templateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, templates, total, filter.Page, filter.PageSize)
}

// Update updates a draft template's name, subject, or body.
// PUT /api/v1/content/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req contentapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), templateID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// Approve marks a draft template as approved for use in automations.
// POST /api/v1/content/templates/:id/approve
func (h *TemplateHandler) Approve(c *gin.Context) {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	template, err := h.templateService.Approve(c.Request.Context(), templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// Archive retires a template from use.
// POST /api/v1/content/templates/:id/archive
func (h *TemplateHandler) Archive(c *gin.Context) {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	template, err := h.templateService.Archive(c.Request.Context(), templateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// Delete deletes a template not referenced by any flow step.
// DELETE /api/v1/content/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	templateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), templateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
