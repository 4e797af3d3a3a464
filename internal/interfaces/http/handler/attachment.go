package handler

import (
	pipelineapp "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler handles deal attachment API endpoints
type AttachmentHandler struct {
	BaseHandler
	attachmentService *pipelineapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *pipelineapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// InitiateUpload registers a proposal file for a deal and returns a
// presigned upload URL. The client PUTs the file bytes to the URL directly.
// POST /api/v1/pipeline/deals/:id/attachments
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req pipelineapp.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// List lists a deal's attachments.
// GET /api/v1/pipeline/deals/:id/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	attachments, err := h.attachmentService.List(c.Request.Context(), dealID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, attachments)
}

// DownloadURL returns a presigned download URL for an attachment.
// GET /api/v1/pipeline/attachments/:id/download
func (h *AttachmentHandler) DownloadURL(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	result, err := h.attachmentService.DownloadURL(c.Request.Context(), attachmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes an attachment record and its stored object.
// DELETE /api/v1/pipeline/attachments/:id
func (h *AttachmentHandler) Delete(c *gin.Context) {
	attachmentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), attachmentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
