package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedAttachmentContentTypes whitelists upload content types.
// SVG is excluded because it can carry scripts.
var AllowedAttachmentContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain":      true,
	"text/csv":        true,
	"application/zip": true,
}

// ObjectStorageService is the outbound port for presigned object storage.
// Implemented by the S3 adapter and the development stub.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
	KeyPrefix         string
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
		KeyPrefix:         "deals",
	}
}

// AttachmentService handles proposal attachments on deals
type AttachmentService struct {
	attachmentRepo pipeline.AttachmentRepository
	dealRepo       pipeline.DealRepository
	storage        ObjectStorageService
	config         AttachmentServiceConfig
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo pipeline.AttachmentRepository,
	dealRepo pipeline.DealRepository,
	storage ObjectStorageService,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		dealRepo:       dealRepo,
		storage:        storage,
		config:         DefaultAttachmentServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload records the attachment and returns a presigned upload URL
func (s *AttachmentService) InitiateUpload(ctx context.Context, dealID uuid.UUID, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	if !AllowedAttachmentContentTypes[strings.ToLower(req.ContentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed for proposal attachments", req.ContentType))
	}

	storageKey := s.generateStorageKey(dealID, req.FileName)

	attachment, err := pipeline.NewAttachment(dealID, req.FileName, req.ContentType, req.Size, storageKey)
	if err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		_ = s.attachmentRepo.Delete(ctx, attachment.ID)
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		AttachmentID: attachment.ID,
		StorageKey:   storageKey,
		UploadURL:    uploadURL,
		ExpiresAt:    expiresAt,
	}, nil
}

// List returns the attachments for a deal
func (s *AttachmentService) List(ctx context.Context, dealID uuid.UUID) ([]AttachmentResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = ToAttachmentResponse(&attachments[i])
	}
	return responses, nil
}

// DownloadURL returns a presigned download URL for an attachment.
// The object must exist in storage.
func (s *AttachmentService) DownloadURL(ctx context.Context, attachmentID uuid.UUID) (*AttachmentDownloadResponse, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, attachment.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify the stored file")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, attachment.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &AttachmentDownloadResponse{
		AttachmentID: attachment.ID,
		FileName:     attachment.FileName,
		URL:          url,
		ExpiresAt:    expiresAt,
	}, nil
}

// Delete removes the attachment record and its stored object
func (s *AttachmentService) Delete(ctx context.Context, attachmentID uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, attachment.StorageKey); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("STORAGE_DELETE_FAILED", "Failed to delete the stored file")
	}

	return s.attachmentRepo.Delete(ctx, attachmentID)
}

// generateStorageKey builds a collision-free key under the configured prefix
func (s *AttachmentService) generateStorageKey(dealID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s/%s%s", s.config.KeyPrefix, dealID, uuid.New(), ext)
}
