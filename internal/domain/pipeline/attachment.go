package pipeline

import (
	"context"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAttachmentSize caps uploaded proposal files at 25 MB
const MaxAttachmentSize = 25 << 20

// Attachment is a proposal file stored against a deal.
// The bytes live in object storage; only the key is kept here.
type Attachment struct {
	ID          uuid.UUID
	DealID      uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
	CreatedAt   time.Time
}

// NewAttachment creates a new attachment record
func NewAttachment(dealID uuid.UUID, fileName, contentType string, size int64, storageKey string) (*Attachment, error) {
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL", "Deal ID cannot be empty")
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "File name cannot be empty")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "File size must be positive")
	}
	if size > MaxAttachmentSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum attachment size")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Storage key cannot be empty")
	}

	return &Attachment{
		ID:          uuid.New(),
		DealID:      dealID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		StorageKey:  storageKey,
		CreatedAt:   time.Now(),
	}, nil
}

// AttachmentRepository defines the interface for attachment persistence
type AttachmentRepository interface {
	// FindByID finds an attachment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)

	// FindByDeal finds all attachments for a deal
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]Attachment, error)

	// Save creates an attachment record
	Save(ctx context.Context, attachment *Attachment) error

	// Delete deletes an attachment record
	Delete(ctx context.Context, id uuid.UUID) error
}
