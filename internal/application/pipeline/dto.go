package pipeline

import (
	"time"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDealRequest represents a request to create a new deal
type CreateDealRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	Title    string    `json:"title" binding:"required,min=1,max=200"`
	Notes    string    `json:"notes" binding:"max=5000"`
}

// UpdateDealRequest represents a request to update a deal
type UpdateDealRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=200"`
	Notes *string `json:"notes" binding:"omitempty,max=5000"`
}

// AddDealItemRequest represents a request to add a line item to a deal
type AddDealItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateDealItemRequest represents a request to update a deal line item
type UpdateDealItemRequest struct {
	Quantity     *int             `json:"quantity" binding:"omitempty,min=1"`
	MonthlyPrice *decimal.Decimal `json:"monthly_price"`
	OnetimePrice *decimal.Decimal `json:"onetime_price"`
}

// DeclineDealRequest represents a request to decline a deal
type DeclineDealRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// LogEngagementRequest represents a request to log an engagement signal
type LogEngagementRequest struct {
	Note       string     `json:"note" binding:"max=2000"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// DealListFilter represents filter options for deal list
type DealListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft sent declined accepted archived"`
	ClientID *uuid.UUID `form:"client_id"`
	Page     int        `form:"page" binding:"min=0"`
	PageSize int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecalculateRequest represents a request to recalculate one or more deals.
// Exactly one of DealID or DealIDs must be set.
type RecalculateRequest struct {
	DealID  *uuid.UUID  `json:"deal_id"`
	DealIDs []uuid.UUID `json:"deal_ids"`
}

// DealItemResponse represents a deal line item in API responses
type DealItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	OnetimePrice  decimal.Decimal `json:"onetime_price"`
	Quantity      int             `json:"quantity"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	OnetimeAmount decimal.Decimal `json:"onetime_amount"`
}

// EngagementResponse represents an engagement event in API responses
type EngagementResponse struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID            uuid.UUID            `json:"id"`
	ClientID      uuid.UUID            `json:"client_id"`
	ClientName    string               `json:"client_name"`
	Title         string               `json:"title"`
	Notes         string               `json:"notes,omitempty"`
	Status        string               `json:"status"`
	Items         []DealItemResponse   `json:"items"`
	MonthlyTotal  decimal.Decimal      `json:"monthly_total"`
	OnetimeTotal  decimal.Decimal      `json:"onetime_total"`
	SentAt        *time.Time           `json:"sent_at,omitempty"`
	DecidedAt     *time.Time           `json:"decided_at,omitempty"`
	ArchivedAt    *time.Time           `json:"archived_at,omitempty"`
	LastContactAt *time.Time           `json:"last_contact_at,omitempty"`
	DeclineReason string               `json:"decline_reason,omitempty"`
	Engagements   []EngagementResponse `json:"engagements,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// ScoreResponse represents one scoring run's output in API responses
type ScoreResponse struct {
	DealID            uuid.UUID       `json:"deal_id"`
	ConfidenceScore   int             `json:"confidence_score"`
	ConfidencePercent float64         `json:"confidence_percent"`
	WeightedMonthly   decimal.Decimal `json:"weighted_monthly"`
	WeightedOnetime   decimal.Decimal `json:"weighted_onetime"`
	TriggerSource     string          `json:"trigger_source"`
	ScoredAt          time.Time       `json:"scored_at"`
}

// BatchScoreResult is one slot of a batch recalculation response.
// Score is null when the deal was skipped or failed; Error carries the
// failure code when the slot failed.
type BatchScoreResult struct {
	DealID uuid.UUID      `json:"deal_id"`
	Score  *ScoreResponse `json:"score"`
	Error  *string        `json:"error,omitempty"`
}

// BulkRecalcError describes one deal's failure during a bulk run
type BulkRecalcError struct {
	DealID  uuid.UUID `json:"deal_id"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// BulkRecalcResponse summarizes a bulk recalculation run
type BulkRecalcResponse struct {
	Processed         int               `json:"processed"`
	Succeeded         int               `json:"succeeded"`
	Failed            int               `json:"failed"`
	Skipped           int               `json:"skipped"`
	DurationMs        int64             `json:"duration_ms"`
	Errors            []BulkRecalcError `json:"errors"`
	HistoryRowsBefore int64             `json:"history_rows_before"`
	HistoryRowsAfter  int64             `json:"history_rows_after"`
}

// PipelineSummaryResponse aggregates the pipeline by deal status
type PipelineSummaryResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// ToDealItemResponse converts a domain DealItem to DealItemResponse
func ToDealItemResponse(item *pipeline.DealItem) DealItemResponse {
	return DealItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		ProductCode:   item.ProductCode,
		MonthlyPrice:  item.MonthlyPrice,
		OnetimePrice:  item.OnetimePrice,
		Quantity:      item.Quantity,
		MonthlyAmount: item.MonthlyAmount,
		OnetimeAmount: item.OnetimeAmount,
	}
}

// ToDealResponse converts a domain Deal to DealResponse
func ToDealResponse(d *pipeline.Deal) DealResponse {
	items := make([]DealItemResponse, len(d.Items))
	for i := range d.Items {
		items[i] = ToDealItemResponse(&d.Items[i])
	}

	engagements := make([]EngagementResponse, len(d.Engagements))
	for i, e := range d.Engagements {
		engagements[i] = EngagementResponse{
			ID:         e.ID,
			Kind:       string(e.Kind),
			Note:       e.Note,
			OccurredAt: e.OccurredAt,
		}
	}

	return DealResponse{
		ID:            d.ID,
		ClientID:      d.ClientID,
		ClientName:    d.ClientName,
		Title:         d.Title,
		Notes:         d.Notes,
		Status:        string(d.Status),
		Items:         items,
		MonthlyTotal:  d.MonthlyTotal,
		OnetimeTotal:  d.OnetimeTotal,
		SentAt:        d.SentAt,
		DecidedAt:     d.DecidedAt,
		ArchivedAt:    d.ArchivedAt,
		LastContactAt: d.LastContactAt,
		DeclineReason: d.DeclineReason,
		Engagements:   engagements,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Version:       d.Version,
	}
}

// ToDealResponses converts a slice of domain Deals to DealResponses
func ToDealResponses(deals []pipeline.Deal) []DealResponse {
	responses := make([]DealResponse, len(deals))
	for i := range deals {
		responses[i] = ToDealResponse(&deals[i])
	}
	return responses
}

// ToScoreResponse converts a score history entry to ScoreResponse
func ToScoreResponse(entry *pipeline.ScoreHistoryEntry) ScoreResponse {
	return ScoreResponse{
		DealID:            entry.DealID,
		ConfidenceScore:   entry.ConfidenceScore,
		ConfidencePercent: entry.ConfidencePercent,
		WeightedMonthly:   entry.WeightedMonthly,
		WeightedOnetime:   entry.WeightedOnetime,
		TriggerSource:     string(entry.TriggerSource),
		ScoredAt:          entry.ScoredAt,
	}
}

// ToScoreResponses converts score history entries to ScoreResponses
func ToScoreResponses(entries []pipeline.ScoreHistoryEntry) []ScoreResponse {
	responses := make([]ScoreResponse, len(entries))
	for i := range entries {
		responses[i] = ToScoreResponse(&entries[i])
	}
	return responses
}

// InitiateUploadRequest represents a request to attach a proposal file to a deal
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// InitiateUploadResponse returns the presigned upload URL for the new attachment
type InitiateUploadResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	StorageKey   string    `json:"storage_key"`
	UploadURL    string    `json:"upload_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	DealID      uuid.UUID `json:"deal_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentDownloadResponse returns a presigned download URL
type AttachmentDownloadResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	FileName     string    `json:"file_name"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ToAttachmentResponse converts a domain Attachment to AttachmentResponse
func ToAttachmentResponse(a *pipeline.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		DealID:      a.DealID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}
