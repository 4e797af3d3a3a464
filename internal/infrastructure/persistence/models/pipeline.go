package models

import (
	"time"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealModel is the persistence model for the Deal aggregate root.
type DealModel struct {
	AggregateModel
	ClientID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	ClientName    string                 `gorm:"type:varchar(200);not null"`
	Title         string                 `gorm:"type:varchar(200);not null"`
	Notes         string                 `gorm:"type:text"`
	Items         []DealItemModel        `gorm:"foreignKey:DealID;references:ID"`
	Engagements   []EngagementEventModel `gorm:"foreignKey:DealID;references:ID"`
	MonthlyTotal  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	OnetimeTotal  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status        pipeline.DealStatus    `gorm:"type:varchar(20);not null;default:'draft';index"`
	SentAt        *time.Time             `gorm:"index"`
	DecidedAt     *time.Time
	ArchivedAt    *time.Time
	LastContactAt *time.Time
	DeclineReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the persistence model to a domain Deal entity.
func (m *DealModel) ToDomain() *pipeline.Deal {
	deal := &pipeline.Deal{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClientID:          m.ClientID,
		ClientName:        m.ClientName,
		Title:             m.Title,
		Notes:             m.Notes,
		MonthlyTotal:      m.MonthlyTotal,
		OnetimeTotal:      m.OnetimeTotal,
		Status:            m.Status,
		SentAt:            m.SentAt,
		DecidedAt:         m.DecidedAt,
		ArchivedAt:        m.ArchivedAt,
		LastContactAt:     m.LastContactAt,
		DeclineReason:     m.DeclineReason,
		Items:             make([]pipeline.DealItem, len(m.Items)),
		Engagements:       make([]pipeline.EngagementEvent, len(m.Engagements)),
	}
	for i, item := range m.Items {
		deal.Items[i] = *item.ToDomain()
	}
	for i, event := range m.Engagements {
		deal.Engagements[i] = *event.ToDomain()
	}
	return deal
}

// FromDomain populates the persistence model from a domain Deal entity.
func (m *DealModel) FromDomain(d *pipeline.Deal) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.ClientID = d.ClientID
	m.ClientName = d.ClientName
	m.Title = d.Title
	m.Notes = d.Notes
	m.MonthlyTotal = d.MonthlyTotal
	m.OnetimeTotal = d.OnetimeTotal
	m.Status = d.Status
	m.SentAt = d.SentAt
	m.DecidedAt = d.DecidedAt
	m.ArchivedAt = d.ArchivedAt
	m.LastContactAt = d.LastContactAt
	m.DeclineReason = d.DeclineReason
	m.Items = make([]DealItemModel, len(d.Items))
	for i, item := range d.Items {
		m.Items[i] = *DealItemModelFromDomain(&item)
	}
	m.Engagements = make([]EngagementEventModel, len(d.Engagements))
	for i, event := range d.Engagements {
		m.Engagements[i] = *EngagementEventModelFromDomain(&event)
	}
}

// DealModelFromDomain creates a new persistence model from a domain Deal entity.
func DealModelFromDomain(d *pipeline.Deal) *DealModel {
	m := &DealModel{}
	m.FromDomain(d)
	return m
}

// DealItemModel is the persistence model for the DealItem entity.
type DealItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DealID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	ProductCode   string          `gorm:"type:varchar(50);not null"`
	MonthlyPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OnetimePrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity      int             `gorm:"not null"`
	MonthlyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OnetimeAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DealItemModel) TableName() string {
	return "deal_items"
}

// ToDomain converts the persistence model to a domain DealItem entity.
func (m *DealItemModel) ToDomain() *pipeline.DealItem {
	return &pipeline.DealItem{
		ID:            m.ID,
		DealID:        m.DealID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		ProductCode:   m.ProductCode,
		MonthlyPrice:  m.MonthlyPrice,
		OnetimePrice:  m.OnetimePrice,
		Quantity:      m.Quantity,
		MonthlyAmount: m.MonthlyAmount,
		OnetimeAmount: m.OnetimeAmount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// DealItemModelFromDomain creates a new persistence model from a domain DealItem entity.
func DealItemModelFromDomain(i *pipeline.DealItem) *DealItemModel {
	return &DealItemModel{
		ID:            i.ID,
		DealID:        i.DealID,
		ProductID:     i.ProductID,
		ProductName:   i.ProductName,
		ProductCode:   i.ProductCode,
		MonthlyPrice:  i.MonthlyPrice,
		OnetimePrice:  i.OnetimePrice,
		Quantity:      i.Quantity,
		MonthlyAmount: i.MonthlyAmount,
		OnetimeAmount: i.OnetimeAmount,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// EngagementEventModel is the persistence model for engagement signals.
type EngagementEventModel struct {
	ID         uuid.UUID               `gorm:"type:uuid;primary_key"`
	DealID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	Kind       pipeline.EngagementKind `gorm:"type:varchar(20);not null"`
	Note       string                  `gorm:"type:varchar(500)"`
	OccurredAt time.Time               `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (EngagementEventModel) TableName() string {
	return "deal_engagements"
}

// ToDomain converts the persistence model to a domain EngagementEvent.
func (m *EngagementEventModel) ToDomain() *pipeline.EngagementEvent {
	return &pipeline.EngagementEvent{
		ID:         m.ID,
		DealID:     m.DealID,
		Kind:       m.Kind,
		Note:       m.Note,
		OccurredAt: m.OccurredAt,
	}
}

// EngagementEventModelFromDomain creates a new persistence model from a domain EngagementEvent.
func EngagementEventModelFromDomain(e *pipeline.EngagementEvent) *EngagementEventModel {
	return &EngagementEventModel{
		ID:         e.ID,
		DealID:     e.DealID,
		Kind:       e.Kind,
		Note:       e.Note,
		OccurredAt: e.OccurredAt,
	}
}

// ScoreHistoryModel is the persistence model for score history entries.
// The table is append-only.
type ScoreHistoryModel struct {
	ID                uuid.UUID              `gorm:"type:uuid;primary_key"`
	DealID            uuid.UUID              `gorm:"type:uuid;not null;index:idx_score_history_deal_scored,priority:1"`
	ConfidenceScore   int                    `gorm:"not null"`
	ConfidencePercent float64                `gorm:"not null"`
	WeightedMonthly   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	WeightedOnetime   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	TriggerSource     pipeline.TriggerSource `gorm:"type:varchar(20);not null"`
	ScoredAt          time.Time              `gorm:"not null;index:idx_score_history_deal_scored,priority:2"`
}

// TableName returns the table name for GORM
func (ScoreHistoryModel) TableName() string {
	return "score_history"
}

// ToDomain converts the persistence model to a domain ScoreHistoryEntry.
func (m *ScoreHistoryModel) ToDomain() *pipeline.ScoreHistoryEntry {
	return &pipeline.ScoreHistoryEntry{
		ID:                m.ID,
		DealID:            m.DealID,
		ConfidenceScore:   m.ConfidenceScore,
		ConfidencePercent: m.ConfidencePercent,
		WeightedMonthly:   m.WeightedMonthly,
		WeightedOnetime:   m.WeightedOnetime,
		TriggerSource:     m.TriggerSource,
		ScoredAt:          m.ScoredAt,
	}
}

// ScoreHistoryModelFromDomain creates a new persistence model from a domain ScoreHistoryEntry.
func ScoreHistoryModelFromDomain(e *pipeline.ScoreHistoryEntry) *ScoreHistoryModel {
	return &ScoreHistoryModel{
		ID:                e.ID,
		DealID:            e.DealID,
		ConfidenceScore:   e.ConfidenceScore,
		ConfidencePercent: e.ConfidencePercent,
		WeightedMonthly:   e.WeightedMonthly,
		WeightedOnetime:   e.WeightedOnetime,
		TriggerSource:     e.TriggerSource,
		ScoredAt:          e.ScoredAt,
	}
}

// AttachmentModel is the persistence model for proposal attachments.
type AttachmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	DealID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(300);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	Size        int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "deal_attachments"
}

// ToDomain converts the persistence model to a domain Attachment.
func (m *AttachmentModel) ToDomain() *pipeline.Attachment {
	return &pipeline.Attachment{
		ID:          m.ID,
		DealID:      m.DealID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Size:        m.Size,
		StorageKey:  m.StorageKey,
		CreatedAt:   m.CreatedAt,
	}
}

// AttachmentModelFromDomain creates a new persistence model from a domain Attachment.
func AttachmentModelFromDomain(a *pipeline.Attachment) *AttachmentModel {
	return &AttachmentModel{
		ID:          a.ID,
		DealID:      a.DealID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		StorageKey:  a.StorageKey,
		CreatedAt:   a.CreatedAt,
	}
}
