package models

import (
	"time"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/google/uuid"
)

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	AggregateModel
	Name             string              `gorm:"type:varchar(200);not null"`
	Company          string              `gorm:"type:varchar(200)"`
	Email            string              `gorm:"type:varchar(300);not null;uniqueIndex"`
	Phone            string              `gorm:"type:varchar(50)"`
	Status           client.ClientStatus `gorm:"type:varchar(20);not null;default:'prospect';index"`
	StripeCustomerID string              `gorm:"type:varchar(100);index"`
	Notes            string              `gorm:"type:text"`
	OnboardedAt      *time.Time
	ChurnedAt        *time.Time
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *client.Client {
	return &client.Client{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Company:           m.Company,
		Email:             m.Email,
		Phone:             m.Phone,
		Status:            m.Status,
		StripeCustomerID:  m.StripeCustomerID,
		Notes:             m.Notes,
		OnboardedAt:       m.OnboardedAt,
		ChurnedAt:         m.ChurnedAt,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *client.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Company = c.Company
	m.Email = c.Email
	m.Phone = c.Phone
	m.Status = c.Status
	m.StripeCustomerID = c.StripeCustomerID
	m.Notes = c.Notes
	m.OnboardedAt = c.OnboardedAt
	m.ChurnedAt = c.ChurnedAt
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *client.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// InviteModel is the persistence model for portal invites.
// Only the token hash is stored, never the raw token.
type InviteModel struct {
	AggregateModel
	ClientID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Email      string              `gorm:"type:varchar(300);not null;index"`
	TokenHash  string              `gorm:"type:varchar(200);not null"`
	Status     client.InviteStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt  time.Time           `gorm:"not null"`
	AcceptedAt *time.Time
	RevokedAt  *time.Time
}

// TableName returns the table name for GORM
func (InviteModel) TableName() string {
	return "client_invites"
}

// ToDomain converts the persistence model to a domain Invite entity.
func (m *InviteModel) ToDomain() *client.Invite {
	return &client.Invite{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClientID:          m.ClientID,
		Email:             m.Email,
		TokenHash:         m.TokenHash,
		Status:            m.Status,
		ExpiresAt:         m.ExpiresAt,
		AcceptedAt:        m.AcceptedAt,
		RevokedAt:         m.RevokedAt,
	}
}

// FromDomain populates the persistence model from a domain Invite entity.
func (m *InviteModel) FromDomain(i *client.Invite) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.ClientID = i.ClientID
	m.Email = i.Email
	m.TokenHash = i.TokenHash
	m.Status = i.Status
	m.ExpiresAt = i.ExpiresAt
	m.AcceptedAt = i.AcceptedAt
	m.RevokedAt = i.RevokedAt
}

// InviteModelFromDomain creates a new persistence model from a domain Invite entity.
func InviteModelFromDomain(i *client.Invite) *InviteModel {
	m := &InviteModel{}
	m.FromDomain(i)
	return m
}
