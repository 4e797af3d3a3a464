package models

import (
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/google/uuid"
)

// FlowModel is the persistence model for the Flow aggregate root.
type FlowModel struct {
	AggregateModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Description string                `gorm:"type:text"`
	Status      automation.FlowStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Steps       []FlowStepModel       `gorm:"foreignKey:FlowID;references:ID"`
}

// TableName returns the table name for GORM
func (FlowModel) TableName() string {
	return "automation_flows"
}

// ToDomain converts the persistence model to a domain Flow entity.
func (m *FlowModel) ToDomain() *automation.Flow {
	flow := &automation.Flow{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Status:            m.Status,
		Steps:             make([]automation.FlowStep, len(m.Steps)),
	}
	for i, step := range m.Steps {
		flow.Steps[i] = *step.ToDomain()
	}
	return flow
}

// FromDomain populates the persistence model from a domain Flow entity.
func (m *FlowModel) FromDomain(f *automation.Flow) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.Name = f.Name
	m.Description = f.Description
	m.Status = f.Status
	m.Steps = make([]FlowStepModel, len(f.Steps))
	for i, step := range f.Steps {
		m.Steps[i] = *FlowStepModelFromDomain(&step)
	}
}

// FlowModelFromDomain creates a new persistence model from a domain Flow entity.
func FlowModelFromDomain(f *automation.Flow) *FlowModel {
	m := &FlowModel{}
	m.FromDomain(f)
	return m
}

// FlowStepModel is the persistence model for flow steps.
// Delay is stored as seconds.
type FlowStepModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	FlowID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"not null"`
	TemplateID   uuid.UUID `gorm:"type:uuid;not null"`
	DelaySeconds int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FlowStepModel) TableName() string {
	return "automation_flow_steps"
}

// ToDomain converts the persistence model to a domain FlowStep entity.
func (m *FlowStepModel) ToDomain() *automation.FlowStep {
	return &automation.FlowStep{
		ID:         m.ID,
		FlowID:     m.FlowID,
		Position:   m.Position,
		TemplateID: m.TemplateID,
		Delay:      time.Duration(m.DelaySeconds) * time.Second,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FlowStepModelFromDomain creates a new persistence model from a domain FlowStep entity.
func FlowStepModelFromDomain(s *automation.FlowStep) *FlowStepModel {
	return &FlowStepModel{
		ID:           s.ID,
		FlowID:       s.FlowID,
		Position:     s.Position,
		TemplateID:   s.TemplateID,
		DelaySeconds: int64(s.Delay / time.Second),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// EnrollmentModel is the persistence model for the Enrollment aggregate root.
type EnrollmentModel struct {
	AggregateModel
	FlowID      uuid.UUID                   `gorm:"type:uuid;not null;index:idx_enrollment_flow_client,priority:1"`
	ClientID    uuid.UUID                   `gorm:"type:uuid;not null;index:idx_enrollment_flow_client,priority:2"`
	Status      automation.EnrollmentStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	CurrentStep int                         `gorm:"not null;default:0"`
	NextRunAt   *time.Time                  `gorm:"index"`
	CompletedAt *time.Time
	CancelledAt *time.Time
	LastError   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EnrollmentModel) TableName() string {
	return "automation_enrollments"
}

// ToDomain converts the persistence model to a domain Enrollment entity.
func (m *EnrollmentModel) ToDomain() *automation.Enrollment {
	return &automation.Enrollment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FlowID:            m.FlowID,
		ClientID:          m.ClientID,
		Status:            m.Status,
		CurrentStep:       m.CurrentStep,
		NextRunAt:         m.NextRunAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
		LastError:         m.LastError,
	}
}

// FromDomain populates the persistence model from a domain Enrollment entity.
func (m *EnrollmentModel) FromDomain(e *automation.Enrollment) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.FlowID = e.FlowID
	m.ClientID = e.ClientID
	m.Status = e.Status
	m.CurrentStep = e.CurrentStep
	m.NextRunAt = e.NextRunAt
	m.CompletedAt = e.CompletedAt
	m.CancelledAt = e.CancelledAt
	m.LastError = e.LastError
}

// EnrollmentModelFromDomain creates a new persistence model from a domain Enrollment entity.
func EnrollmentModelFromDomain(e *automation.Enrollment) *EnrollmentModel {
	m := &EnrollmentModel{}
	m.FromDomain(e)
	return m
}
