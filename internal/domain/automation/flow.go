package automation

import (
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FlowStatus represents the status of an automation flow
type FlowStatus string

const (
	FlowStatusDraft  FlowStatus = "draft"
	FlowStatusActive FlowStatus = "active"
	FlowStatusPaused FlowStatus = "paused"
)

// IsValid checks if the status is a valid FlowStatus
func (s FlowStatus) IsValid() bool {
	switch s {
	case FlowStatusDraft, FlowStatusActive, FlowStatusPaused:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s FlowStatus) CanTransitionTo(target FlowStatus) bool {
	switch s {
	case FlowStatusDraft:
		return target == FlowStatusActive
	case FlowStatusActive:
		return target == FlowStatusPaused
	case FlowStatusPaused:
		return target == FlowStatusActive
	}
	return false
}

// FlowStep is one ordered step in an automation flow: wait Delay, then send
// the referenced email template.
type FlowStep struct {
	ID         uuid.UUID
	FlowID     uuid.UUID
	Position   int // 0-based order within the flow
	TemplateID uuid.UUID
	Delay      time.Duration // Wait before this step fires, relative to the previous one
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Flow represents an email automation sequence aggregate root
type Flow struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Status      FlowStatus
	Steps       []FlowStep
}

// NewFlow creates a new automation flow in draft status
func NewFlow(name, description string) (*Flow, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Flow name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Flow name cannot exceed 200 characters")
	}

	return &Flow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Status:            FlowStatusDraft,
		Steps:             make([]FlowStep, 0),
	}, nil
}

// Update updates the flow's basic information
func (f *Flow) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Flow name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Flow name cannot exceed 200 characters")
	}

	f.Name = name
	f.Description = description
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// AddStep appends a step to the end of the flow
// Steps can only change while the flow is not active
func (f *Flow) AddStep(templateID uuid.UUID, delay time.Duration) (*FlowStep, error) {
	if f.Status == FlowStatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Pause the flow before editing steps")
	}
	if templateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Template ID cannot be empty")
	}
	if delay < 0 {
		return nil, shared.NewDomainError("INVALID_DELAY", "Step delay cannot be negative")
	}

	now := time.Now()
	step := FlowStep{
		ID:         uuid.New(),
		FlowID:     f.ID,
		Position:   len(f.Steps),
		TemplateID: templateID,
		Delay:      delay,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	f.Steps = append(f.Steps, step)
	f.UpdatedAt = now
	f.IncrementVersion()

	return &step, nil
}

// RemoveStep removes a step and renumbers the remainder
func (f *Flow) RemoveStep(stepID uuid.UUID) error {
	if f.Status == FlowStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Pause the flow before editing steps")
	}

	for idx, step := range f.Steps {
		if step.ID == stepID {
			f.Steps = append(f.Steps[:idx], f.Steps[idx+1:]...)
			for i := range f.Steps {
				f.Steps[i].Position = i
			}
			f.UpdatedAt = time.Now()
			f.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("STEP_NOT_FOUND", "Flow step not found")
}

// UpdateStepDelay changes the delay of an existing step
func (f *Flow) UpdateStepDelay(stepID uuid.UUID, delay time.Duration) error {
	if f.Status == FlowStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Pause the flow before editing steps")
	}
	if delay < 0 {
		return shared.NewDomainError("INVALID_DELAY", "Step delay cannot be negative")
	}

	for idx := range f.Steps {
		if f.Steps[idx].ID == stepID {
			f.Steps[idx].Delay = delay
			f.Steps[idx].UpdatedAt = time.Now()
			f.UpdatedAt = time.Now()
			f.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("STEP_NOT_FOUND", "Flow step not found")
}

// Activate turns the flow on. Requires at least one step.
func (f *Flow) Activate() error {
	if !f.Status.CanTransitionTo(FlowStatusActive) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot activate flow in %s status", f.Status))
	}
	if len(f.Steps) == 0 {
		return shared.NewDomainError("NO_STEPS", "Cannot activate a flow without steps")
	}

	f.Status = FlowStatusActive
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// Pause suspends the flow; existing enrollments stop advancing
func (f *Flow) Pause() error {
	if !f.Status.CanTransitionTo(FlowStatusPaused) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pause flow in %s status", f.Status))
	}

	f.Status = FlowStatusPaused
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// IsActive returns true if the flow is running
func (f *Flow) IsActive() bool {
	return f.Status == FlowStatusActive
}

// StepAt returns the step at the given position, or nil when out of range
func (f *Flow) StepAt(position int) *FlowStep {
	if position < 0 || position >= len(f.Steps) {
		return nil
	}
	return &f.Steps[position]
}

// StepCount returns the number of steps in the flow
func (f *Flow) StepCount() int {
	return len(f.Steps)
}
