package automation

import (
	"context"
	"errors"
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/content"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FlowService handles automation flow business operations
type FlowService struct {
	flowRepo       automation.FlowRepository
	enrollmentRepo automation.EnrollmentRepository
	templateRepo   content.TemplateRepository
	clientRepo     client.ClientRepository
}

// NewFlowService creates a new FlowService
func NewFlowService(
	flowRepo automation.FlowRepository,
	enrollmentRepo automation.EnrollmentRepository,
	templateRepo content.TemplateRepository,
	clientRepo client.ClientRepository,
) *FlowService {
	return &FlowService{
		flowRepo:       flowRepo,
		enrollmentRepo: enrollmentRepo,
		templateRepo:   templateRepo,
		clientRepo:     clientRepo,
	}
}

// Create creates a new draft flow
func (s *FlowService) Create(ctx context.Context, req CreateFlowRequest) (*FlowResponse, error) {
	flow, err := automation.NewFlow(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.flowRepo.Save(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// GetByID retrieves a flow by ID
func (s *FlowService) GetByID(ctx context.Context, flowID uuid.UUID) (*FlowResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// List retrieves flows with filtering and pagination
func (s *FlowService) List(ctx context.Context, filter FlowListFilter) ([]FlowResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	flows, err := s.flowRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.flowRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToFlowResponses(flows), total, nil
}

// Update updates a flow's basic information
func (s *FlowService) Update(ctx context.Context, flowID uuid.UUID, req UpdateFlowRequest) (*FlowResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	name := flow.Name
	description := flow.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}

	if err := flow.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.flowRepo.Save(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// AddStep appends a step referencing an approved email template
func (s *FlowService) AddStep(ctx context.Context, flowID uuid.UUID, req AddFlowStepRequest) (*FlowResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if template.Kind != content.TemplateKindEmail {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Flow steps must reference email templates")
	}
	if !template.IsApproved() {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Flow steps must reference approved templates")
	}

	if _, err := flow.AddStep(template.ID, time.Duration(req.DelayHours)*time.Hour); err != nil {
		return nil, err
	}

	if err := s.flowRepo.Save(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// UpdateStep changes a step's delay
func (s *FlowService) UpdateStep(ctx context.Context, flowID, stepID uuid.UUID, req UpdateFlowStepRequest) (*FlowResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if err := flow.UpdateStepDelay(stepID, time.Duration(req.DelayHours)*time.Hour); err != nil {
		return nil, err
	}

	if err := s.flowRepo.Save(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// RemoveStep removes a step from a flow
func (s *FlowService) RemoveStep(ctx context.Context, flowID, stepID uuid.UUID) (*FlowResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if err := flow.RemoveStep(stepID); err != nil {
		return nil, err
	}

	if err := s.flowRepo.Save(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// Activate turns a flow on
func (s *FlowService) Activate(ctx context.Context, flowID uuid.UUID) (*FlowResponse, error) {
	return s.transition(ctx, flowID, func(f *automation.Flow) error { return f.Activate() })
}

// Pause suspends a flow
func (s *FlowService) Pause(ctx context.Context, flowID uuid.UUID) (*FlowResponse, error) {
	return s.transition(ctx, flowID, func(f *automation.Flow) error { return f.Pause() })
}

func (s *FlowService) transition(ctx context.Context, flowID uuid.UUID, op func(*automation.Flow) error) (*FlowResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if err := op(flow); err != nil {
		return nil, err
	}

	if err := s.flowRepo.Save(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// Enroll enrolls a client into an active flow
func (s *FlowService) Enroll(ctx context.Context, flowID uuid.UUID, req EnrollClientRequest) (*EnrollmentResponse, error) {
	flow, err := s.flowRepo.FindByID(ctx, flowID)
	if err != nil {
		return nil, err
	}

	c, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if c.IsChurned() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot enroll a churned client")
	}

	existing, err := s.enrollmentRepo.FindActiveByFlowAndClient(ctx, flowID, req.ClientID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client is already enrolled in this flow")
	}

	enrollment, err := automation.NewEnrollment(flow, req.ClientID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// CancelEnrollment stops a running enrollment
func (s *FlowService) CancelEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*EnrollmentResponse, error) {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if err := enrollment.Cancel(); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	response := ToEnrollmentResponse(enrollment)
	return &response, nil
}

// ListEnrollments lists enrollments for a flow
func (s *FlowService) ListEnrollments(ctx context.Context, flowID uuid.UUID) ([]EnrollmentResponse, error) {
	if _, err := s.flowRepo.FindByID(ctx, flowID); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.FindByFlow(ctx, flowID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	responses := make([]EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		responses[i] = ToEnrollmentResponse(&enrollments[i])
	}
	return responses, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}
