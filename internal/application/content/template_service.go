package content

import (
	"context"

	"github.com/agencyos/backend/internal/domain/content"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TemplateService handles content template business operations
type TemplateService struct {
	templateRepo content.TemplateRepository
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo content.TemplateRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
	}
}

// Create creates a new draft template
func (s *TemplateService) Create(ctx context.Context, req CreateTemplateRequest) (*TemplateResponse, error) {
	template, err := content.NewTemplate(req.Name, content.TemplateKind(req.Kind), req.Subject, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// GetByID retrieves a template by ID
func (s *TemplateService) GetByID(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// List retrieves templates with filtering and pagination
func (s *TemplateService) List(ctx context.Context, filter TemplateListFilter) ([]TemplateResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	templates, err := s.templateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.templateRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTemplateResponses(templates), total, nil
}

// ListApprovedEmails lists approved email templates for automation flows
func (s *TemplateService) ListApprovedEmails(ctx context.Context) ([]TemplateResponse, error) {
	templates, err := s.templateRepo.FindApprovedByKind(ctx, content.TemplateKindEmail)
	if err != nil {
		return nil, err
	}

	return ToTemplateResponses(templates), nil
}

// Update updates a template's content. Approved templates drop back to draft.
func (s *TemplateService) Update(ctx context.Context, templateID uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	name := template.Name
	subject := template.Subject
	body := template.Body
	if req.Name != nil {
		name = *req.Name
	}
	if req.Subject != nil {
		subject = *req.Subject
	}
	if req.Body != nil {
		body = *req.Body
	}

	if err := template.Update(name, subject, body); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// Approve marks a template as approved for use
func (s *TemplateService) Approve(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if err := template.Approve(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// Archive retires a template
func (s *TemplateService) Archive(ctx context.Context, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if err := template.Archive(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToTemplateResponse(template)
	return &response, nil
}

// Delete deletes a template
func (s *TemplateService) Delete(ctx context.Context, templateID uuid.UUID) error {
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		return err
	}

	return s.templateRepo.Delete(ctx, templateID)
}
