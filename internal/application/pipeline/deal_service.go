package pipeline

import (
	"context"
	"time"

	"github.com/agencyos/backend/internal/domain/catalog"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DealService handles deal lifecycle business operations
type DealService struct {
	dealRepo       pipeline.DealRepository
	productRepo    catalog.ProductRepository
	clientRepo     client.ClientRepository
	eventPublisher shared.EventPublisher
}

// NewDealService creates a new DealService
func NewDealService(
	dealRepo pipeline.DealRepository,
	productRepo catalog.ProductRepository,
	clientRepo client.ClientRepository,
) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
	}
}

// SetEventPublisher sets the publisher for deal domain events.
// When unset, events raised by the aggregate are dropped after save.
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *DealService) publishEvents(ctx context.Context, deal *pipeline.Deal) {
	if s.eventPublisher == nil {
		return
	}
	events := deal.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Event delivery is best-effort; the state change is already persisted.
	_ = s.eventPublisher.Publish(ctx, events...)
	deal.ClearDomainEvents()
}

// Create creates a new deal in draft status
func (s *DealService) Create(ctx context.Context, req CreateDealRequest) (*DealResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if c.IsChurned() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot create deals for churned clients")
	}

	deal, err := pipeline.NewDeal(c.ID, c.Name, req.Title)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		deal.SetNotes(req.Notes)
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)

	response := ToDealResponse(deal)
	return &response, nil
}

// GetByID retrieves a deal by ID
func (s *DealService) GetByID(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// List retrieves deals with filtering and pagination
func (s *DealService) List(ctx context.Context, filter DealListFilter) ([]DealResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	deals, err := s.dealRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.dealRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDealResponses(deals), total, nil
}

// Update updates a deal's title and notes
func (s *DealService) Update(ctx context.Context, dealID uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := deal.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		deal.SetNotes(*req.Notes)
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// AddItem adds a product line item to a draft deal.
// Prices are denormalized from the catalog at the time of adding.
func (s *DealService) AddItem(ctx context.Context, dealID uuid.UUID, req AddDealItemRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Cannot add an inactive product to a deal")
	}

	_, err = deal.AddItem(
		product.ID,
		product.Name,
		product.Code,
		product.GetMonthlyPriceMoney(),
		product.GetOnetimePriceMoney(),
		req.Quantity,
	)
	if err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// UpdateItem updates quantity and/or prices of a deal line item
func (s *DealService) UpdateItem(ctx context.Context, dealID, itemID uuid.UUID, req UpdateDealItemRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := deal.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}

	if req.MonthlyPrice != nil || req.OnetimePrice != nil {
		item := deal.GetItem(itemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Deal item not found")
		}
		monthly := item.MonthlyPrice
		onetime := item.OnetimePrice
		if req.MonthlyPrice != nil {
			monthly = *req.MonthlyPrice
		}
		if req.OnetimePrice != nil {
			onetime = *req.OnetimePrice
		}
		if err := deal.UpdateItemPrices(itemID, valueobject.NewMoneyUSD(monthly), valueobject.NewMoneyUSD(onetime)); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// RemoveItem removes a line item from a draft deal
func (s *DealService) RemoveItem(ctx context.Context, dealID, itemID uuid.UUID) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := deal.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// Send marks the deal as sent to the client
func (s *DealService) Send(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	return s.transition(ctx, dealID, func(d *pipeline.Deal) error { return d.Send() })
}

// Accept marks the deal as accepted by the client
func (s *DealService) Accept(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	return s.transition(ctx, dealID, func(d *pipeline.Deal) error { return d.Accept() })
}

// Decline marks the deal as declined by the client
func (s *DealService) Decline(ctx context.Context, dealID uuid.UUID, req DeclineDealRequest) (*DealResponse, error) {
	return s.transition(ctx, dealID, func(d *pipeline.Deal) error { return d.Decline(req.Reason) })
}

// Archive archives the deal
func (s *DealService) Archive(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	return s.transition(ctx, dealID, func(d *pipeline.Deal) error { return d.Archive() })
}

func (s *DealService) transition(ctx context.Context, dealID uuid.UUID, op func(*pipeline.Deal) error) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := op(deal); err != nil {
		return nil, err
	}

	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)

	response := ToDealResponse(deal)
	return &response, nil
}

// LogView records a proposal view engagement signal
func (s *DealService) LogView(ctx context.Context, dealID uuid.UUID, req LogEngagementRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	deal.LogView(occurredAt)

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// LogCall records a call engagement signal and refreshes last contact
func (s *DealService) LogCall(ctx context.Context, dealID uuid.UUID, req LogEngagementRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	deal.LogCall(req.Note, occurredAt)

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// Delete deletes a deal
func (s *DealService) Delete(ctx context.Context, dealID uuid.UUID) error {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return err
	}
	if !deal.IsDraft() && !deal.IsArchived() {
		return shared.NewDomainError("INVALID_STATE", "Only draft or archived deals can be deleted")
	}

	return s.dealRepo.Delete(ctx, dealID)
}

// Summary aggregates deal counts by status
func (s *DealService) Summary(ctx context.Context) (*PipelineSummaryResponse, error) {
	statuses := []pipeline.DealStatus{
		pipeline.DealStatusDraft,
		pipeline.DealStatusSent,
		pipeline.DealStatusDeclined,
		pipeline.DealStatusAccepted,
		pipeline.DealStatusArchived,
	}

	summary := &PipelineSummaryResponse{Counts: make(map[string]int64, len(statuses))}
	for _, status := range statuses {
		count, err := s.dealRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		summary.Counts[string(status)] = count
		summary.Total += count
	}

	return summary, nil
}
