package billing

import (
	"context"

	"github.com/agencyos/backend/internal/domain/billing"
	"github.com/agencyos/backend/internal/domain/shared"
)

// BillingEventService exposes the billing audit trail for the portal UI
type BillingEventService struct {
	eventRepo billing.BillingEventRepository
}

// NewBillingEventService creates a new BillingEventService
func NewBillingEventService(eventRepo billing.BillingEventRepository) *BillingEventService {
	return &BillingEventService{
		eventRepo: eventRepo,
	}
}

// List retrieves billing events, newest first
func (s *BillingEventService) List(ctx context.Context, filter BillingEventListFilter) ([]BillingEventResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "processed_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	var (
		events []billing.BillingEvent
		err    error
	)
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = filter.ClientID.String()
		events, err = s.eventRepo.FindByClient(ctx, *filter.ClientID, domainFilter)
	} else {
		events, err = s.eventRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.eventRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBillingEventResponses(events), total, nil
}
