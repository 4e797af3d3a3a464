package billing

import (
	"context"
	"time"

	apppipeline "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/agencyos/backend/internal/domain/billing"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	infrabilling "github.com/agencyos/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByEmail(ctx context.Context, email string) (*client.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*client.Client, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]client.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByStatus(ctx context.Context, status client.ClientStatus, filter shared.Filter) ([]client.Client, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockDealRepository is a mock implementation of DealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStatus(ctx context.Context, status pipeline.DealStatus, filter shared.Filter) ([]pipeline.Deal, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) FindByStatuses(ctx context.Context, statuses []pipeline.DealStatus) ([]pipeline.Deal, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]pipeline.Deal), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, deal *pipeline.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) SaveWithLock(ctx context.Context, deal *pipeline.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) CountByStatus(ctx context.Context, status pipeline.DealStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockBillingEventRepository is a mock implementation of BillingEventRepository
type MockBillingEventRepository struct {
	mock.Mock
}

func (m *MockBillingEventRepository) Append(ctx context.Context, event *billing.BillingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockBillingEventRepository) FindByStripeEventID(ctx context.Context, stripeEventID string) (*billing.BillingEvent, error) {
	args := m.Called(ctx, stripeEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingEvent), args.Error(1)
}

func (m *MockBillingEventRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]billing.BillingEvent, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]billing.BillingEvent), args.Error(1)
}

func (m *MockBillingEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BillingEvent, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.BillingEvent), args.Error(1)
}

func (m *MockBillingEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockDealScorer is a mock implementation of DealScorer
type MockDealScorer struct {
	mock.Mock
}

func (m *MockDealScorer) RecalculateBatch(ctx context.Context, dealIDs []uuid.UUID, trigger pipeline.TriggerSource) ([]apppipeline.BatchScoreResult, error) {
	args := m.Called(ctx, dealIDs, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apppipeline.BatchScoreResult), args.Error(1)
}

// MockCustomerGateway is a mock implementation of CustomerGateway
type MockCustomerGateway struct {
	mock.Mock
}

func (m *MockCustomerGateway) CreateCustomer(ctx context.Context, input infrabilling.CreateCustomerInput) (*infrabilling.CustomerOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infrabilling.CustomerOutput), args.Error(1)
}
