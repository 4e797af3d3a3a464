package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/agencyos/backend/internal/domain/catalog"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockScoreHistoryRepository is a mock implementation of ScoreHistoryRepository
type MockScoreHistoryRepository struct {
	mock.Mock
}

func (m *MockScoreHistoryRepository) Append(ctx context.Context, entry *pipeline.ScoreHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockScoreHistoryRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]pipeline.ScoreHistoryEntry, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).([]pipeline.ScoreHistoryEntry), args.Error(1)
}

func (m *MockScoreHistoryRepository) FindLatestByDeal(ctx context.Context, dealID uuid.UUID) (*pipeline.ScoreHistoryEntry, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.ScoreHistoryEntry), args.Error(1)
}

func (m *MockScoreHistoryRepository) FindLatestByDeals(ctx context.Context, dealIDs []uuid.UUID) (map[uuid.UUID]pipeline.ScoreHistoryEntry, error) {
	args := m.Called(ctx, dealIDs)
	return args.Get(0).(map[uuid.UUID]pipeline.ScoreHistoryEntry), args.Error(1)
}

func (m *MockScoreHistoryRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoreHistoryRepository) CountByDeal(ctx context.Context, dealID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dealID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of the catalog ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByStatus(ctx context.Context, status catalog.ProductStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

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

func mustUSD(t *testing.T, amount string) valueobject.Money {
	t.Helper()
	money, err := valueobject.NewMoneyUSDFromString(amount)
	require.NoError(t, err)
	return money
}

// sentTestDeal builds a deal that was sent daysAgo days ago with one priced item
func sentTestDeal(t *testing.T, daysAgo int) *pipeline.Deal {
	t.Helper()

	deal, err := pipeline.NewDeal(uuid.New(), "Acme Corp", "Q3 Growth Proposal")
	require.NoError(t, err)

	product, err := catalog.NewProductWithPrices("SEO", "SEO Retainer",
		mustUSD(t, "1500"), mustUSD(t, "500"))
	require.NoError(t, err)

	_, err = deal.AddItem(product.ID, product.Name, product.Code,
		product.GetMonthlyPriceMoney(), product.GetOnetimePriceMoney(), 1)
	require.NoError(t, err)

	require.NoError(t, deal.Send())

	sentAt := time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
	deal.SentAt = &sentAt

	return deal
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]pipeline.Attachment, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Save(ctx context.Context, attachment *pipeline.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}
