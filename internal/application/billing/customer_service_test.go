package billing

import (
	"context"
	"testing"
	"time"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/shared"
	infrabilling "github.com/agencyos/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCustomerService(clientRepo *MockClientRepository, gateway *MockCustomerGateway) *CustomerService {
	return NewCustomerService(clientRepo, gateway, zap.NewNop())
}

func unlinkedClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.NewClient("Dana Reyes", "Brightside Media", "dana@brightside.example")
	require.NoError(t, err)
	return c
}

func TestCustomerService_LinkCustomer(t *testing.T) {
	t.Run("creates and stores a billing customer", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		gateway := new(MockCustomerGateway)
		service := newTestCustomerService(clientRepo, gateway)

		c := unlinkedClient(t)
		clientRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		gateway.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(input infrabilling.CreateCustomerInput) bool {
			return input.ClientID == c.ID &&
				input.Name == "Brightside Media" &&
				input.Email == "dana@brightside.example"
		})).Return(&infrabilling.CustomerOutput{
			CustomerID: "cus_new",
			Email:      "dana@brightside.example",
			CreatedAt:  time.Now(),
		}, nil)
		clientRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *client.Client) bool {
			return saved.StripeCustomerID == "cus_new"
		})).Return(nil)

		resp, err := service.LinkCustomer(context.Background(), c.ID, LinkCustomerRequest{Description: "Retainer billing"})

		require.NoError(t, err)
		assert.Equal(t, c.ID, resp.ClientID)
		assert.Equal(t, "cus_new", resp.StripeCustomerID)
		clientRepo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("returns the existing link without calling the gateway", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		gateway := new(MockCustomerGateway)
		service := newTestCustomerService(clientRepo, gateway)

		c := unlinkedClient(t)
		require.NoError(t, c.SetStripeCustomerID("cus_existing"))
		clientRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		resp, err := service.LinkCustomer(context.Background(), c.ID, LinkCustomerRequest{})

		require.NoError(t, err)
		assert.Equal(t, "cus_existing", resp.StripeCustomerID)
		gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
		clientRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("surfaces not found for unknown client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		gateway := new(MockCustomerGateway)
		service := newTestCustomerService(clientRepo, gateway)

		unknownID := uuid.New()
		clientRepo.On("FindByID", mock.Anything, unknownID).Return(nil, shared.ErrNotFound)

		resp, err := service.LinkCustomer(context.Background(), unknownID, LinkCustomerRequest{})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("does not save when the gateway fails", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		gateway := new(MockCustomerGateway)
		service := newTestCustomerService(clientRepo, gateway)

		c := unlinkedClient(t)
		clientRepo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		gateway.On("CreateCustomer", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		resp, err := service.LinkCustomer(context.Background(), c.ID, LinkCustomerRequest{})

		assert.Nil(t, resp)
		assert.Error(t, err)
		clientRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
