package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient("Dana Reyes", "Reyes Fitness", "dana@reyesfitness.com")
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("creates prospect with lowercased email", func(t *testing.T) {
		c, err := NewClient("Dana Reyes", "Reyes Fitness", "Dana@ReyesFitness.com")
		require.NoError(t, err)
		assert.Equal(t, ClientStatusProspect, c.Status)
		assert.Equal(t, "dana@reyesfitness.com", c.Email)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewClient("", "Co", "a@b.com")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewClient("Dana", "Co", "not-an-email")
		assert.Error(t, err)
	})
}

func TestClientStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ClientStatus
		to      ClientStatus
		allowed bool
	}{
		{ClientStatusProspect, ClientStatusOnboarding, true},
		{ClientStatusProspect, ClientStatusChurned, true},
		{ClientStatusProspect, ClientStatusActive, false},
		{ClientStatusOnboarding, ClientStatusActive, true},
		{ClientStatusOnboarding, ClientStatusChurned, true},
		{ClientStatusActive, ClientStatusChurned, true},
		{ClientStatusActive, ClientStatusOnboarding, false},
		{ClientStatusChurned, ClientStatusOnboarding, true},
		{ClientStatusChurned, ClientStatusActive, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestClientLifecycle(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.StartOnboarding())
	assert.Equal(t, ClientStatusOnboarding, c.Status)

	require.NoError(t, c.Activate())
	assert.True(t, c.IsActive())
	assert.NotNil(t, c.OnboardedAt)

	require.NoError(t, c.Churn())
	assert.True(t, c.IsChurned())
	assert.NotNil(t, c.ChurnedAt)

	// churned clients can be re-onboarded
	require.NoError(t, c.StartOnboarding())
	assert.Nil(t, c.ChurnedAt)
}

func TestClientInvalidTransitions(t *testing.T) {
	c := newTestClient(t)
	assert.Error(t, c.Activate())

	require.NoError(t, c.StartOnboarding())
	assert.Error(t, c.StartOnboarding())
}

func TestClientUpdate(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.Update("Dana R.", "Reyes Health", "+1 555 0100"))
	assert.Equal(t, "Dana R.", c.Name)
	assert.Equal(t, "Reyes Health", c.Company)
	assert.Equal(t, "+1 555 0100", c.Phone)

	assert.Error(t, c.Update("", "", ""))
}

func TestClientUpdateEmail(t *testing.T) {
	c := newTestClient(t)
	require.NoError(t, c.UpdateEmail("Billing@ReyesFitness.com"))
	assert.Equal(t, "billing@reyesfitness.com", c.Email)
	assert.Error(t, c.UpdateEmail("nope"))
}

func TestClientStripeLink(t *testing.T) {
	c := newTestClient(t)
	assert.False(t, c.HasStripeCustomer())

	require.NoError(t, c.SetStripeCustomerID("cus_123"))
	assert.True(t, c.HasStripeCustomer())

	// idempotent for the same ID, rejects relinking
	require.NoError(t, c.SetStripeCustomerID("cus_123"))
	assert.Error(t, c.SetStripeCustomerID("cus_456"))
	assert.Error(t, c.SetStripeCustomerID(""))
}
