package content

import (
	"context"
	"testing"

	"github.com/agencyos/backend/internal/domain/content"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.Template, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]content.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByKind(ctx context.Context, kind content.TemplateKind, filter shared.Filter) ([]content.Template, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).([]content.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindApprovedByKind(ctx context.Context, kind content.TemplateKind) ([]content.Template, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]content.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *content.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestTemplateServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft email template", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		service := NewTemplateService(repo)

		repo.On("Save", ctx, mock.AnythingOfType("*content.Template")).Return(nil)

		resp, err := service.Create(ctx, CreateTemplateRequest{
			Name:    "Proposal follow-up",
			Kind:    "email",
			Subject: "Checking in on your proposal",
			Body:    "Hi {{name}}, just following up.",
		})
		require.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, "email", resp.Kind)
	})

	t.Run("email templates require a subject", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		service := NewTemplateService(repo)

		_, err := service.Create(ctx, CreateTemplateRequest{
			Name: "Broken",
			Kind: "email",
			Body: "body",
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTemplateServiceWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTemplateRepository)
	service := NewTemplateService(repo)

	template, err := content.NewTemplate("Proposal follow-up", content.TemplateKindEmail, "Checking in", "body")
	require.NoError(t, err)

	repo.On("FindByID", ctx, template.ID).Return(template, nil)
	repo.On("Save", ctx, template).Return(nil)

	resp, err := service.Approve(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.NotNil(t, resp.ApprovedAt)

	// editing an approved template drops it back to draft
	body := "updated body"
	resp, err = service.Update(ctx, template.ID, UpdateTemplateRequest{Body: &body})
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Status)
	assert.Nil(t, resp.ApprovedAt)

	_, err = service.Archive(ctx, template.ID)
	require.NoError(t, err)

	// archived templates are frozen
	_, err = service.Update(ctx, template.ID, UpdateTemplateRequest{Body: &body})
	assert.Error(t, err)
}
