package automation

import (
	"context"
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/content"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFlowRepository is a mock implementation of FlowRepository
type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) FindByID(ctx context.Context, id uuid.UUID) (*automation.Flow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Flow), args.Error(1)
}

func (m *MockFlowRepository) FindAll(ctx context.Context, filter shared.Filter) ([]automation.Flow, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]automation.Flow), args.Error(1)
}

func (m *MockFlowRepository) FindByStatus(ctx context.Context, status automation.FlowStatus, filter shared.Filter) ([]automation.Flow, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]automation.Flow), args.Error(1)
}

func (m *MockFlowRepository) Save(ctx context.Context, flow *automation.Flow) error {
	args := m.Called(ctx, flow)
	return args.Error(0)
}

func (m *MockFlowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlowRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*automation.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByFlow(ctx context.Context, flowID uuid.UUID, filter shared.Filter) ([]automation.Enrollment, error) {
	args := m.Called(ctx, flowID, filter)
	return args.Get(0).([]automation.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]automation.Enrollment, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]automation.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindActiveByFlowAndClient(ctx context.Context, flowID, clientID uuid.UUID) (*automation.Enrollment, error) {
	args := m.Called(ctx, flowID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*automation.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]automation.Enrollment, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]automation.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Save(ctx context.Context, enrollment *automation.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

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

// MockEmailSender is a mock implementation of EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
