package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/menulink/emenu-backend/internal/core/domain"
	"github.com/menulink/emenu-backend/internal/core/ports"
)

// MockVenueRepository is a mock implementation of ports.VenueRepository
type MockVenueRepository struct {
	mock.Mock
}

func NewMockVenueRepository() *MockVenueRepository {
	return &MockVenueRepository{}
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

// MockTableRepository is a mock implementation of ports.TableRepository
type MockTableRepository struct {
	mock.Mock
}

func NewMockTableRepository() *MockTableRepository {
	return &MockTableRepository{}
}

func (m *MockTableRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockTableRepository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Table, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Table), args.Error(1)
}

func (m *MockTableRepository) UpdateStatus(ctx context.Context, table *domain.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of ports.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Order, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) PublishOrderCreated(order *domain.Order, tableNumber string) {
	m.Called(order, tableNumber)
}

func (m *MockEventPublisher) PublishOrderStatusChanged(order *domain.Order, oldStatus, newStatus domain.OrderStatus, tableNumber string) {
	m.Called(order, oldStatus, newStatus, tableNumber)
}

func (m *MockEventPublisher) PublishTableStatusChanged(table *domain.Table, oldStatus, newStatus domain.TableStatus) {
	m.Called(table, oldStatus, newStatus)
}

func (m *MockEventPublisher) PublishSystemNotice(venueID uuid.UUID, title, body string, extra map[string]interface{}) {
	m.Called(venueID, title, body, extra)
}

func (m *MockEventPublisher) SendDirect(userID uuid.UUID, payload interface{}) {
	m.Called(userID, payload)
}

// MockAuthenticator is a mock implementation of ports.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

func (m *MockAuthenticator) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

// MockVenueStatusProvider is a mock implementation of ports.VenueStatusProvider
type MockVenueStatusProvider struct {
	mock.Mock
}

func NewMockVenueStatusProvider() *MockVenueStatusProvider {
	return &MockVenueStatusProvider{}
}

func (m *MockVenueStatusProvider) VenueStatus(ctx context.Context, venueID uuid.UUID) (*ports.VenueStatus, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.VenueStatus), args.Error(1)
}

// MockOrderService is a mock implementation of ports.OrderService
type MockOrderService struct {
	mock.Mock
}

func NewMockOrderService() *MockOrderService {
	return &MockOrderService{}
}

func (m *MockOrderService) CreateOrder(ctx context.Context, params ports.CreateOrderParams) (*domain.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, params ports.UpdateOrderStatusParams) (*domain.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// MockTableService is a mock implementation of ports.TableService
type MockTableService struct {
	mock.Mock
}

func NewMockTableService() *MockTableService {
	return &MockTableService{}
}

func (m *MockTableService) UpdateTableStatus(ctx context.Context, params ports.UpdateTableStatusParams) (*domain.Table, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}
