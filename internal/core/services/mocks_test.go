package services_test

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/eduinvest/eduinvest_backend/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CourseRepository ---
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) SaveCourse(ctx context.Context, course domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) FindCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepository) FindCoursesByIDs(ctx context.Context, courseIDs []string) (map[string]domain.Course, error) {
	args := m.Called(ctx, courseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Course), args.Error(1)
}

func (m *MockCourseRepository) ListCoursesByStatus(ctx context.Context, status domain.CourseStatus, limit, offset int) ([]domain.Course, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepository) ListCoursesByCreator(ctx context.Context, creatorID string) ([]domain.Course, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepository) ListCourseIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCourseRepository) UpdateCourseStatus(ctx context.Context, courseID string, status domain.CourseStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, courseID, status, updatedBy, now)
	return args.Error(0)
}

var _ portsrepo.CourseRepositoryFacade = (*MockCourseRepository)(nil)

// --- Mock InventoryRepository ---
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetAvailability(ctx context.Context, courseID string) (int64, decimal.Decimal, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockInventoryRepository) Reserve(ctx context.Context, courseID, investorID string, quantity int64, ttl time.Duration) (*domain.Reservation, error) {
	args := m.Called(ctx, courseID, investorID, quantity, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockInventoryRepository) Release(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockInventoryRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

var _ portsrepo.InventoryRepositoryFacade = (*MockInventoryRepository)(nil)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntriesByCourse(ctx context.Context, courseID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByInvestor(ctx context.Context, investorID string, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, investorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CommitPurchase(ctx context.Context, reservation domain.Reservation, now time.Time) (*domain.Investment, *domain.LedgerEntry, *domain.Course, error) {
	args := m.Called(ctx, reservation, now)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.Investment), args.Get(1).(*domain.LedgerEntry), args.Get(2).(*domain.Course), args.Error(3)
}

func (m *MockLedgerRepository) CommitSale(ctx context.Context, investorID, courseID string, quantity int64, now time.Time) (*domain.Investment, *domain.LedgerEntry, *domain.Course, error) {
	args := m.Called(ctx, investorID, courseID, quantity, now)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.Investment), args.Get(1).(*domain.LedgerEntry), args.Get(2).(*domain.Course), args.Error(3)
}

func (m *MockLedgerRepository) DistributeRevenue(ctx context.Context, courseID string, gross decimal.Decimal, reportedBy string, now time.Time) (*domain.RevenueReport, error) {
	args := m.Called(ctx, courseID, gross, reportedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueReport), args.Error(1)
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

// --- Mock InvestmentRepository ---
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) FindInvestment(ctx context.Context, investorID, courseID string) (*domain.Investment, error) {
	args := m.Called(ctx, investorID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListInvestmentsByInvestor(ctx context.Context, investorID string) ([]domain.Investment, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListInvestmentsByCourse(ctx context.Context, courseID string) ([]domain.Investment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Investment), args.Error(1)
}

var _ portsrepo.InvestmentRepositoryFacade = (*MockInvestmentRepository)(nil)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Mock IdempotencyStore ---
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.IdempotencyStore = (*MockIdempotencyStore)(nil)

// --- Capturing publisher ---

// capturePublisher records every published event for assertions.
type capturePublisher struct {
	published []events.CourseEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev events.CourseEvent) {
	p.published = append(p.published, ev)
}

var _ events.Publisher = (*capturePublisher)(nil)
