package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockCourseRepo    *MockCourseRepository
	mockInventoryRepo *MockInventoryRepository
	mockLedgerRepo    *MockLedgerRepository
	mockIdempotency   *MockIdempotencyStore
	publisher         *capturePublisher
	service           portssvc.PurchaseSvcFacade

	course     domain.Course
	investorID string
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockCourseRepo = new(MockCourseRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockIdempotency = new(MockIdempotencyStore)
	suite.publisher = &capturePublisher{}
	suite.service = services.NewPurchaseService(
		suite.mockCourseRepo,
		suite.mockInventoryRepo,
		suite.mockLedgerRepo,
		suite.publisher,
		suite.mockIdempotency,
		30*time.Second,
	)

	suite.investorID = uuid.NewString()
	suite.course = domain.Course{
		CourseID:        uuid.NewString(),
		CreatorID:       uuid.NewString(),
		Title:           "Go Fundamentals",
		TotalShares:     100,
		AvailableShares: 40,
		SharePrice:      decimal.RequireFromString("25.00"),
		RevenueSharePct: decimal.RequireFromString("40"),
		Status:          domain.CourseStatusActive,
		LastSequenceNo:  7,
	}
}

func (suite *PurchaseServiceTestSuite) reservationFor(quantity int64) *domain.Reservation {
	return &domain.Reservation{
		Token:              uuid.NewString(),
		CourseID:           suite.course.CourseID,
		InvestorID:         suite.investorID,
		Quantity:           quantity,
		PriceAtReservation: suite.course.SharePrice,
		ExpiresAt:          time.Now().Add(30 * time.Second),
		CreatedAt:          time.Now(),
	}
}

func (suite *PurchaseServiceTestSuite) TestPurchaseShares_Success() {
	ctx := context.Background()
	reservation := suite.reservationFor(10)

	updatedCourse := suite.course
	updatedCourse.AvailableShares = 30
	updatedCourse.LastSequenceNo = 8
	entry := &domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CourseID:    suite.course.CourseID,
		SequenceNo:  8,
		InvestorID:  suite.investorID,
		Kind:        domain.EntryPurchase,
		SharesDelta: 10,
		Amount:      decimal.RequireFromString("250.00"),
		CreatedAt:   time.Now(),
	}
	investment := &domain.Investment{
		InvestmentID: uuid.NewString(),
		InvestorID:   suite.investorID,
		CourseID:     suite.course.CourseID,
		SharesOwned:  10,
		CostBasis:    decimal.RequireFromString("250.00"),
		Status:       domain.InvestmentStatusActive,
	}

	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&suite.course, nil).Once()
	suite.mockInventoryRepo.On("Reserve", ctx, suite.course.CourseID, suite.investorID, int64(10), 30*time.Second).
		Return(reservation, nil).Once()
	suite.mockLedgerRepo.On("CommitPurchase", ctx, *reservation, mock.AnythingOfType("time.Time")).
		Return(investment, entry, &updatedCourse, nil).Once()

	got, err := suite.service.PurchaseShares(ctx, suite.investorID, suite.course.CourseID, 10, "")

	suite.Require().NoError(err)
	suite.Equal(int64(10), got.SharesOwned)

	// One event per committed entry, carrying post-commit availability.
	suite.Require().Len(suite.publisher.published, 1)
	suite.Equal(domain.EntryPurchase, suite.publisher.published[0].Kind)
	suite.Equal(int64(30), suite.publisher.published[0].AvailableShares)
	suite.Equal(int64(8), suite.publisher.published[0].SequenceNo)

	suite.mockCourseRepo.AssertExpectations(suite.T())
	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestPurchaseShares_RejectsNonPositiveQuantity() {
	ctx := context.Background()

	for _, quantity := range []int64{0, -5} {
		_, err := suite.service.PurchaseShares(ctx, suite.investorID, suite.course.CourseID, quantity, "")
		suite.Require().ErrorIs(err, apperrors.ErrValidation)
	}
	// Rejected before any repository is touched.
	suite.mockCourseRepo.AssertNotCalled(suite.T(), "FindCourseByID", mock.Anything, mock.Anything)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestPurchaseShares_DuplicateIdempotencyKey() {
	ctx := context.Background()

	suite.mockIdempotency.On("Acquire", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
		Return(false, nil).Once()

	_, err := suite.service.PurchaseShares(ctx, suite.investorID, suite.course.CourseID, 5, "client-key-1")

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockIdempotency.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestPurchaseShares_CourseNotActive() {
	ctx := context.Background()
	paused := suite.course
	paused.Status = domain.CourseStatusPaused

	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&paused, nil).Once()

	_, err := suite.service.PurchaseShares(ctx, suite.investorID, suite.course.CourseID, 5, "")

	suite.Require().ErrorIs(err, apperrors.ErrCourseNotActive)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestPurchaseShares_InsufficientShares() {
	ctx := context.Background()

	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&suite.course, nil).Once()
	suite.mockInventoryRepo.On("Reserve", ctx, suite.course.CourseID, suite.investorID, int64(50), 30*time.Second).
		Return(nil, apperrors.ErrInsufficientShares).Once()

	_, err := suite.service.PurchaseShares(ctx, suite.investorID, suite.course.CourseID, 50, "")

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientShares)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "CommitPurchase", mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.published)
}

func (suite *PurchaseServiceTestSuite) TestPurchaseShares_CommitFailureReleasesReservation() {
	ctx := context.Background()
	reservation := suite.reservationFor(10)

	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&suite.course, nil).Once()
	suite.mockInventoryRepo.On("Reserve", ctx, suite.course.CourseID, suite.investorID, int64(10), 30*time.Second).
		Return(reservation, nil).Once()
	suite.mockLedgerRepo.On("CommitPurchase", ctx, *reservation, mock.AnythingOfType("time.Time")).
		Return(nil, nil, nil, apperrors.NewAppError(500, "db down", nil)).Once()
	suite.mockInventoryRepo.On("Release", ctx, reservation.Token).Return(nil).Once()

	_, err := suite.service.PurchaseShares(ctx, suite.investorID, suite.course.CourseID, 10, "")

	suite.Require().Error(err)
	suite.Empty(suite.publisher.published)
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestSellShares_Success() {
	ctx := context.Background()

	updatedCourse := suite.course
	updatedCourse.AvailableShares = 45
	updatedCourse.LastSequenceNo = 8
	entry := &domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CourseID:    suite.course.CourseID,
		SequenceNo:  8,
		InvestorID:  suite.investorID,
		Kind:        domain.EntrySale,
		SharesDelta: -5,
		Amount:      decimal.RequireFromString("125.00"),
		CreatedAt:   time.Now(),
	}
	investment := &domain.Investment{
		InvestmentID: uuid.NewString(),
		InvestorID:   suite.investorID,
		CourseID:     suite.course.CourseID,
		SharesOwned:  5,
		CostBasis:    decimal.RequireFromString("125.00"),
		Status:       domain.InvestmentStatusActive,
	}

	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&suite.course, nil).Once()
	suite.mockLedgerRepo.On("CommitSale", ctx, suite.investorID, suite.course.CourseID, int64(5), mock.AnythingOfType("time.Time")).
		Return(investment, entry, &updatedCourse, nil).Once()

	got, err := suite.service.SellShares(ctx, suite.investorID, suite.course.CourseID, 5)

	suite.Require().NoError(err)
	suite.Equal(int64(5), got.SharesOwned)
	suite.Require().Len(suite.publisher.published, 1)
	suite.Equal(domain.EntrySale, suite.publisher.published[0].Kind)
	suite.Equal(int64(45), suite.publisher.published[0].AvailableShares)
}

func (suite *PurchaseServiceTestSuite) TestSellShares_InsufficientHoldings() {
	ctx := context.Background()

	suite.mockCourseRepo.On("FindCourseByID", ctx, suite.course.CourseID).Return(&suite.course, nil).Once()
	suite.mockLedgerRepo.On("CommitSale", ctx, suite.investorID, suite.course.CourseID, int64(500), mock.AnythingOfType("time.Time")).
		Return(nil, nil, nil, apperrors.ErrInsufficientHoldings).Once()

	_, err := suite.service.SellShares(ctx, suite.investorID, suite.course.CourseID, 500)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientHoldings)
	suite.Empty(suite.publisher.published)
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
