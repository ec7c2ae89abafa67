package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CourseService ---
type MockCourseService struct {
	mock.Mock
}

func (m *MockCourseService) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseService) ListActiveCourses(ctx context.Context, limit, offset int) ([]domain.Course, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseService) GetCreatorStats(ctx context.Context, creatorID string) (*domain.CreatorStats, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreatorStats), args.Error(1)
}

func (m *MockCourseService) CreateCourse(ctx context.Context, creatorID string, req dto.CreateCourseRequest) (*domain.Course, error) {
	args := m.Called(ctx, creatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseService) SetCourseStatus(ctx context.Context, actorID string, courseID string, status domain.CourseStatus) (*domain.Course, error) {
	args := m.Called(ctx, actorID, courseID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

var _ portssvc.CourseSvcFacade = (*MockCourseService)(nil)

// --- Mock RevenueService ---
type MockRevenueService struct {
	mock.Mock
}

func (m *MockRevenueService) ReportRevenue(ctx context.Context, reporterID, courseID string, gross decimal.Decimal) (*domain.RevenueReport, error) {
	args := m.Called(ctx, reporterID, courseID, gross)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevenueReport), args.Error(1)
}

var _ portssvc.RevenueSvcFacade = (*MockRevenueService)(nil)

// --- Test Suite ---
type CourseHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCourseService  *MockCourseService
	mockRevenueService *MockRevenueService
	jwtSecret          string
}

func (suite *CourseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()

	suite.mockCourseService = new(MockCourseService)
	suite.mockRevenueService = new(MockRevenueService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerCourseRoutes(v1, suite.mockCourseService, suite.mockRevenueService)
}

func (suite *CourseHandlerTestSuite) token(userID string, role domain.UserRole) string {
	return signTestToken(suite.T(), suite.jwtSecret, userID, role)
}

func sampleCourse(creatorID string) *domain.Course {
	return &domain.Course{
		CourseID:        uuid.NewString(),
		CreatorID:       creatorID,
		Title:           "Practical Go",
		TotalShares:     100,
		AvailableShares: 100,
		SharePrice:      decimal.RequireFromString("10.00"),
		RevenueSharePct: decimal.RequireFromString("40"),
		Status:          domain.CourseStatusActive,
	}
}

// --- Test Cases ---

func (suite *CourseHandlerTestSuite) TestCreateCourse_Success() {
	creatorID := uuid.NewString()
	course := sampleCourse(creatorID)

	suite.mockCourseService.On("CreateCourse", mock.Anything, creatorID, mock.AnythingOfType("dto.CreateCourseRequest")).
		Return(course, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, "/api/v1/courses",
		suite.token(creatorID, domain.RoleCreator),
		dto.CreateCourseRequest{
			Title:           "Practical Go",
			Price:           decimal.RequireFromString("99.00"),
			TotalShares:     100,
			SharePrice:      decimal.RequireFromString("10.00"),
			RevenueSharePct: decimal.RequireFromString("40"),
		})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.CourseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(course.CourseID, resp.CourseID)
	suite.Equal(int64(100), resp.AvailableShares)
	suite.mockCourseService.AssertExpectations(suite.T())
}

func (suite *CourseHandlerTestSuite) TestCreateCourse_ForbiddenForInvestors() {
	w := doRequest(suite.T(), suite.router, http.MethodPost, "/api/v1/courses",
		suite.token(uuid.NewString(), domain.RoleInvestor),
		dto.CreateCourseRequest{
			Title:           "Practical Go",
			Price:           decimal.RequireFromString("99.00"),
			TotalShares:     100,
			SharePrice:      decimal.RequireFromString("10.00"),
			RevenueSharePct: decimal.RequireFromString("40"),
		})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockCourseService.AssertNotCalled(suite.T(), "CreateCourse",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CourseHandlerTestSuite) TestGetCourse_NotFound() {
	courseID := uuid.NewString()
	suite.mockCourseService.On("GetCourse", mock.Anything, courseID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := doRequest(suite.T(), suite.router, http.MethodGet, "/api/v1/courses/"+courseID,
		suite.token(uuid.NewString(), domain.RoleInvestor), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *CourseHandlerTestSuite) TestListCourses_PassesPagination() {
	suite.mockCourseService.On("ListActiveCourses", mock.Anything, 5, 10).
		Return([]domain.Course{*sampleCourse(uuid.NewString())}, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodGet, "/api/v1/courses?limit=5&offset=10",
		suite.token(uuid.NewString(), domain.RoleInvestor), nil)

	suite.Equal(http.StatusOK, w.Code)
	var got []dto.CourseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got, 1)
	suite.mockCourseService.AssertExpectations(suite.T())
}

func (suite *CourseHandlerTestSuite) TestReportRevenue_Success() {
	creatorID := uuid.NewString()
	course := sampleCourse(creatorID)
	course.AvailableShares = 60
	course.CumulativeRevenue = decimal.RequireFromString("1000.00")

	report := &domain.RevenueReport{
		CourseID:      course.CourseID,
		Gross:         decimal.RequireFromString("1000.00"),
		ShareablePool: decimal.RequireFromString("400.00"),
		SoldShares:    40,
		Allocations: []domain.RevenueAllocation{
			{InvestorID: "inv-a", Shares: 30, Amount: decimal.RequireFromString("300.00")},
			{InvestorID: "inv-b", Shares: 10, Amount: decimal.RequireFromString("100.00")},
		},
		Residual: decimal.Zero,
		Course:   *course,
	}

	suite.mockRevenueService.On("ReportRevenue", mock.Anything, creatorID, course.CourseID,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("1000.00")) })).
		Return(report, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, "/api/v1/courses/"+course.CourseID+"/revenue",
		suite.token(creatorID, domain.RoleCreator),
		dto.ReportRevenueRequest{Amount: decimal.RequireFromString("1000.00")})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.RevenueReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Allocations, 2)
	suite.True(resp.ShareablePool.Equal(decimal.RequireFromString("400.00")))
	suite.mockRevenueService.AssertExpectations(suite.T())
}

func (suite *CourseHandlerTestSuite) TestReportRevenue_ForbiddenForNonCreator() {
	reporterID := uuid.NewString()
	courseID := uuid.NewString()

	suite.mockRevenueService.On("ReportRevenue", mock.Anything, reporterID, courseID, mock.Anything).
		Return(nil, apperrors.ErrForbidden).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, "/api/v1/courses/"+courseID+"/revenue",
		suite.token(reporterID, domain.RoleCreator),
		dto.ReportRevenueRequest{Amount: decimal.RequireFromString("50.00")})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *CourseHandlerTestSuite) TestSetCourseStatus_RejectsUnknownStatus() {
	w := doRequest(suite.T(), suite.router, http.MethodPut, "/api/v1/courses/some-course/status",
		suite.token(uuid.NewString(), domain.RoleCreator),
		gin.H{"status": "ARCHIVED"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCourseService.AssertNotCalled(suite.T(), "SetCourseStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CourseHandlerTestSuite))
}
