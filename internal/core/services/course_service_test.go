package services_test

import (
	"context"
	"testing"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/core/services"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CourseServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCourseRepository
	service  portssvc.CourseSvcFacade
}

func (suite *CourseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCourseRepository)
	suite.service = services.NewCourseService(suite.mockRepo)
}

func validCreateRequest() dto.CreateCourseRequest {
	return dto.CreateCourseRequest{
		Title:           "Distributed Systems in Go",
		Description:     "From channels to consensus",
		Category:        "engineering",
		Price:           decimal.RequireFromString("49.99"),
		TotalShares:     200,
		SharePrice:      decimal.RequireFromString("12.50"),
		RevenueSharePct: decimal.RequireFromString("35"),
	}
}

func (suite *CourseServiceTestSuite) TestCreateCourse_Success() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	req := validCreateRequest()

	suite.mockRepo.On("SaveCourse", ctx, mock.MatchedBy(func(c domain.Course) bool {
		return c.CreatorID == creatorID &&
			c.TotalShares == req.TotalShares &&
			c.AvailableShares == req.TotalShares &&
			c.Status == domain.CourseStatusActive &&
			c.LastSequenceNo == 0 &&
			c.CumulativeRevenue.IsZero()
	})).Return(nil).Once()

	course, err := suite.service.CreateCourse(ctx, creatorID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(course)
	// Every share starts available; the inventory is fixed from here on.
	suite.Equal(req.TotalShares, course.AvailableShares)
	suite.Equal(domain.CourseStatusActive, course.Status)
	suite.Equal(creatorID, course.CreatedBy)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CourseServiceTestSuite) TestCreateCourse_Validation() {
	ctx := context.Background()
	creatorID := uuid.NewString()

	cases := []struct {
		name   string
		mutate func(*dto.CreateCourseRequest)
	}{
		{"zero total shares", func(r *dto.CreateCourseRequest) { r.TotalShares = 0 }},
		{"zero share price", func(r *dto.CreateCourseRequest) { r.SharePrice = decimal.Zero }},
		{"negative course price", func(r *dto.CreateCourseRequest) { r.Price = decimal.RequireFromString("-1") }},
		{"pct over 100", func(r *dto.CreateCourseRequest) { r.RevenueSharePct = decimal.RequireFromString("100.01") }},
		{"negative pct", func(r *dto.CreateCourseRequest) { r.RevenueSharePct = decimal.RequireFromString("-5") }},
	}
	for _, tc := range cases {
		req := validCreateRequest()
		tc.mutate(&req)
		_, err := suite.service.CreateCourse(ctx, creatorID, req)
		suite.Require().ErrorIs(err, apperrors.ErrValidation, tc.name)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCourse", mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestListActiveCourses_ClampsPagination() {
	ctx := context.Background()

	suite.mockRepo.On("ListCoursesByStatus", ctx, domain.CourseStatusActive, 20, 0).
		Return([]domain.Course{}, nil).Twice()

	_, err := suite.service.ListActiveCourses(ctx, -1, -10)
	suite.Require().NoError(err)
	_, err = suite.service.ListActiveCourses(ctx, 5000, 0)
	suite.Require().NoError(err)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CourseServiceTestSuite) TestSetCourseStatus_OnlyCreator() {
	ctx := context.Background()
	course := domain.Course{
		CourseID:  uuid.NewString(),
		CreatorID: uuid.NewString(),
		Status:    domain.CourseStatusActive,
	}

	suite.mockRepo.On("FindCourseByID", ctx, course.CourseID).Return(&course, nil).Once()

	_, err := suite.service.SetCourseStatus(ctx, uuid.NewString(), course.CourseID, domain.CourseStatusPaused)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCourseStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestSetCourseStatus_Success() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	course := domain.Course{
		CourseID:  uuid.NewString(),
		CreatorID: creatorID,
		Status:    domain.CourseStatusActive,
	}

	suite.mockRepo.On("FindCourseByID", ctx, course.CourseID).Return(&course, nil).Once()
	suite.mockRepo.On("UpdateCourseStatus", ctx, course.CourseID, domain.CourseStatusCompleted, creatorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	updated, err := suite.service.SetCourseStatus(ctx, creatorID, course.CourseID, domain.CourseStatusCompleted)

	suite.Require().NoError(err)
	suite.Equal(domain.CourseStatusCompleted, updated.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CourseServiceTestSuite) TestSetCourseStatus_RejectsUnknownStatus() {
	ctx := context.Background()

	_, err := suite.service.SetCourseStatus(ctx, uuid.NewString(), uuid.NewString(), domain.CourseStatus("ARCHIVED"))

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCourseByID", mock.Anything, mock.Anything)
}

func (suite *CourseServiceTestSuite) TestGetCreatorStats_Aggregates() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	courses := []domain.Course{
		{
			CourseID:          uuid.NewString(),
			Status:            domain.CourseStatusActive,
			CumulativeRevenue: decimal.RequireFromString("1500.00"),
			StudentCount:      30,
		},
		{
			CourseID:          uuid.NewString(),
			Status:            domain.CourseStatusCompleted,
			CumulativeRevenue: decimal.RequireFromString("420.50"),
			StudentCount:      12,
		},
		{
			CourseID:          uuid.NewString(),
			Status:            domain.CourseStatusDraft,
			CumulativeRevenue: decimal.Zero,
			StudentCount:      0,
		},
	}

	suite.mockRepo.On("ListCoursesByCreator", ctx, creatorID).Return(courses, nil).Once()

	stats, err := suite.service.GetCreatorStats(ctx, creatorID)

	suite.Require().NoError(err)
	suite.Equal(3, stats.TotalCourses)
	suite.Equal(1, stats.ActiveCourses)
	suite.Equal(int64(42), stats.TotalStudents)
	suite.True(stats.TotalRevenue.Equal(decimal.RequireFromString("1920.50")))
}

func TestCourseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CourseServiceTestSuite))
}
