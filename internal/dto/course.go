package dto

import (
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCourseRequest defines the data needed to create a new course.
// TotalShares and the revenue share percentage are fixed at creation.
type CreateCourseRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	TotalShares     int64           `json:"totalShares" binding:"required,min=1"`
	SharePrice      decimal.Decimal `json:"sharePrice" binding:"required"`
	RevenueSharePct decimal.Decimal `json:"revenueSharePct" binding:"required"`
}

// SetCourseStatusRequest transitions a course's lifecycle status.
type SetCourseStatusRequest struct {
	Status domain.CourseStatus `json:"status" binding:"required,oneof=DRAFT ACTIVE PAUSED COMPLETED"`
}

// CourseResponse defines the data returned for a course, including the
// course-level advertised ROI used for marketplace ranking.
type CourseResponse struct {
	CourseID          string              `json:"courseID"`
	CreatorID         string              `json:"creatorID"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Category          string              `json:"category"`
	Price             decimal.Decimal     `json:"price"`
	TotalShares       int64               `json:"totalShares"`
	AvailableShares   int64               `json:"availableShares"`
	SharePrice        decimal.Decimal     `json:"sharePrice"`
	RevenueSharePct   decimal.Decimal     `json:"revenueSharePct"`
	CumulativeRevenue decimal.Decimal     `json:"cumulativeRevenue"`
	StudentCount      int64               `json:"studentCount"`
	Status            domain.CourseStatus `json:"status"`
	AdvertisedROI     decimal.Decimal     `json:"advertisedROI"`
	CreatedAt         time.Time           `json:"createdAt"`
}

// ToCourseResponse converts a domain.Course to CourseResponse.
func ToCourseResponse(c *domain.Course) CourseResponse {
	return CourseResponse{
		CourseID:          c.CourseID,
		CreatorID:         c.CreatorID,
		Title:             c.Title,
		Description:       c.Description,
		Category:          c.Category,
		Price:             c.Price,
		TotalShares:       c.TotalShares,
		AvailableShares:   c.AvailableShares,
		SharePrice:        c.SharePrice,
		RevenueSharePct:   c.RevenueSharePct,
		CumulativeRevenue: c.CumulativeRevenue,
		StudentCount:      c.StudentCount,
		Status:            c.Status,
		AdvertisedROI:     c.AdvertisedROI(),
		CreatedAt:         c.CreatedAt,
	}
}

// ToCourseResponses converts a slice of courses.
func ToCourseResponses(courses []domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, ToCourseResponse(&courses[i]))
	}
	return out
}

// CreatorStatsResponse mirrors domain.CreatorStats for the creator dashboard.
type CreatorStatsResponse struct {
	CreatorID     string          `json:"creatorID"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalStudents int64           `json:"totalStudents"`
	ActiveCourses int             `json:"activeCourses"`
	TotalCourses  int             `json:"totalCourses"`
}

// ToCreatorStatsResponse converts domain.CreatorStats.
func ToCreatorStatsResponse(s *domain.CreatorStats) CreatorStatsResponse {
	return CreatorStatsResponse{
		CreatorID:     s.CreatorID,
		TotalRevenue:  s.TotalRevenue,
		TotalStudents: s.TotalStudents,
		ActiveCourses: s.ActiveCourses,
		TotalCourses:  s.TotalCourses,
	}
}
