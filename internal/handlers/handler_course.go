package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// courseHandler handles HTTP requests related to courses and their revenue.
type courseHandler struct {
	courseService  portssvc.CourseSvcFacade
	revenueService portssvc.RevenueSvcFacade
}

// registerCourseRoutes registers routes related to courses.
func registerCourseRoutes(rg *gin.RouterGroup, courseService portssvc.CourseSvcFacade, revenueService portssvc.RevenueSvcFacade) {
	h := &courseHandler{courseService: courseService, revenueService: revenueService}

	courses := rg.Group("/courses")
	{
		courses.POST("", middleware.RequireRole(domain.RoleCreator), h.createCourse)
		courses.GET("", h.listCourses)
		courses.GET("/:id", h.getCourse)
		courses.PUT("/:id/status", middleware.RequireRole(domain.RoleCreator), h.setCourseStatus)
		courses.POST("/:id/revenue", middleware.RequireRole(domain.RoleCreator), h.reportRevenue)
	}
	rg.GET("/creator/stats", middleware.RequireRole(domain.RoleCreator), h.getCreatorStats)
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a course with a fixed share inventory, open for investment immediately.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses [post]
func (h *courseHandler) createCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), creatorID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create course", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create course"})
		}
		return
	}

	logger.Info("Course created", slog.String("course_id", course.CourseID), slog.Int64("total_shares", course.TotalShares))
	c.JSON(http.StatusCreated, dto.ToCourseResponse(course))
}

// listCourses godoc
// @Summary List courses open for investment
// @Description Retrieves a paginated marketplace listing of active courses.
// @Tags courses
// @Produce json
// @Param limit query int false "Limit number of results" default(20)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.CourseResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses [get]
func (h *courseHandler) listCourses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	courses, err := h.courseService.ListActiveCourses(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list courses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list courses"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCourseResponses(courses))
}

// getCourse godoc
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *courseHandler) getCourse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID := c.Param("id")

	course, err := h.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		} else {
			logger.Error("Failed to get course", slog.String("course_id", courseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve course"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToCourseResponse(course))
}

// setCourseStatus godoc
// @Summary Transition a course's lifecycle status
// @Description Pauses, resumes or completes a course. Only the course creator may do this.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param status body dto.SetCourseStatusRequest true "Target status"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses/{id}/status [put]
func (h *courseHandler) setCourseStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID := c.Param("id")
	var req dto.SetCourseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	course, err := h.courseService.SetCourseStatus(c.Request.Context(), actorID, courseID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only the course creator may change its status"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to set course status", slog.String("course_id", courseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update course status"})
		}
		return
	}

	logger.Info("Course status updated", slog.String("course_id", courseID), slog.String("status", string(course.Status)))
	c.JSON(http.StatusOK, dto.ToCourseResponse(course))
}

// reportRevenue godoc
// @Summary Report gross course revenue
// @Description Records a revenue event and distributes the configured share across current holders.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param revenue body dto.ReportRevenueRequest true "Gross revenue amount"
// @Success 200 {object} dto.RevenueReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses/{id}/revenue [post]
func (h *courseHandler) reportRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID := c.Param("id")
	var req dto.ReportRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	reporterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.revenueService.ReportRevenue(c.Request.Context(), reporterID, courseID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only the course creator may report revenue"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to report revenue", slog.String("course_id", courseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to report revenue"})
		}
		return
	}

	logger.Info("Revenue reported",
		slog.String("course_id", courseID),
		slog.String("gross", report.Gross.String()),
		slog.Int("allocations", len(report.Allocations)))
	c.JSON(http.StatusOK, dto.ToRevenueReportResponse(report))
}

// getCreatorStats godoc
// @Summary Creator dashboard stats
// @Description Aggregates revenue, student counts and course counts across the creator's courses.
// @Tags courses
// @Produce json
// @Success 200 {object} dto.CreatorStatsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /creator/stats [get]
func (h *courseHandler) getCreatorStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.courseService.GetCreatorStats(c.Request.Context(), creatorID)
	if err != nil {
		logger.Error("Failed to get creator stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve creator stats"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCreatorStatsResponse(stats))
}
