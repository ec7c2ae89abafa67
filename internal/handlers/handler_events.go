package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/events"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// eventsHandler streams per-course availability events to dashboards.
type eventsHandler struct {
	courseService portssvc.CourseSvcFacade
	subscriber    events.Subscriber
}

// registerEventRoutes registers the live course event stream.
func registerEventRoutes(rg *gin.RouterGroup, courseService portssvc.CourseSvcFacade, subscriber events.Subscriber) {
	h := &eventsHandler{courseService: courseService, subscriber: subscriber}
	rg.GET("/courses/:id/events", h.streamCourseEvents)
}

// streamCourseEvents godoc
// @Summary Stream course events
// @Description Server-sent events for a course: one event per committed ledger entry with fresh availability and price. Events are refresh hints and may be dropped under load.
// @Tags courses
// @Produce text/event-stream
// @Param id path string true "Course ID"
// @Success 200 {object} events.CourseEvent
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses/{id}/events [get]
func (h *eventsHandler) streamCourseEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID := c.Param("id")

	// Validate the course exists before holding the connection open.
	if _, err := h.courseService.GetCourse(c.Request.Context(), courseID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		} else {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve course"})
		}
		return
	}

	ch, cancel := h.subscriber.Subscribe(courseID)
	defer cancel()

	logger.Info("Course event stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("course", ev)
			return true
		}
	})
}
