package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/eduinvest/eduinvest_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// investmentHandler handles share purchases, sales and the investor dashboard.
type investmentHandler struct {
	purchaseService   portssvc.PurchaseSvcFacade
	investmentService portssvc.InvestmentSvcFacade
}

// registerInvestmentRoutes registers routes for buying, selling and viewing investments.
func registerInvestmentRoutes(rg *gin.RouterGroup, cfg *config.Config, purchaseService portssvc.PurchaseSvcFacade, investmentService portssvc.InvestmentSvcFacade) {
	h := &investmentHandler{purchaseService: purchaseService, investmentService: investmentService}

	// The purchase path holds inventory, so it gets a per-IP limit.
	rate, err := limiter.NewRateFromFormatted(cfg.PurchaseRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("60-M")
	}
	purchaseLimiter := limiter.New(memory.NewStore(), rate)

	courses := rg.Group("/courses")
	{
		courses.POST("/:id/purchase", middleware.RateLimit(purchaseLimiter), h.purchaseShares)
		courses.POST("/:id/sell", h.sellShares)
	}
	investments := rg.Group("/investments")
	{
		investments.GET("", h.listInvestments)
		investments.GET("/history", h.getTransactionHistory)
	}
}

// purchaseShares godoc
// @Summary Purchase course shares
// @Description Buys shares of a course at the current share price. All-or-nothing: the full quantity is committed or the request fails.
// @Tags investments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param purchase body dto.PurchaseSharesRequest true "Quantity and optional idempotency key"
// @Success 201 {object} dto.InvestmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient shares, inactive course or duplicate request"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses/{id}/purchase [post]
func (h *investmentHandler) purchaseShares(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID := c.Param("id")
	var req dto.PurchaseSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	investorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	investment, err := h.purchaseService.PurchaseShares(c.Request.Context(), investorID, courseID, req.Quantity, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Duplicate purchase request"})
		case errors.Is(err, apperrors.ErrCourseNotActive):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Course is not open for investment"})
		case errors.Is(err, apperrors.ErrInsufficientShares):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrReservationExpired):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Purchase could not be completed in time, please retry"})
		default:
			logger.Error("Failed to purchase shares", slog.String("course_id", courseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to purchase shares"})
		}
		return
	}

	logger.Info("Shares purchased",
		slog.String("course_id", courseID),
		slog.Int64("quantity", req.Quantity),
		slog.Int64("shares_owned", investment.SharesOwned))
	c.JSON(http.StatusCreated, dto.ToInvestmentResponse(investment, nil))
}

// sellShares godoc
// @Summary Sell course shares back
// @Description Sells shares back at the current share price, returning them to the course's availability.
// @Tags investments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param sale body dto.SellSharesRequest true "Quantity to sell"
// @Success 200 {object} dto.InvestmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient holdings"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /courses/{id}/sell [post]
func (h *investmentHandler) sellShares(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	courseID := c.Param("id")
	var req dto.SellSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	investorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	investment, err := h.purchaseService.SellShares(c.Request.Context(), investorID, courseID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Course not found"})
		case errors.Is(err, apperrors.ErrInsufficientHoldings):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to sell shares", slog.String("course_id", courseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sell shares"})
		}
		return
	}

	logger.Info("Shares sold",
		slog.String("course_id", courseID),
		slog.Int64("quantity", req.Quantity),
		slog.Int64("shares_owned", investment.SharesOwned))
	c.JSON(http.StatusOK, dto.ToInvestmentResponse(investment, nil))
}

// listInvestments godoc
// @Summary List the investor's positions
// @Description Retrieves all positions enriched with current value and ROI at each course's current share price.
// @Tags investments
// @Produce json
// @Success 200 {array} dto.InvestmentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /investments [get]
func (h *investmentHandler) listInvestments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	investments, err := h.investmentService.ListInvestments(c.Request.Context(), investorID)
	if err != nil {
		logger.Error("Failed to list investments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list investments"})
		return
	}
	c.JSON(http.StatusOK, investments)
}

// getTransactionHistory godoc
// @Summary Investor transaction history
// @Description Retrieves the investor's ledger entries, newest first.
// @Tags investments
// @Produce json
// @Param limit query int false "Limit number of results" default(50)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /investments/history [get]
func (h *investmentHandler) getTransactionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.investmentService.GetTransactionHistory(c.Request.Context(), investorID, limit, offset)
	if err != nil {
		logger.Error("Failed to get transaction history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transaction history"})
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}
