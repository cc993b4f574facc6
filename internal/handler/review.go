package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/middleware"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// ReviewHandler exposes the review gate over HTTP
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates the review endpoints handler
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// UnreviewedOrders returns the caller's orders still eligible for review
func (h *ReviewHandler) UnreviewedOrders(c echo.Context) error {
	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	orders, err := h.reviews.UnreviewedOrders(claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// Submit accepts the caller's review of their own order
func (h *ReviewHandler) Submit(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req service.SubmitReviewInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse review request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.UserID = claims.UserID

	review, err := h.reviews.Submit(&req)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Review submitted",
		zap.Uint("id", review.ID),
		zap.Uint("order_id", review.OrderID),
		zap.Int("rating", review.Rating))
	return c.JSON(http.StatusCreated, review)
}
