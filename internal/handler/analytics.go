package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// AnalyticsHandler exposes the read-only aggregates over HTTP
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates the analytics endpoints handler
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// ProductAnalytics returns one merchant's product sales aggregate
func (h *AnalyticsHandler) ProductAnalytics(c echo.Context) error {
	merchantID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid merchant ID"})
	}

	report, err := h.analytics.ProductAnalytics(uint(merchantID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// PurchasingPowerAnalytics returns one merchant's customer spending aggregate
func (h *AnalyticsHandler) PurchasingPowerAnalytics(c echo.Context) error {
	merchantID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid merchant ID"})
	}

	report, err := h.analytics.PurchasingPowerAnalytics(uint(merchantID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// AllMerchantAnalytics returns the fleet-wide aggregate over approved merchants
func (h *AnalyticsHandler) AllMerchantAnalytics(c echo.Context) error {
	report, err := h.analytics.AllMerchantAnalytics()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}
