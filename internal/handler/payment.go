package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/paypal"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// PaymentHandler exposes the payment reconciler and the processor checkout
// boundary over HTTP.
type PaymentHandler struct {
	payments *service.PaymentService
	checkout *paypal.Client
}

// NewPaymentHandler creates the payment endpoints handler
func NewPaymentHandler(payments *service.PaymentService, checkout *paypal.Client) *PaymentHandler {
	return &PaymentHandler{payments: payments, checkout: checkout}
}

// CreateCheckout creates a processor-side order and returns its external id
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		ItemDescription string  `json:"item_description"`
		Subtotal        float64 `json:"subtotal"`
		Tax             float64 `json:"tax"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse checkout request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Subtotal <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subtotal must be positive"})
	}

	externalID, err := h.checkout.CreateCheckout(c.Request().Context(), req.ItemDescription, req.Subtotal, req.Tax)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Checkout created", zap.String("external_order_id", externalID))
	return c.JSON(http.StatusCreated, echo.Map{"external_order_id": externalID})
}

// Save records a payment the processor captured for an order
func (h *PaymentHandler) Save(c echo.Context) error {
	log := logger.FromEcho(c)

	var req service.SavePaymentInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse payment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	payment, err := h.payments.Save(&req)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Payment recorded",
		zap.Uint("id", payment.ID),
		zap.Uint("order_id", payment.OrderID),
		zap.String("transaction_id", payment.TransactionID))
	return c.JSON(http.StatusCreated, payment)
}

// FindByExternalID looks a payment up by processor transaction id
func (h *PaymentHandler) FindByExternalID(c echo.Context) error {
	transactionID := c.Param("transaction_id")

	payment, err := h.payments.FindByExternalID(transactionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}
