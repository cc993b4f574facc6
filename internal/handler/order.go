package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/middleware"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// OrderHandler exposes the order ledger over HTTP
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates the order endpoints handler
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create appends an order to the ledger for the authenticated customer
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req service.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.CustomerID = claims.UserID

	order, err := h.orders.Create(&req)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Order created",
		zap.Uint("id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("customer_id", order.CustomerID))
	return c.JSON(http.StatusCreated, echo.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
}

// Get returns one ledger entry
func (h *OrderHandler) Get(c echo.Context) error {
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order ID"})
	}

	order, err := h.orders.GetByID(uint(orderID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}
