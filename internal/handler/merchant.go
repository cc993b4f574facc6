package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// MerchantHandler exposes the merchant registry over HTTP
type MerchantHandler struct {
	merchants *service.MerchantService
}

// NewMerchantHandler creates the merchant endpoints handler
func NewMerchantHandler(merchants *service.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

// Register handles merchant registration
func (h *MerchantHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req service.RegisterMerchantInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse merchant registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	merchant, err := h.merchants.Register(&req)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Merchant registered",
		zap.Uint("id", merchant.ID),
		zap.String("name", merchant.Name),
		zap.String("email", merchant.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Merchant registered successfully",
		"merchant": merchant,
	})
}

// AttachDocuments replaces the merchant's vetting document set
func (h *MerchantHandler) AttachDocuments(c echo.Context) error {
	log := logger.FromEcho(c)

	merchantID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid merchant ID"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		log.Error("Failed to parse multipart form", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var uploads []*service.Upload
	for _, fh := range form.File["documents"] {
		u, err := readUpload(fh)
		if err != nil {
			log.Error("Failed to read uploaded document", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read uploaded file"})
		}
		uploads = append(uploads, u)
	}

	description := c.FormValue("description")

	if err := h.merchants.AttachDocuments(uint(merchantID), uploads, description); err != nil {
		return respondError(c, err)
	}

	log.Info("Merchant documents attached",
		zap.Uint64("merchant_id", merchantID),
		zap.Int("count", len(uploads)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Documents uploaded successfully"})
}

// ListPending returns the paginated PENDING merchant queue
func (h *MerchantHandler) ListPending(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	merchants, err := h.merchants.ListPending(page, pageSize)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, merchants)
}

// Transition approves or rejects a pending merchant
func (h *MerchantHandler) Transition(c echo.Context) error {
	log := logger.FromEcho(c)

	merchantID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid merchant ID"})
	}

	var req struct {
		Status model.MerchantStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse transition request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	merchant, err := h.merchants.Transition(uint(merchantID), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Merchant status transitioned",
		zap.Uint("id", merchant.ID),
		zap.String("status", string(merchant.Status)))
	return c.JSON(http.StatusOK, merchant)
}

// FindIDByEmail resolves a merchant id from its registration email
func (h *MerchantHandler) FindIDByEmail(c echo.Context) error {
	email := c.Param("email")

	id, err := h.merchants.FindIDByEmail(email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"merchant_id": id})
}

func parseID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 32)
}
