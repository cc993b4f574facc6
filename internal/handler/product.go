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

// ProductHandler exposes the catalog over HTTP
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler creates the product endpoints handler
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// bindProductForm reads the multipart product fields and optional image
func bindProductForm(c echo.Context) (name, description, category string, price float64, image *service.Upload, err error) {
	name = c.FormValue("name")
	description = c.FormValue("description")
	category = c.FormValue("category")
	price, _ = strconv.ParseFloat(c.FormValue("price"), 64)

	fh, fErr := c.FormFile("image")
	if fErr == nil {
		image, err = readUpload(fh)
	}
	return
}

// Create handles product creation under a merchant
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	name, description, category, price, image, err := bindProductForm(c)
	if err != nil {
		log.Error("Failed to read product image", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read uploaded file"})
	}

	merchantID, _ := strconv.ParseUint(c.FormValue("merchant_id"), 10, 32)

	product, err := h.catalog.Add(&service.AddProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		MerchantID:  uint(merchantID),
	}, image)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Product created",
		zap.Uint("id", product.ID),
		zap.String("name", product.Name),
		zap.Uint("merchant_id", product.MerchantID))
	return c.JSON(http.StatusCreated, product)
}

// Update handles product edits; the image is only replaced when supplied
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	name, description, category, price, image, err := bindProductForm(c)
	if err != nil {
		log.Error("Failed to read product image", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read uploaded file"})
	}

	product, err := h.catalog.Edit(uint(productID), &service.EditProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
	}, image)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Product updated", zap.Uint("id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// Delete removes a product and releases its image blob
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	if err := h.catalog.Delete(uint(productID)); err != nil {
		return respondError(c, err)
	}

	log.Info("Product deleted", zap.Uint64("id", productID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// Get returns a single product
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	product, err := h.catalog.Get(uint(productID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// ListAll returns the whole catalog
func (h *ProductHandler) ListAll(c echo.Context) error {
	products, err := h.catalog.ListAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// ListByMerchant returns a merchant's products
func (h *ProductHandler) ListByMerchant(c echo.Context) error {
	merchantID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid merchant ID"})
	}

	products, err := h.catalog.ListByMerchant(uint(merchantID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

// AverageRating returns the mean review rating of a product
func (h *ProductHandler) AverageRating(c echo.Context) error {
	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product ID"})
	}

	avg, err := h.catalog.AverageRating(uint(productID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"average_rating": avg})
}

// Categories returns the fixed category enumeration
func (h *ProductHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Categories)
}
