package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/blob"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// CatalogService owns products, scoped to approved merchants
type CatalogService struct {
	db    *gorm.DB
	blobs blob.Store
}

// NewCatalogService creates the catalog component
func NewCatalogService(db *gorm.DB, blobs blob.Store) *CatalogService {
	return &CatalogService{db: db, blobs: blobs}
}

// AddProductInput is the payload for product creation
type AddProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	MerchantID  uint    `json:"merchant_id" validate:"required"`
}

// EditProductInput is the payload for product updates
type EditProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
}

// Add creates a product under an approved merchant. The image is stored
// first; if the record insert fails the blob is cleaned up best-effort.
func (s *CatalogService) Add(in *AddProductInput, image *Upload) (*model.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !model.IsValidCategory(in.Category) {
		return nil, apperr.Validation("unknown category %q", in.Category)
	}
	if err := checkUploadPolicy(image, imageContentTypes); err != nil {
		return nil, err
	}

	var merchant model.Merchant
	if err := s.db.First(&merchant, in.MerchantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("merchant %d not found", in.MerchantID)
		}
		return nil, apperr.Internal(err, "failed to load merchant")
	}
	if merchant.Status != model.MerchantApproved {
		return nil, apperr.Validation("merchant %d is not approved to list products", in.MerchantID)
	}

	handle, err := s.blobs.Store(image.Data, image.ContentType)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to store product image")
	}

	product := model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageHandle: handle,
		MerchantID:  in.MerchantID,
	}

	if err := s.db.Create(&product).Error; err != nil {
		if delErr := s.blobs.Delete(handle); delErr != nil {
			logger.GetLogger().Warn("failed to clean up image blob after insert failure",
				zap.String("handle", handle), zap.Error(delErr))
		}
		return nil, apperr.Internal(err, "failed to create product")
	}

	return &product, nil
}

// Edit updates a product. The stored image is replaced, and the previous
// blob released, only when a new image is supplied.
func (s *CatalogService) Edit(productID uint, in *EditProductInput, image *Upload) (*model.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !model.IsValidCategory(in.Category) {
		return nil, apperr.Validation("unknown category %q", in.Category)
	}

	var product model.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", productID)
		}
		return nil, apperr.Internal(err, "failed to load product")
	}

	oldHandle := ""
	if image != nil {
		if err := checkUploadPolicy(image, imageContentTypes); err != nil {
			return nil, err
		}
		handle, err := s.blobs.Store(image.Data, image.ContentType)
		if err != nil {
			return nil, apperr.Upstream(err, "failed to store product image")
		}
		oldHandle = product.ImageHandle
		product.ImageHandle = handle
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Category = in.Category

	if err := s.db.Save(&product).Error; err != nil {
		return nil, apperr.Internal(err, "failed to update product")
	}

	// release the replaced image only after the new handle is durable
	if oldHandle != "" {
		if err := s.blobs.Delete(oldHandle); err != nil && !errors.Is(err, blob.ErrNotFound) {
			logger.GetLogger().Warn("failed to release replaced image blob",
				zap.String("handle", oldHandle), zap.Error(err))
		}
	}

	return &product, nil
}

// Delete removes a product. The record goes first; the blob delete is
// best-effort so a storage failure never resurrects the listing.
func (s *CatalogService) Delete(productID uint) error {
	var product model.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product %d not found", productID)
		}
		return apperr.Internal(err, "failed to load product")
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return apperr.Internal(err, "failed to delete product")
	}

	if product.ImageHandle != "" {
		if err := s.blobs.Delete(product.ImageHandle); err != nil && !errors.Is(err, blob.ErrNotFound) {
			logger.GetLogger().Warn("failed to release image blob of deleted product",
				zap.String("handle", product.ImageHandle), zap.Error(err))
		}
	}

	return nil
}

// Get returns a single product with its reviews
func (s *CatalogService) Get(productID uint) (*model.Product, error) {
	var product model.Product
	err := s.db.Preload("Reviews").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load product")
	}
	return &product, nil
}

// ListByMerchant returns all products owned by a merchant
func (s *CatalogService) ListByMerchant(merchantID uint) ([]model.Product, error) {
	var products []model.Product
	if err := s.db.Where("merchant_id = ?", merchantID).Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list products")
	}
	return products, nil
}

// ListAll returns the whole catalog. An empty catalog is reported as not
// found; callers depend on that contract.
func (s *CatalogService) ListAll() ([]model.Product, error) {
	var products []model.Product
	if err := s.db.Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list products")
	}
	if len(products) == 0 {
		return nil, apperr.NotFound("no products found")
	}
	return products, nil
}

// AverageRating returns the arithmetic mean of the product's review ratings,
// 0 when no reviews exist.
func (s *CatalogService) AverageRating(productID uint) (float64, error) {
	var count int64
	if err := s.db.Model(&model.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return 0, apperr.Internal(err, "failed to load product")
	}
	if count == 0 {
		return 0, apperr.NotFound("product %d not found", productID)
	}

	var avg float64
	err := s.db.Model(&model.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, apperr.Internal(err, "failed to compute average rating")
	}
	return avg, nil
}
