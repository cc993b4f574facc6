package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/metrics"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// ReviewService decides review eligibility and accepts at most one review
// per order.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates the review gate component
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// SubmitReviewInput is the payload for review submission
type SubmitReviewInput struct {
	OrderID uint   `json:"order_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
	UserID  uint   `json:"user_id" validate:"required"`
}

// UnreviewedOrders returns the customer's orders that no review references
// yet, each joined with its product's display fields. The anti-join pushes
// the eligibility set-difference into the store instead of scanning every
// review in the application.
func (s *ReviewService) UnreviewedOrders(customerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.
		Joins("LEFT JOIN reviews ON reviews.order_id = orders.id").
		Where("orders.customer_id = ? AND reviews.id IS NULL", customerID).
		Preload("Product").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to list unreviewed orders")
	}
	return orders, nil
}

// Submit creates the review for an order. The order must belong to the
// submitting customer, and the store's unique index on order_id guarantees
// only one of any concurrent submissions persists; the loser conflicts.
func (s *ReviewService) Submit(in *SubmitReviewInput) (*model.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var order model.Order
	if err := s.db.First(&order, in.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", in.OrderID)
		}
		return nil, apperr.Internal(err, "failed to load order")
	}

	if order.CustomerID != in.UserID {
		return nil, apperr.Validation("order %d does not belong to this customer", in.OrderID)
	}

	var product model.Product
	if err := s.db.First(&product, order.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", order.ProductID)
		}
		return nil, apperr.Internal(err, "failed to load product")
	}

	review := model.Review{
		OrderID:   in.OrderID,
		ProductID: product.ID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}

	if err := s.db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("order %d has already been reviewed", in.OrderID)
		}
		return nil, apperr.Internal(err, "failed to create review")
	}

	metrics.ReviewSubmittedCounter.Inc()
	return &review, nil
}
