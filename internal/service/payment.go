package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/metrics"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// PaymentService links completed external captures to orders, immutably
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService creates the payment reconciler component
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// SavePaymentInput records what the caller asserts the processor captured
type SavePaymentInput struct {
	OrderID       uint    `json:"order_id" validate:"required"`
	TransactionID string  `json:"transaction_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Subtotal      float64 `json:"subtotal" validate:"gte=0"`
	Tax           float64 `json:"tax" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required"`
	Method        string  `json:"method"`
	Status        string  `json:"status" validate:"required"`
	AddressLine   string  `json:"address_line"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postal_code"`
	CountryCode   string  `json:"country_code"`
}

// Save persists a payment for an order. At most one payment may reference an
// order and a processor transaction id is recorded once; either duplicate is
// a conflict, enforced by the store's unique indexes.
func (s *PaymentService) Save(in *SavePaymentInput) (*model.Payment, error) {
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

	payment := model.Payment{
		OrderID:       in.OrderID,
		TransactionID: in.TransactionID,
		Amount:        in.Amount,
		Subtotal:      in.Subtotal,
		Tax:           in.Tax,
		Currency:      in.Currency,
		Method:        in.Method,
		Status:        in.Status,
		AddressLine:   in.AddressLine,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		CountryCode:   in.CountryCode,
	}

	if err := s.db.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("order %d already has a recorded payment", in.OrderID)
		}
		return nil, apperr.Internal(err, "failed to record payment")
	}

	metrics.PaymentRecordedCounter.Inc()
	return &payment, nil
}

// FindByExternalID looks a payment up by the processor's transaction id,
// with its order populated.
func (s *PaymentService) FindByExternalID(transactionID string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.Preload("Order").Preload("Order.Product").
		Where("transaction_id = ?", transactionID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no payment recorded for transaction %s", transactionID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load payment")
	}
	return &payment, nil
}
