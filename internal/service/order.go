package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/mailer"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/metrics"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// orderNumberPrefix leads every business order identifier
const orderNumberPrefix = "PRS"

// OrderService creates immutable ledger entries with business-unique,
// per-year sequential order numbers.
type OrderService struct {
	db   *gorm.DB
	mail mailer.Notifier
	now  func() time.Time
}

// NewOrderService creates the order ledger component
func NewOrderService(db *gorm.DB, mail mailer.Notifier) *OrderService {
	return &OrderService{db: db, mail: mail, now: time.Now}
}

// CreateOrderInput is the payload for order creation. The merchant id is
// denormalized from the product's owner, never trusted from the caller.
type CreateOrderInput struct {
	ProductID   uint    `json:"product_id" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	TotalAmount float64 `json:"total_amount" validate:"required,gte=0.01"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required"`
	CustomerID  uint    `json:"customer_id" validate:"required"`
}

// Create appends one order to the ledger. The order number counter advances
// with an atomic in-place increment inside the same transaction, so
// concurrent creations observe mutually exclusive, gap-free values.
func (s *OrderService) Create(in *CreateOrderInput) (*model.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var product model.Product
	if err := s.db.First(&product, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", in.ProductID)
		}
		return nil, apperr.Internal(err, "failed to load product")
	}

	order := model.Order{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
		Email:       in.Email,
		Phone:       in.Phone,
		CustomerID:  in.CustomerID,
		MerchantID:  product.MerchantID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		number, err := s.nextOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to create order")
	}

	metrics.OrderCreatedCounter.Inc()
	s.sendReceipt(&order, &product)
	return &order, nil
}

// sendReceipt emails the purchase confirmation, fire-and-forget
func (s *OrderService) sendReceipt(order *model.Order, product *model.Product) {
	if s.mail == nil {
		return
	}
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	body := fmt.Sprintf("Thank you for your purchase.\n\nOrder: %s\nProduct: %s\nQuantity: %d\nTotal: %.2f\n",
		order.OrderNumber, product.Name, order.Quantity, order.TotalAmount)

	go func() {
		if err := s.mail.Send(order.Email, subject, body); err != nil {
			logger.GetLogger().Warn("failed to send order receipt mail",
				zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}()
}

// GetByID returns one order with its product
func (s *OrderService) GetByID(orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.Preload("Product").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load order")
	}
	return &order, nil
}

// nextOrderNumber advances the calendar-year counter and formats the
// identifier as PRS<year><5-digit zero-padded sequence>. The upsert holds
// the counter row lock until the surrounding transaction commits, which
// linearizes concurrent creations within the year.
func (s *OrderService) nextOrderNumber(tx *gorm.DB) (string, error) {
	year := s.now().Year()

	counter := model.OrderCounter{Year: year, Value: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("value + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return "", err
	}

	// re-read inside the transaction: sees this transaction's increment
	if err := tx.First(&counter, "year = ?", year).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%d%05d", orderNumberPrefix, year, counter.Value), nil
}
