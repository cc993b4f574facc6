package model

import "time"

// Order is an immutable ledger entry recording a purchase intent.
// OrderNumber is the human-readable business identifier, unique across all
// years and strictly increasing within one.
type Order struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderNumber string    `json:"order_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	ProductID   uint      `json:"product_id" gorm:"index;not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	TotalAmount float64   `json:"total_amount" gorm:"not null"`
	Email       string    `json:"email" gorm:"type:varchar(100);not null;index"`
	Phone       string    `json:"phone" gorm:"type:varchar(30);not null"`
	CustomerID  uint      `json:"customer_id" gorm:"index;not null"`
	MerchantID  uint      `json:"merchant_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// OrderCounter holds the per-year order number sequence. The value is only
// ever advanced with an atomic in-place increment.
type OrderCounter struct {
	Year  int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}
