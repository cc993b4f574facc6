package model

import "time"

// Review is a customer's rating of a completed order. The unique index on
// OrderID enforces at-most-one-review-per-order at the store, so concurrent
// submissions lose deterministically instead of racing an application scan.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:varchar(1000);not null"`
	CreatedAt time.Time `json:"created_at"`
}
