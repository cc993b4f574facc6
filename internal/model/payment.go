package model

import "time"

// Payment links a completed external capture to exactly one order. The
// unique indexes on OrderID and TransactionID are the reconciliation
// invariants: one payment per order, one record per processor transaction.
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OrderID       uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	TransactionID string    `json:"transaction_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Currency      string    `json:"currency" gorm:"type:varchar(8);not null"`
	Method        string    `json:"method" gorm:"type:varchar(32)"`
	Status        string    `json:"status" gorm:"type:varchar(32)"`
	AddressLine   string    `json:"address_line" gorm:"type:varchar(255)"`
	City          string    `json:"city" gorm:"type:varchar(100)"`
	State         string    `json:"state" gorm:"type:varchar(100)"`
	PostalCode    string    `json:"postal_code" gorm:"type:varchar(20)"`
	CountryCode   string    `json:"country_code" gorm:"type:varchar(8)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Order Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
