package model

import (
	"time"

	"gorm.io/gorm"
)

// Categories is the fixed set of product categories offered on the platform
var Categories = []string{"Honeymoon", "Diving", "Homestay", "Cruise", "Cultural", "Adventure"}

// IsValidCategory reports whether category is in the fixed enumerated set
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Product represents a listing owned by an approved merchant
type Product struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:varchar(500)"`
	Price       float64        `json:"price" gorm:"not null"`
	Category    string         `json:"category" gorm:"type:varchar(50);not null;index"`
	ImageHandle string         `json:"image_handle" gorm:"type:varchar(255)"`
	MerchantID  uint           `json:"merchant_id" gorm:"index;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}
