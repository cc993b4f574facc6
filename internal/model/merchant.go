package model

import (
	"time"

	"gorm.io/gorm"
)

// MerchantStatus is the onboarding state of a merchant
type MerchantStatus string

const (
	MerchantPending  MerchantStatus = "PENDING"
	MerchantApproved MerchantStatus = "APPROVED"
	MerchantRejected MerchantStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition
func (s MerchantStatus) Terminal() bool {
	return s == MerchantApproved || s == MerchantRejected
}

// Merchant represents a seller and its approval state machine
type Merchant struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Name                string         `json:"name" gorm:"type:varchar(100);not null"`
	ContactNumber       string         `json:"contact_number" gorm:"type:varchar(30);not null"`
	Email               string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description         string         `json:"description" gorm:"type:text"`
	DocumentDescription string         `json:"document_description" gorm:"type:text"`
	Status              MerchantStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Documents []MerchantDocument `json:"documents,omitempty" gorm:"foreignKey:MerchantID"`
}

// MerchantDocument is one vetting attachment uploaded by a merchant
type MerchantDocument struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MerchantID uint      `json:"merchant_id" gorm:"index;not null"`
	Filename   string    `json:"filename" gorm:"type:varchar(255);not null"`
	BlobHandle string    `json:"blob_handle" gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `json:"created_at"`
}
