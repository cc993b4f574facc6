package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated account stored in the database
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         string         `json:"role" gorm:"type:varchar(20);not null;default:'customer'"`
	IsFirstLogin bool           `json:"is_first_login" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
