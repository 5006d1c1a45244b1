package models

import "time"

// Product represents an item in the store catalog.
// Code is the business key: unique across all products and used for
// stock adjustments, while ID stays the surrogate primary key.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;type:varchar(50);not null" validate:"required,min=3,max=50"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" validate:"required,min=3,max=255"`
	Description string    `json:"description" gorm:"type:text" validate:"omitempty"`
	Category    string    `json:"category" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
