package models

import "time"

// User represents a customer account. The password hash is never
// serialized; registration and login use dedicated request types.
type User struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username        string `json:"username" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,min=3,max=255"`
	Email           string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password        string `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=6"`
	ShippingAddress string `json:"shipping_address" gorm:"type:text"`
	ShippingCity    string `json:"shipping_city" gorm:"type:varchar(255)"`
	ShippingState   string `json:"shipping_state" gorm:"type:varchar(255)"`
	ShippingZip     string `json:"shipping_zip" gorm:"type:varchar(255)"`

	Orders []Order `json:"-" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
