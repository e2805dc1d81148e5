package models

import "time"

// Order represents a purchase made by a user. An order exclusively owns
// its detail rows; deleting the order deletes them.
type Order struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`

	OrderDetails []OrderDetail `json:"order_details,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderDetail links an order to a product with a quantity. The back
// reference to the order is only populated on the order-detail listing,
// and the nested order is never loaded with its details, so JSON output
// stays acyclic.
type OrderDetail struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string   `json:"order_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	Order     *Order   `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	ProductID string   `json:"product_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity" gorm:"not null" validate:"required,gte=1"`
}
