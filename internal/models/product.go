package models

import "time"

// Product represents a watch in the catalog.
type Product struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string  `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Description  string  `json:"description" gorm:"type:text"`
	Price        float64 `json:"price" gorm:"not null"`
	ItemQuantity int     `json:"item_quantity" gorm:"default:0" validate:"gte=0"`
	ImageURL     string  `json:"image_url" gorm:"type:varchar(255)"`
	ImageAltText string  `json:"image_alt_text" gorm:"type:varchar(255)"`

	// Categories is the convenience view over the product_categories join
	// table. It is only ever serialized from the product side; a category
	// nested under a product never re-embeds its products.
	Categories []Category `json:"categories,omitempty" gorm:"many2many:product_categories;"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category groups products. Names are unique across the catalog.
type Category struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null" validate:"required"`

	Products []Product `json:"-" gorm:"many2many:product_categories;"`
}

// ProductCategory is the join row realizing the product/category
// many-to-many relation. Rows are owned by the product/category pair and
// must be removed whenever either parent is deleted.
type ProductCategory struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_product_category"`
	CategoryID string `json:"category_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_product_category"`
}

// TableName keeps the join table name aligned with the many2many tags above.
func (ProductCategory) TableName() string {
	return "product_categories"
}
