package repositories

import (
	"horologe/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Save(product *models.Product) error
	Delete(id string) error
	CreateLink(link *models.ProductCategory) error
}
