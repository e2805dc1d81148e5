package repositories

import (
	"horologe/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetAllDetails() ([]models.OrderDetail, error)
	Create(order *models.Order) error
	Delete(id string) error
	DeleteByUser(userID string) error
}
