package repositories

import (
	"errors"
	"fmt"
	"time"

	"horologe/internal/apperrors"
	"horologe/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their details and each detail's
// product. The details' back reference to the order is left nil so the
// serialized order stays acyclic.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("OrderDetails.Product").Preload("OrderDetails").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its details.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("OrderDetails.Product").Preload("OrderDetails").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetAllDetails retrieves all order details with their parent order and
// product. The nested order is loaded without its details slice, which
// breaks the detail -> order -> detail cycle in JSON output.
func (r *GORMOrderRepository) GetAllDetails() ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	if err := r.db.Preload("Order").Preload("Product").Find(&details).Error; err != nil {
		return nil, fmt.Errorf("failed to get all order details: %w", err)
	}
	return details, nil
}

// Create inserts an order and all of its detail rows.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range order.OrderDetails {
		if order.OrderDetails[i].ID == "" {
			order.OrderDetails[i].ID = uuid.New().String()
		}
		order.OrderDetails[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", translateStoreError(err))
	}
	return nil
}

// Delete removes an order and cascades to its detail rows.
func (r *GORMOrderRepository) Delete(id string) error {
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
		return fmt.Errorf("failed to delete details for order %s: %w", id, err)
	}
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteByUser removes all orders belonging to a user, details first.
func (r *GORMOrderRepository) DeleteByUser(userID string) error {
	var orderIDs []string
	if err := r.db.Model(&models.Order{}).Where("user_id = ?", userID).Pluck("id", &orderIDs).Error; err != nil {
		return fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	if len(orderIDs) == 0 {
		return nil
	}
	if err := r.db.Where("order_id IN ?", orderIDs).Delete(&models.OrderDetail{}).Error; err != nil {
		return fmt.Errorf("failed to delete order details for user %s: %w", userID, err)
	}
	if err := r.db.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
		return fmt.Errorf("failed to delete orders for user %s: %w", userID, err)
	}
	return nil
}
