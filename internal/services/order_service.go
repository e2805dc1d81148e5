package services

import (
	"errors"
	"fmt"
	"log"

	"horologe/internal/apperrors"
	"horologe/internal/models"
	"horologe/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// OrderService handles orders and their line items. The HTTP surface for
// orders is read-only; creation and deletion are used by seeding and
// by the account cascade, and go through the write gateway like every
// other mutation.
type OrderService struct {
	orders   repositories.OrderRepository
	gateway  repositories.Gateway
	events   EventPublisher
	validate *validator.Validate
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orders repositories.OrderRepository,
	gateway repositories.Gateway,
	events EventPublisher,
) *OrderService {
	return &OrderService{
		orders:   orders,
		gateway:  gateway,
		events:   events,
		validate: validator.New(),
	}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// GetAllOrders retrieves all orders with nested details and products.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orders.GetAll()
}

// GetOrderByID retrieves a single order.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orders.GetByID(id)
}

// GetAllOrderDetails retrieves all order details with their parent order
// and product nested.
func (s *OrderService) GetAllOrderDetails() ([]models.OrderDetail, error) {
	return s.orders.GetAllDetails()
}

// CreateOrder creates an order with its detail rows in one transaction.
// The referenced user and every referenced product must exist; a missing
// reference fails the whole order as a constraint violation and nothing
// is written.
func (s *OrderService) CreateOrder(userID string, items []OrderItemInput) (*models.Order, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", "user_id is required")
	}
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("items", "an order needs at least one item")
	}
	for i, item := range items {
		if err := s.validate.Struct(item); err != nil {
			return nil, toValidationError(fmt.Errorf("item %d: %w", i, err))
		}
	}

	order := &models.Order{UserID: userID}
	err := s.gateway.Commit(func(tx repositories.Tx) error {
		if _, err := tx.Users.GetByID(userID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: order references unknown user %s", apperrors.ErrConstraint, userID)
			}
			return err
		}
		for _, item := range items {
			if _, err := tx.Products.GetByID(item.ProductID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: order references unknown product %s", apperrors.ErrConstraint, item.ProductID)
				}
				return err
			}
			order.OrderDetails = append(order.OrderDetails, models.OrderDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		return tx.Orders.Create(order)
	})
	if err != nil {
		return nil, err
	}

	s.publish("order.created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"items":    len(order.OrderDetails),
	})
	return order, nil
}

// DeleteOrder removes an order and cascades to its detail rows.
func (s *OrderService) DeleteOrder(id string) error {
	return s.gateway.Commit(func(tx repositories.Tx) error {
		return tx.Orders.Delete(id)
	})
}

func (s *OrderService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
