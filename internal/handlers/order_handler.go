package handlers

import (
	"log"

	"horologe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles the read-only HTTP surface for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleGetOrders)
	router.Get("/orders/:id", h.HandleGetOrderByID)
	router.Get("/order_details", h.HandleGetOrderDetails)
}

// HandleGetOrderByID retrieves a single order with its details.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(order)
}

// HandleGetOrders retrieves all orders with nested details.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return errorResponse(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderDetails retrieves all order details with their parent
// order and product nested.
func (h *OrderHandler) HandleGetOrderDetails(c *fiber.Ctx) error {
	details, err := h.service.GetAllOrderDetails()
	if err != nil {
		log.Printf("Error getting all order details: %v", err)
		return errorResponse(c, err)
	}
	return c.JSON(details)
}
