package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"horologe/internal/apperrors"
	"horologe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Post("/products", h.HandleCreateProduct)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Patch("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeleteProduct)
	router.Get("/categories", h.HandleGetCategories)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return errorResponse(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product with its category links.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial patch to a product. Unknown JSON
// keys are a caller bug and rejected, rather than silently ignored.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	input, err := decodePatch(c.Body())
	if err != nil {
		return errorResponse(c, err)
	}

	product, err := h.service.UpdateProduct(c.Params("id"), *input)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(product)
}

// HandleDeleteProduct removes a product and its category links.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetCategories retrieves all categories.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return errorResponse(c, err)
	}
	return c.JSON(categories)
}

// encoding/json exposes no typed error for DisallowUnknownFields
// rejections; the decoder only formats `json: unknown field "..."`, so
// the message text is the detection point.
const unknownFieldMarker = "unknown field"

// decodePatch decodes a product patch strictly: unknown fields and
// mistyped values both come back as validation errors.
func decodePatch(body []byte) (*services.UpdateProductInput, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var input services.UpdateProductInput
	if err := dec.Decode(&input); err != nil {
		if strings.Contains(err.Error(), unknownFieldMarker) {
			return nil, apperrors.NewValidationError("body", err.Error())
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperrors.NewValidationError(typeErr.Field, "wrong type for field")
		}
		return nil, apperrors.NewValidationError("body", "invalid JSON body")
	}
	return &input, nil
}
